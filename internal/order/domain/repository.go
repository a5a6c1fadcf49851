package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type TopSeller struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Sold        int64  `json:"sold"`
}

type Repository interface {
	CreateOrder(ctx context.Context, db *gorm.DB, order *Order, items []OrderItem) error
	FindOrderByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	ListOrders(ctx context.Context, db *gorm.DB) ([]Order, error)
	FindItems(ctx context.Context, db *gorm.DB, orderID int64) ([]OrderItem, error)

	// FindDueForReminder returns orders where the reminder has not gone out and
	// the payment deadline falls on or before the given day boundary, plus any
	// order with the force flag set regardless of deadline or sent state.
	FindDueForReminder(ctx context.Context, db *gorm.DB, deadlineBefore time.Time) ([]Order, error)

	// MarkReminderSent atomically records a delivered reminder
	// (remainder_sent = true, remainder_force = false). Returns rows affected.
	MarkReminderSent(ctx context.Context, db *gorm.DB, orderID int64) (int64, error)

	// SetReminderForce flags an order for unconditional inclusion in the next
	// sweep. Matching zero rows is not an error. Returns rows affected.
	SetReminderForce(ctx context.Context, db *gorm.DB, orderID int64) (int64, error)

	TopSellers(ctx context.Context, db *gorm.DB, limit int, dateMin, dateMax time.Time) ([]TopSeller, error)
	ProductHasSales(ctx context.Context, db *gorm.DB, productID int64) (bool, error)
}
