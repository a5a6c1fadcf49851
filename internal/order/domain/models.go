package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a client's purchase record. PaymentDeadline is computed once at
// creation (created_at plus the configured offset) and never recomputed.
// RemainderSent and RemainderForce are the only fields that mutate after
// creation; everything else is written exactly once.
type Order struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null"`
	ClientID        int64     `json:"client_id" gorm:"not null"`
	ShipmentAddress string    `json:"shipment_address" gorm:"type:text;not null"`
	PaymentDeadline time.Time `json:"payment_deadline" gorm:"not null"`
	RemainderSent   bool      `json:"remainder_sent" gorm:"not null;default:false"`
	RemainderForce  bool      `json:"remainder_force" gorm:"not null;default:false"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order. ProductPrice is the catalog price frozen
// at order time; later product price changes never touch it.
type OrderItem struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	OrderID      int64           `json:"order_id" gorm:"not null;index"`
	ProductID    int64           `json:"product_id" gorm:"not null;index"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	ProductPrice decimal.Decimal `json:"product_price" gorm:"type:numeric(9,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// Total sums quantity times frozen unit price across line items. It is always
// derived on read, never stored.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
