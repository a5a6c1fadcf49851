package repository

import (
	"context"
	"time"

	catalogdomain "github.com/northmart/shopd/internal/catalog/domain"
	"github.com/northmart/shopd/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// ProvideSalesChecker exposes the order store's line-item lookup to the
// catalog's delete guard.
func ProvideSalesChecker(r domain.Repository) catalogdomain.SalesChecker {
	return r
}

func (r *repo) CreateOrder(ctx context.Context, db *gorm.DB, order *domain.Order, items []domain.OrderItem) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`INSERT INTO orders (id, created_at, client_id, shipment_address, payment_deadline, remainder_sent, remainder_force)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID,
			order.CreatedAt,
			order.ClientID,
			order.ShipmentAddress,
			order.PaymentDeadline,
			order.RemainderSent,
			order.RemainderForce,
		).Error
		if err != nil {
			return err
		}

		for _, item := range items {
			err := tx.Exec(
				`INSERT INTO order_items (id, order_id, product_id, quantity, product_price)
				 VALUES (?, ?, ?, ?, ?)`,
				item.ID,
				item.OrderID,
				item.ProductID,
				item.Quantity,
				item.ProductPrice,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) FindOrderByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, created_at, client_id, shipment_address, payment_deadline, remainder_sent, remainder_force
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repo) ListOrders(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var items []domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, created_at, client_id, shipment_address, payment_deadline, remainder_sent, remainder_force
		 FROM orders ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, product_id, quantity, product_price
		 FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindDueForReminder(ctx context.Context, db *gorm.DB, deadlineBefore time.Time) ([]domain.Order, error) {
	var items []domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, created_at, client_id, shipment_address, payment_deadline, remainder_sent, remainder_force
		 FROM orders
		 WHERE (remainder_sent = ? AND payment_deadline < ?) OR remainder_force = ?
		 ORDER BY id ASC`,
		false,
		deadlineBefore,
		true,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkReminderSent(ctx context.Context, db *gorm.DB, orderID int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders SET remainder_sent = ?, remainder_force = ?
		 WHERE id = ? AND (remainder_sent = ? OR remainder_force = ?)`,
		true,
		false,
		orderID,
		false,
		true,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) SetReminderForce(ctx context.Context, db *gorm.DB, orderID int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders SET remainder_force = ? WHERE id = ?`,
		true,
		orderID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) TopSellers(ctx context.Context, db *gorm.DB, limit int, dateMin, dateMax time.Time) ([]domain.TopSeller, error) {
	var items []domain.TopSeller
	err := db.WithContext(ctx).Raw(
		`SELECT oi.product_id AS product_id, p.name AS product_name, SUM(oi.quantity) AS sold
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN products p ON p.id = oi.product_id
		 WHERE o.created_at >= ? AND o.created_at < ?
		 GROUP BY oi.product_id, p.name
		 ORDER BY sold DESC
		 LIMIT ?`,
		dateMin,
		dateMax,
		limit,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ProductHasSales(ctx context.Context, db *gorm.DB, productID int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
