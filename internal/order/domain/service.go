package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	ForceReminder(ctx context.Context, orderID int64) ([]ForceReminderResponse, error)
	TopSellers(ctx context.Context, req TopSellersRequest) ([]TopSeller, error)
}

type ItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateRequest struct {
	ShipmentAddress string        `json:"shipment_address"`
	Items           []ItemRequest `json:"items"`
}

type ItemResponse struct {
	ProductID    int64           `json:"product_id"`
	Quantity     int             `json:"quantity"`
	ProductPrice decimal.Decimal `json:"product_price"`
}

type Response struct {
	ID              int64           `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	ClientEmail     string          `json:"client_email"`
	ClientFirstName string          `json:"client_first_name"`
	ClientLastName  string          `json:"client_last_name"`
	ShipmentAddress string          `json:"shipment_address"`
	PaymentDeadline time.Time       `json:"payment_deadline"`
	OrderTotal      decimal.Decimal `json:"order_total"`
	Items           []ItemResponse  `json:"items"`
}

type ForceReminderResponse struct {
	ID             int64 `json:"id"`
	RemainderForce bool  `json:"remainder_force"`
}

type TopSellersRequest struct {
	ProductsMax int
	DateMin     time.Time
	DateMax     time.Time
}

var (
	ErrEmptyOrder      = errors.New("empty_order")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrUnknownProduct  = errors.New("unknown_product")
	ErrInvalidAddress  = errors.New("invalid_address")
	ErrInvalidLimit    = errors.New("invalid_products_max")
	ErrInvalidRange    = errors.New("invalid_date_range")
	ErrNotFound        = errors.New("order_not_found")
)
