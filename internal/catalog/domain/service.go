package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	ListCategories(ctx context.Context, search string) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, id int64) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id int64, req CategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductResponse, error)
	GetProduct(ctx context.Context, id int64) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	PhotoURL    string          `json:"photo_url"`
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	PhotoURL     string          `json:"photo_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrNameTooLong     = errors.New("name_too_long")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrNotFound        = errors.New("not_found")
	ErrCategoryInUse   = errors.New("category_in_use")
	ErrProductSold     = errors.New("product_already_sold")
)
