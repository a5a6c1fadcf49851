package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID int64
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Search     string
	OrderBy    string
	Descending bool
}

type Repository interface {
	CreateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*Category, error)
	ListCategories(ctx context.Context, db *gorm.DB, search string) ([]Category, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error
	CountProductsInCategory(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error)

	CreateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindProductsByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, filter ProductFilter) ([]Product, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	DeleteProduct(ctx context.Context, db *gorm.DB, id int64) error
}

// SalesChecker reports whether a product already appears on any order line.
// Implemented by the order store; the catalog consults it before a delete.
type SalesChecker interface {
	ProductHasSales(ctx context.Context, db *gorm.DB, productID int64) (bool, error)
}
