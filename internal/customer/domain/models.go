package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Customer is an authenticated shop identity. Role is either "client" or
// "manager" and gates which operations the customer may call.
type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	FirstName string    `json:"first_name" gorm:"type:text;not null;default:''"`
	LastName  string    `json:"last_name" gorm:"type:text;not null;default:''"`
	Role      string    `json:"role" gorm:"type:text;not null;default:'client'"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }

var ErrNotFound = errors.New("customer_not_found")

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Customer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Customer, error)
}
