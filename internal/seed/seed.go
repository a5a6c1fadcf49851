package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/northmart/shopd/internal/customer/domain"
	"gorm.io/gorm"
)

// EnsureDefaultManager creates a bootstrap manager account so a fresh
// deployment has someone who can manage the catalog. No-op once any manager
// exists.
func EnsureDefaultManager(conn *gorm.DB, genID *snowflake.Node, email string) error {
	if email == "" {
		return nil
	}

	var count int64
	if err := conn.Model(&customerdomain.Customer{}).Where("role = ?", "manager").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return conn.Exec(
		`INSERT INTO customers (id, email, first_name, last_name, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		genID.Generate().Int64(),
		email,
		"Store",
		"Manager",
		"manager",
		time.Now().UTC(),
	).Error
}
