package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/voyaglog/voyaglog-api/internal/db"
)

// Init creates the auth schema and tables. It is idempotent.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, db.AuthSchema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", db.AuthSchema, err)
	}
	if err := d.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("auto-migrate users: %w", err)
	}
	return nil
}
