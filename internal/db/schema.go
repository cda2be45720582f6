package db

import "gorm.io/gorm"

// EnsureSchema creates schema on postgres. sqlite has no schemas, so it is a no-op there.
func EnsureSchema(d *gorm.DB, schema string) error {
	if IsSQLite(d) {
		return nil
	}
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
