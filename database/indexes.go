package database

import (
	"gorm.io/gorm"
)

// EnsureIndexes creates the partial unique indexes that scope uniqueness to
// non-deleted rows. AutoMigrate cannot express a WHERE clause, so these run
// as raw DDL after it. The (table_id, time) index is the backstop for the
// check-then-act booking race: the losing writer fails with a unique
// violation and the service remaps it to the overlap client error.
func EnsureIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_restaurants_name_active
			ON restaurants (name) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_table_time_active
			ON reservations (table_id, time) WHERE deleted_at IS NULL`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
