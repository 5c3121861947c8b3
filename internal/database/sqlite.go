package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectSQLite opens a file-backed SQLite database. Kiosks without a
// network database run against this driver.
func ConnectSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return db, nil
}
