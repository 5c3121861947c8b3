package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// Migrate applies the schema for every persisted attendance model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Person{},
		&models.Template{},
		&models.Event{},
		&models.AttendanceRecord{},
		&models.Admin{},
	)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
