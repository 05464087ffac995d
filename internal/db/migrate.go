package db

import (
	"fmt"

	"github.com/zulandar/strand/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model that Strand persists.
func AllModels() []interface{} {
	return []interface{}{
		&models.Design{},
		&models.DesignBead{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
