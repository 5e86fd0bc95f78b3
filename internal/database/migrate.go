package database

import (
	"fmt"

	"github.com/azizjun/kvartal-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all registered models.
// Order matters: referenced tables first so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Complex{},
		&models.Block{},
		&models.Apartment{},
		&models.Client{},
		&models.Contract{},
		&models.Payment{},
		&models.ApartmentLayout{},
		&models.TechPassport{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
