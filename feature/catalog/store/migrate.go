package store

import (
	"catalog-sync/core/errors"
	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.NewPersistenceError("migrate", err)
	}
	return nil
}
