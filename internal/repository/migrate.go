package repository

import (
	"go-quote-pricing/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Project{},
		&model.CatalogProduct{},
		&model.DraftRow{},
		&model.CommittedPrice{},
		&model.CommittedGroupOption{},
	)
}
