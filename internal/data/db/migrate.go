package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/productform-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.Product{},
		&types.Parcel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
