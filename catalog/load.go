package catalog

import (
	"context"
	"fmt"

	"github.com/junaidrashid-git/farmfresh-api/models"
	"gorm.io/gorm"
)

// LoadProducts reads every product with its farmer, oldest first. This is the
// snapshot FilterProducts runs over.
func LoadProducts(db *gorm.DB) func(context.Context) ([]models.Product, error) {
	return func(ctx context.Context) ([]models.Product, error) {
		var products []models.Product
		if err := db.WithContext(ctx).Preload("Farmer").Order("created_at asc, id asc").Find(&products).Error; err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		return products, nil
	}
}

// LoadFarmers reads every farmer without products, oldest first.
func LoadFarmers(db *gorm.DB) func(context.Context) ([]models.Farmer, error) {
	return func(ctx context.Context) ([]models.Farmer, error) {
		var farmers []models.Farmer
		if err := db.WithContext(ctx).Order("created_at asc, id asc").Find(&farmers).Error; err != nil {
			return nil, fmt.Errorf("load farmers: %w", err)
		}
		return farmers, nil
	}
}
