package repository

import (
	"context"
	"fmt"

	"github.com/festivalops/offer-api/internal/domain"
	"gorm.io/gorm"
)

// CatalogSnapshot holds every product and category setting read in one transaction
type CatalogSnapshot struct {
	Products   []domain.Product
	Categories []domain.CategorySetting
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Snapshot reads products (including inactive ones) and category settings
func (r *CatalogRepository) Snapshot(ctx context.Context) (*CatalogSnapshot, error) {
	var snap CatalogSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("display_order ASC").Order("name ASC").Order("id ASC").Find(&snap.Products).Error; err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		if err := tx.Order("display_order ASC").Order("category ASC").Find(&snap.Categories).Error; err != nil {
			return fmt.Errorf("failed to load category settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
