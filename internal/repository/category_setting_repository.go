package repository

import (
	"context"

	"github.com/festivalops/offer-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategorySettingRepository struct {
	db *gorm.DB
}

func NewCategorySettingRepository(db *gorm.DB) *CategorySettingRepository {
	return &CategorySettingRepository{db: db}
}

func (r *CategorySettingRepository) List(ctx context.Context) ([]domain.CategorySetting, error) {
	var settings []domain.CategorySetting
	err := r.db.WithContext(ctx).Order("display_order ASC").Order("category ASC").Find(&settings).Error
	return settings, err
}

func (r *CategorySettingRepository) Get(ctx context.Context, category string) (*domain.CategorySetting, error) {
	var setting domain.CategorySetting
	err := r.db.WithContext(ctx).Where("category = ?", category).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert creates or replaces the setting of a category
func (r *CategorySettingRepository) Upsert(ctx context.Context, setting *domain.CategorySetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"calculation_type", "is_archived", "display_order", "updated_at"}),
	}).Create(setting).Error
}
