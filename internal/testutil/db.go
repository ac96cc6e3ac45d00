package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/festivalops/offer-api/internal/database"
	"github.com/festivalops/offer-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// SetupTestDB opens a fresh in-memory SQLite database with the schema migrated.
// Every call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the shared in-memory database alive and serialises writes
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// ProductOption customises a test product
type ProductOption func(*domain.Product)

// WithKeyFigure derives the product quantity from a key figure
func WithKeyFigure(kf domain.KeyFigure, multiplier float64) ProductOption {
	return func(p *domain.Product) {
		p.KeyFigure = kf
		p.KeyFigureMultiplier = multiplier
	}
}

// WithDefaultQuantity sets the default quantity of new lines
func WithDefaultQuantity(qty float64) ProductOption {
	return func(p *domain.Product) { p.DefaultQuantity = qty }
}

// WithPercentage makes the product percentage-based
func WithPercentage(fee, costBasis float64) ProductOption {
	return func(p *domain.Product) {
		p.PercentageFee = fee
		p.PercentageCostBasis = costBasis
	}
}

// WithStaffel marks the product as staffel-eligible
func WithStaffel() ProductOption {
	return func(p *domain.Product) { p.StaffelEligible = true }
}

// Inactive deactivates the product
func Inactive() ProductOption {
	return func(p *domain.Product) { p.IsActive = false }
}

// CreateTestProduct stores a product priced at 10 with cost basis 4
func CreateTestProduct(t *testing.T, db *gorm.DB, name, category string, order int, opts ...ProductOption) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:         name,
		Category:     category,
		IsActive:     true,
		DefaultPrice: 10,
		CostBasis:    4,
		KeyFigure:    domain.KeyFigureNone,
		DisplayOrder: order,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateCategorySetting stores the calculation mode of a category
func CreateCategorySetting(t *testing.T, db *gorm.DB, category string, calc domain.CalculationType, archived bool) *domain.CategorySetting {
	t.Helper()
	s := &domain.CategorySetting{Category: category, CalculationType: calc, IsArchived: archived}
	require.NoError(t, db.Create(s).Error)
	return s
}
