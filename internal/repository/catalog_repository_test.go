package repository_test

import (
	"context"
	"sort"
	"testing"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/festivalops/offer-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	testutil.CreateTestProduct(t, db, "Zeltdach", "site", 1)
	testutil.CreateTestProduct(t, db, "Bar unit", "bar", 2)
	testutil.CreateTestProduct(t, db, "Awning", "site", 1)
	testutil.CreateTestProduct(t, db, "Retired", "site", 0, testutil.Inactive())

	all, err := repo.List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Retired", all[0].Name)
	assert.Equal(t, "Awning", all[1].Name)
	assert.Equal(t, "Zeltdach", all[2].Name)

	site, err := repo.List(ctx, "site", true)
	require.NoError(t, err)
	assert.Len(t, site, 2)

	active, err := repo.List(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestProductRepository_ListTiesOrderedByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		p := testutil.CreateTestProduct(t, db, "Fence", "site", 1)
		ids = append(ids, p.ID.String())
	}
	sort.Strings(ids)

	products, err := repository.NewProductRepository(db).List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, products, 5)
	for i, p := range products {
		assert.Equal(t, ids[i], p.ID.String())
	}

	snap, err := repository.NewCatalogRepository(db).Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Products, 5)
	for i, p := range snap.Products {
		assert.Equal(t, ids[i], p.ID.String())
	}
}

func TestProductRepository_InactiveIsStored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	p := &domain.Product{Name: "Off", Category: "bar", IsActive: false, KeyFigure: domain.KeyFigureNone}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), gorm.ErrRecordNotFound)
}

func TestCategorySettingRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCategorySettingRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.CategorySetting{Category: "cleaning", CalculationType: domain.CalculationTypePostEvent}))
	require.NoError(t, repo.Upsert(ctx, &domain.CategorySetting{Category: "cleaning", CalculationType: domain.CalculationTypePostEvent, IsArchived: true, DisplayOrder: 4}))

	got, err := repo.Get(ctx, "cleaning")
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
	assert.Equal(t, 4, got.DisplayOrder)

	settings, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1)

	_, err = repo.Get(ctx, "bar")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNumberSequenceRepository_GetNextNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.GetNextNumber(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := repo.GetNextNumber(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "each year starts its own sequence")
}
