package service_test

import (
	"context"
	"testing"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/service"
	"github.com/festivalops/offer-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_OfferProfit(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	testutil.CreateCategorySetting(t, s.db, "cleaning", domain.CalculationTypePostEvent, false)
	testutil.CreateTestProduct(t, s.db, "Bar unit", "bar", 1, testutil.WithDefaultQuantity(5))
	cleaning := testutil.CreateTestProduct(t, s.db, "Cleaning", "cleaning", 2)

	created, err := s.offers.Create(ctx, domain.CreateOfferRequest{ClientName: "A", ProjectName: "B"})
	require.NoError(t, err)

	_, err = s.offers.SetForecast(ctx, created.ID, cleaning.ID, 3)
	require.NoError(t, err)
	_, err = s.offers.UpdateRealization(ctx, created.ID, domain.UpdateRealizationRequest{
		RealizationCosts: map[string]float64{"bar": 15},
		AdditionalCosts:  map[string]float64{"crew catering": 10},
		OtherRevenue:     25,
	})
	require.NoError(t, err)

	profit, err := s.reports.OfferProfit(ctx, created.ID)
	require.NoError(t, err)

	b := profit.Breakdown
	assert.Equal(t, created.OfferNumber, profit.OfferNumber)
	assert.Equal(t, 50.0, b.StandardRevenue)
	assert.Equal(t, 20.0, b.StandardCost)
	assert.Equal(t, 30.0, b.StandardProfit)
	assert.Equal(t, 30.0, b.PostCalcRevenue)
	assert.Equal(t, 12.0, b.PostCalcCost)
	assert.Equal(t, 18.0, b.PostCalcProfit)
	require.Len(t, b.Realizations, 1)
	assert.Equal(t, domain.CategoryRealizationDTO{Category: "bar", Budget: 20, Actual: 15, Correction: 5}, b.Realizations[0])
	assert.Equal(t, 5.0, b.RealizationCorrection)
	assert.Equal(t, 10.0, b.AdditionalCosts)
	assert.Equal(t, 25.0, b.OtherRevenue)
	assert.Equal(t, 105.0, b.TotalRevenue)
	assert.Equal(t, 68.0, b.NetProfit)

	_, err = s.reports.OfferProfit(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrOfferNotFound)
}

func TestReportService_ProfitSummary(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	testutil.CreateTestProduct(t, s.db, "Cups", "supplies", 1, testutil.WithDefaultQuantity(3))

	for _, client := range []string{"Lowlands", "Pinkpop"} {
		_, err := s.offers.Create(ctx, domain.CreateOfferRequest{ClientName: client, ProjectName: "2026"})
		require.NoError(t, err)
	}

	summary, err := s.reports.ProfitSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Offers, 2)
	assert.Equal(t, 60.0, summary.Totals.StandardRevenue)
	assert.Equal(t, 24.0, summary.Totals.StandardCost)
	assert.Equal(t, 36.0, summary.Totals.NetProfit)
}

func TestReportService_OfferProfit_MatchesOfferTotals(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	testutil.CreateTestProduct(t, s.db, "Cups", "supplies", 1, testutil.WithDefaultQuantity(3))
	retired := testutil.CreateTestProduct(t, s.db, "Old tent", "site", 2, testutil.WithDefaultQuantity(2))
	testutil.CreateTestProduct(t, s.db, "Lights", "stage", 3, testutil.WithDefaultQuantity(1))

	created, err := s.offers.Create(ctx, domain.CreateOfferRequest{ClientName: "A", ProjectName: "B"})
	require.NoError(t, err)
	assert.Equal(t, 60.0, created.Totals.Subtotal)

	require.NoError(t, s.db.Model(&domain.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error)
	testutil.CreateCategorySetting(t, s.db, "stage", domain.CalculationTypeStandard, true)

	offer, err := s.offers.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, offer.Totals.Subtotal)

	profit, err := s.reports.OfferProfit(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, offer.Totals.Subtotal, profit.Breakdown.StandardRevenue)
	assert.Equal(t, 12.0, profit.Breakdown.StandardCost)
}

func TestOfferService_UpdateRealization_Validation(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	created, err := s.offers.Create(ctx, domain.CreateOfferRequest{ClientName: "A", ProjectName: "B"})
	require.NoError(t, err)

	_, err = s.offers.UpdateRealization(ctx, created.ID, domain.UpdateRealizationRequest{
		RealizationCosts: map[string]float64{"bar": -1},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = s.offers.UpdateRealization(ctx, created.ID, domain.UpdateRealizationRequest{
		AdditionalCosts: map[string]float64{" ": 4},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	offer, err := s.offers.UpdateRealization(ctx, created.ID, domain.UpdateRealizationRequest{
		RealizationCosts: map[string]float64{" bar ": 0},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bar": 0}, offer.RealizationCosts)
}
