package service_test

import (
	"testing"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/festivalops/offer-api/internal/service"
	"github.com/festivalops/offer-api/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServices struct {
	db      *gorm.DB
	catalog *service.CatalogService
	offers  *service.OfferService
	reports *service.ReportService
	repo    *repository.OfferRepository
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	engine := pricing.NewEngine(pricing.DefaultRules())

	offerRepo := repository.NewOfferRepository(db)
	catalogService := service.NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategorySettingRepository(db),
		repository.NewCatalogRepository(db),
		logger,
	)

	return &testServices{
		db:      db,
		catalog: catalogService,
		offers:  service.NewOfferService(offerRepo, repository.NewNumberSequenceRepository(db), catalogService, engine, "FEST", logger),
		reports: service.NewReportService(offerRepo, catalogService, engine, logger),
		repo:    offerRepo,
	}
}

func findLine(t *testing.T, offer *domain.OfferDTO, productID uuid.UUID) domain.OfferLineDTO {
	t.Helper()
	for _, l := range offer.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	t.Fatalf("offer has no line for product %s", productID)
	return domain.OfferLineDTO{}
}

func hasLine(offer *domain.OfferDTO, productID uuid.UUID) bool {
	for _, l := range offer.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

func forecastOf(offer *domain.OfferDTO, productID uuid.UUID) (float64, bool) {
	for _, f := range offer.Forecasts {
		if f.ProductID == productID {
			return f.Quantity, true
		}
	}
	return 0, false
}

func ptr[T any](v T) *T {
	return &v
}

func festivalCockpit() *domain.CockpitInput {
	return &domain.CockpitInput{
		Showdates: []string{"2026-07-11", "2026-07-10"},
		ExpectedVisitors: map[string]int{
			"2026-07-10": 1000,
			"2026-07-11": 500,
		},
		BarMeters:          10,
		FoodSalesPositions: 2,
		EuroSpendPerPerson: 20,
	}
}
