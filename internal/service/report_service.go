package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/mapper"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService computes profit breakdowns from stored offers
type ReportService struct {
	offerRepo      *repository.OfferRepository
	catalogService *CatalogService
	engine         *pricing.Engine
	logger         *zap.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(
	offerRepo *repository.OfferRepository,
	catalogService *CatalogService,
	engine *pricing.Engine,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		offerRepo:      offerRepo,
		catalogService: catalogService,
		engine:         engine,
		logger:         logger,
	}
}

// OfferProfit returns the profit breakdown of one offer
func (s *ReportService) OfferProfit(ctx context.Context, id uuid.UUID) (*domain.OfferProfitDTO, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	catalog, err := s.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	dto := s.offerProfit(offer, catalog)
	return &dto, nil
}

// ProfitSummary returns the breakdown of every offer plus their sum
func (s *ReportService) ProfitSummary(ctx context.Context) (*domain.ProfitSummaryDTO, error) {
	offers, err := s.offerRepo.ListWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	catalog, err := s.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.ProfitSummaryDTO{Offers: make([]domain.OfferProfitDTO, 0, len(offers))}
	for i := range offers {
		p := s.offerProfit(&offers[i], catalog)
		summary.Offers = append(summary.Offers, p)
		summary.Totals = addBreakdowns(summary.Totals, p.Breakdown)
	}

	s.logger.Debug("Profit summary computed",
		zap.Int("offers", len(offers)),
		zap.Float64("net_profit", summary.Totals.NetProfit),
	)
	return summary, nil
}

// offerProfit reports the same lines the offer totals are computed from:
// lines of active products, synthesized lines for products added after the
// offer was last saved and lines whose product left the catalog
func (s *ReportService) offerProfit(offer *domain.Offer, catalog pricing.Catalog) domain.OfferProfitDTO {
	in := mapper.ToProfitInput(offer)
	view := s.engine.DeriveLines(pricing.DeriveRequest{
		Lines:     in.Lines,
		Forecasts: in.Forecasts,
		Catalog:   catalog,
		Cockpit:   in.Cockpit,
		Mode:      pricing.LoadExisting(),
		Persisted: true,
	})
	in.Lines = view.Lines

	b := s.engine.Breakdown(in, catalog)
	return domain.OfferProfitDTO{
		OfferID:     offer.ID,
		OfferNumber: offer.OfferNumber,
		ClientName:  offer.ClientName,
		ProjectName: offer.ProjectName,
		Breakdown:   mapper.ToProfitBreakdownDTO(b),
	}
}

// addBreakdowns sums two breakdowns component by component
func addBreakdowns(a, b domain.ProfitBreakdownDTO) domain.ProfitBreakdownDTO {
	sum := func(x, y float64) float64 { return pricing.RoundMoney(x + y) }
	return domain.ProfitBreakdownDTO{
		StandardRevenue:       sum(a.StandardRevenue, b.StandardRevenue),
		StandardCost:          sum(a.StandardCost, b.StandardCost),
		StandardProfit:        sum(a.StandardProfit, b.StandardProfit),
		PostCalcRevenue:       sum(a.PostCalcRevenue, b.PostCalcRevenue),
		PostCalcCost:          sum(a.PostCalcCost, b.PostCalcCost),
		PostCalcProfit:        sum(a.PostCalcProfit, b.PostCalcProfit),
		RealizationCorrection: sum(a.RealizationCorrection, b.RealizationCorrection),
		AdditionalCosts:       sum(a.AdditionalCosts, b.AdditionalCosts),
		OtherRevenue:          sum(a.OtherRevenue, b.OtherRevenue),
		TotalRevenue:          sum(a.TotalRevenue, b.TotalRevenue),
		NetProfit:             sum(a.NetProfit, b.NetProfit),
	}
}
