package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/logger"
	"github.com/festivalops/offer-api/internal/mapper"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OfferService handles offer creation, cockpit edits and pricing
type OfferService struct {
	offerRepo          *repository.OfferRepository
	numberSequenceRepo *repository.NumberSequenceRepository
	catalogService     *CatalogService
	engine             *pricing.Engine
	offerNumberPrefix  string
	logger             *zap.Logger
}

// NewOfferService creates a new OfferService instance
func NewOfferService(
	offerRepo *repository.OfferRepository,
	numberSequenceRepo *repository.NumberSequenceRepository,
	catalogService *CatalogService,
	engine *pricing.Engine,
	offerNumberPrefix string,
	logger *zap.Logger,
) *OfferService {
	if offerNumberPrefix == "" {
		offerNumberPrefix = "FEST"
	}
	return &OfferService{
		offerRepo:          offerRepo,
		numberSequenceRepo: numberSequenceRepo,
		catalogService:     catalogService,
		engine:             engine,
		offerNumberPrefix:  offerNumberPrefix,
		logger:             logger,
	}
}

// Create creates an offer with one line per active product and derived quantities
func (s *OfferService) Create(ctx context.Context, req domain.CreateOfferRequest) (*domain.OfferDTO, error) {
	clientName := strings.TrimSpace(req.ClientName)
	projectName := strings.TrimSpace(req.ProjectName)
	if clientName == "" || projectName == "" {
		return nil, ErrMissingClient
	}
	if req.Cockpit != nil && req.Cockpit.TotalVisitorsOverride != nil && *req.Cockpit.TotalVisitorsOverride < 0 {
		return nil, fmt.Errorf("%w: total visitors override must not be negative", ErrInvalidInput)
	}

	catalog, err := s.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	cockpit := mapper.CockpitFromInput(req.Cockpit)
	mode := pricing.FreshCreate()
	result := s.engine.DeriveLines(pricing.DeriveRequest{
		Catalog: catalog,
		Cockpit: cockpit,
		Mode:    mode,
	})

	offerNumber, err := s.nextOfferNumber(ctx)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		OfferNumber:      offerNumber,
		ClientName:       clientName,
		ProjectName:      projectName,
		RealizationCosts: datatypes.NewJSONType(map[string]float64{}),
		AdditionalCosts:  datatypes.NewJSONType(map[string]float64{}),
	}
	mapper.ApplyCockpit(offer, cockpit)
	offer.Lines = mapper.MergeLines(uuid.Nil, nil, result.Lines)
	offer.Forecasts = mapper.FromForecasts(uuid.Nil, result.Forecasts)

	totals := s.engine.ComputeTotals(result.Lines, catalog, mapper.ToDiscount(offer), cockpit.EffectiveStaffel())
	mapper.ApplyTotals(offer, totals)

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		s.logger.Error("Failed to create offer", zap.Error(err))
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	logger.WithOffer(s.logger, offer.ID, mode).Info("Offer created",
		zap.String("offer_number", offer.OfferNumber),
		logger.Derivation(result),
		logger.Totals(totals),
	)

	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// GetByID loads an offer. Stored quantities are shown as they are; lines for
// new catalog products are synthesized with quantity 0 but not stored.
func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OfferDTO, error) {
	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	result, totals := s.view(offer, catalog)
	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// List returns a paginated list of offer summaries
func (s *OfferService) List(ctx context.Context, page, pageSize int, filters repository.OfferFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	offers, total, err := s.offerRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	dtos := make([]domain.OfferSummaryDTO, len(offers))
	for i := range offers {
		dtos[i] = mapper.ToOfferSummaryDTO(&offers[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateCockpit applies one cockpit edit and recomputes only the lines whose
// key figure depends on the edited field.
func (s *OfferService) UpdateCockpit(ctx context.Context, id uuid.UUID, req domain.UpdateCockpitRequest) (*domain.OfferDTO, error) {
	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	cockpit, field, err := applyCockpitEdit(mapper.ToCockpit(offer), req)
	if err != nil {
		return nil, err
	}

	mode := pricing.FieldEdit(field)
	if field == pricing.FieldShowdates && req.Action == domain.CockpitActionAdd {
		mode = pricing.ShowdateAdded()
	}
	result := s.engine.DeriveLines(pricing.DeriveRequest{
		Lines:     mapper.ToPricingLines(offer.Lines),
		Forecasts: mapper.ToForecasts(offer.Forecasts),
		Catalog:   catalog,
		Cockpit:   cockpit,
		Mode:      mode,
		Persisted: true,
	})

	mapper.ApplyCockpit(offer, cockpit)
	totals, err := s.save(ctx, offer, catalog, result.Lines, result.Forecasts)
	if err != nil {
		return nil, err
	}

	logger.WithOffer(s.logger, offer.ID, mode).Info("Cockpit updated",
		logger.Derivation(result),
		logger.Totals(totals),
	)

	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// UpdateLine applies a manual override to one line and reprices the offer
func (s *OfferService) UpdateLine(ctx context.Context, id, productID uuid.UUID, req domain.UpdateOfferLineRequest) (*domain.OfferDTO, error) {
	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.engine.DeriveLines(pricing.DeriveRequest{
		Lines:     mapper.ToPricingLines(offer.Lines),
		Forecasts: mapper.ToForecasts(offer.Forecasts),
		Catalog:   catalog,
		Cockpit:   mapper.ToCockpit(offer),
		Mode:      pricing.LoadExisting(),
		Persisted: true,
	})

	idx := -1
	for i := range result.Lines {
		if result.Lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLineNotFound
	}

	line := &result.Lines[idx]
	if req.Quantity != nil {
		if p, ok := catalog.Product(productID); ok && catalog.IsPostEvent(p.Category) {
			return nil, fmt.Errorf("%w: post-event lines are priced from forecasts", ErrInvalidInput)
		}
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
		}
		line.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
		}
		line.UnitPrice = *req.UnitPrice
	}
	if req.Description != nil {
		line.Description = *req.Description
	}
	if req.PercentageFee != nil {
		line.PercentageFee = *req.PercentageFee
	}
	if req.PercentageCostBasis != nil {
		line.PercentageCostBasis = *req.PercentageCostBasis
	}

	cockpit := mapper.ToCockpit(offer)
	lines := s.engine.PriceLines(result.Lines, catalog, cockpit.EffectiveStaffel())

	totals, err := s.save(ctx, offer, catalog, lines, result.Forecasts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Offer line updated",
		zap.String("offer_id", id.String()),
		zap.String("product_id", productID.String()),
		zap.Float64("quantity", lines[idx].Quantity),
	)

	dto := mapper.ToOfferDTO(offer, lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// SetForecast sets the forecast of a post-event product. A quantity of 0
// clears it. Offer lines are not touched.
func (s *OfferService) SetForecast(ctx context.Context, id, productID uuid.UUID, quantity float64) (*domain.OfferDTO, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: forecast must not be negative", ErrInvalidInput)
	}

	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	product, ok := catalog.Product(productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	if !catalog.IsPostEvent(product.Category) {
		return nil, ErrNotPostEvent
	}

	forecasts := mapper.ToForecasts(offer.Forecasts)
	if quantity > 0 {
		forecasts[productID] = quantity
	} else {
		delete(forecasts, productID)
	}
	offer.Forecasts = mapper.FromForecasts(offer.ID, forecasts)

	result, totals := s.view(offer, catalog)
	offer.Lines = nil
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		s.logger.Error("Failed to save forecast", zap.Error(err), zap.String("offer_id", id.String()))
		return nil, fmt.Errorf("failed to save forecast: %w", err)
	}

	s.logger.Info("Forecast updated",
		zap.String("offer_id", id.String()),
		zap.String("product_id", productID.String()),
		zap.Float64("quantity", quantity),
	)

	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// UpdateDiscount sets the offer discount and recomputes the totals
func (s *OfferService) UpdateDiscount(ctx context.Context, id uuid.UUID, req domain.UpdateDiscountRequest) (*domain.OfferDTO, error) {
	if req.Amount < 0 || req.Percentage < 0 || req.Percentage > 100 {
		return nil, fmt.Errorf("%w: discount out of range", ErrInvalidInput)
	}

	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	offer.TotalDiscountAmount = req.Amount
	offer.TotalDiscountPercentage = req.Percentage

	result, totals := s.view(offer, catalog)
	mapper.ApplyTotals(offer, totals)
	offer.Lines = nil
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		s.logger.Error("Failed to save discount", zap.Error(err), zap.String("offer_id", id.String()))
		return nil, fmt.Errorf("failed to save discount: %w", err)
	}

	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// UpdateRealization stores realized costs per category, additional costs
// and other revenue used by the profit report
func (s *OfferService) UpdateRealization(ctx context.Context, id uuid.UUID, req domain.UpdateRealizationRequest) (*domain.OfferDTO, error) {
	if req.OtherRevenue < 0 {
		return nil, fmt.Errorf("%w: other revenue must not be negative", ErrInvalidInput)
	}
	for _, m := range []map[string]float64{req.RealizationCosts, req.AdditionalCosts} {
		for key, v := range m {
			if strings.TrimSpace(key) == "" || v < 0 {
				return nil, fmt.Errorf("%w: cost entries need a name and a non-negative amount", ErrInvalidInput)
			}
		}
	}

	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	offer.RealizationCosts = datatypes.NewJSONType(copyCosts(req.RealizationCosts))
	offer.AdditionalCosts = datatypes.NewJSONType(copyCosts(req.AdditionalCosts))
	offer.OtherRevenue = req.OtherRevenue

	result, totals := s.view(offer, catalog)
	offer.Lines = nil
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		s.logger.Error("Failed to save realization", zap.Error(err), zap.String("offer_id", id.String()))
		return nil, fmt.Errorf("failed to save realization: %w", err)
	}

	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// Recalculate resets every key-figure driven quantity and forecast of an
// offer to its derived value
func (s *OfferService) Recalculate(ctx context.Context, id uuid.UUID) (*domain.OfferDTO, error) {
	offer, catalog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	mode := pricing.FreshCreate()
	result := s.engine.DeriveLines(pricing.DeriveRequest{
		Lines:     mapper.ToPricingLines(offer.Lines),
		Forecasts: mapper.ToForecasts(offer.Forecasts),
		Catalog:   catalog,
		Cockpit:   mapper.ToCockpit(offer),
		Mode:      mode,
		Persisted: true,
	})

	totals, err := s.save(ctx, offer, catalog, result.Lines, result.Forecasts)
	if err != nil {
		return nil, err
	}

	logger.WithOffer(s.logger, offer.ID, mode).Info("Offer recalculated",
		logger.Derivation(result),
		logger.Totals(totals),
	)

	dto := mapper.ToOfferDTO(offer, result.Lines, result.Forecasts, totals, catalog)
	return &dto, nil
}

// RefreshTotals recomputes the stored totals of every offer against the
// current catalog and returns how many offers changed. Quantities are never
// touched. Offers that fail are logged and skipped.
func (s *OfferService) RefreshTotals(ctx context.Context) (int, error) {
	catalog, err := s.catalogService.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	ids, err := s.offerRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list offers: %w", err)
	}

	updated := 0
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		offer, err := s.offerRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			s.logger.Warn("Failed to load offer for totals refresh", zap.Error(err), zap.String("offer_id", id.String()))
			errs = append(errs, err)
			continue
		}

		_, totals := s.view(offer, catalog)
		if totals.Subtotal == offer.SubtotalExclBtw && totals.TaxAmount == offer.BtwAmount && totals.Total == offer.TotalInclBtw {
			continue
		}

		if err := s.offerRepo.UpdateTotals(ctx, id, totals.Subtotal, totals.TaxAmount, totals.Total); err != nil {
			s.logger.Warn("Failed to refresh offer totals", zap.Error(err), zap.String("offer_id", id.String()))
			errs = append(errs, err)
			continue
		}
		updated++
	}

	if len(errs) > 0 {
		return updated, fmt.Errorf("totals refresh finished with %d errors: %w", len(errs), errors.Join(errs...))
	}
	return updated, nil
}

// Delete removes an offer
func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	s.logger.Info("Offer deleted", zap.String("offer_id", id.String()))
	return nil
}

func (s *OfferService) load(ctx context.Context, id uuid.UUID) (*domain.Offer, pricing.Catalog, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.Catalog{}, ErrOfferNotFound
		}
		return nil, pricing.Catalog{}, fmt.Errorf("failed to get offer: %w", err)
	}
	catalog, err := s.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, pricing.Catalog{}, err
	}
	return offer, catalog, nil
}

// view derives the offer in load mode and prices it
func (s *OfferService) view(offer *domain.Offer, catalog pricing.Catalog) (pricing.DeriveResult, pricing.Totals) {
	cockpit := mapper.ToCockpit(offer)
	result := s.engine.DeriveLines(pricing.DeriveRequest{
		Lines:     mapper.ToPricingLines(offer.Lines),
		Forecasts: mapper.ToForecasts(offer.Forecasts),
		Catalog:   catalog,
		Cockpit:   cockpit,
		Mode:      pricing.LoadExisting(),
		Persisted: true,
	})
	totals := s.engine.ComputeTotals(result.Lines, catalog, mapper.ToDiscount(offer), cockpit.EffectiveStaffel())
	return result, totals
}

// save stores derived lines, forecasts and fresh totals
func (s *OfferService) save(ctx context.Context, offer *domain.Offer, catalog pricing.Catalog, lines []pricing.OfferLine, forecasts pricing.Forecasts) (pricing.Totals, error) {
	cockpit := mapper.ToCockpit(offer)
	totals := s.engine.ComputeTotals(lines, catalog, mapper.ToDiscount(offer), cockpit.EffectiveStaffel())
	mapper.ApplyTotals(offer, totals)

	offer.Lines = mapper.MergeLines(offer.ID, offer.Lines, lines)
	offer.Forecasts = mapper.FromForecasts(offer.ID, forecasts)

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.Totals{}, ErrOfferNotFound
		}
		s.logger.Error("Failed to save offer", zap.Error(err), zap.String("offer_id", offer.ID.String()))
		return pricing.Totals{}, fmt.Errorf("failed to save offer: %w", err)
	}
	return totals, nil
}

func (s *OfferService) nextOfferNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	seq, err := s.numberSequenceRepo.GetNextNumber(ctx, year)
	if err != nil {
		s.logger.Error("Failed to generate offer number", zap.Error(err))
		return "", fmt.Errorf("failed to generate offer number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%03d", s.offerNumberPrefix, year, seq), nil
}

// applyCockpitEdit applies a single edit and returns the field it touched
func applyCockpitEdit(c pricing.Cockpit, req domain.UpdateCockpitRequest) (pricing.Cockpit, pricing.CockpitField, error) {
	field := pricing.CockpitField(req.Field)
	if !field.IsValid() {
		return c, field, fmt.Errorf("%w: unknown field %q", ErrInvalidCockpitField, req.Field)
	}

	if field == pricing.FieldShowdates {
		if req.Date == "" {
			return c, field, fmt.Errorf("%w: date is required", ErrInvalidCockpitField)
		}
		switch req.Action {
		case domain.CockpitActionAdd:
			out, f := c.AddShowdate(req.Date)
			return out, f, nil
		case domain.CockpitActionRemove:
			out, f := c.RemoveShowdate(req.Date)
			return out, f, nil
		default:
			return c, field, fmt.Errorf("%w: action must be add or remove", ErrInvalidCockpitField)
		}
	}

	if field == pricing.FieldTotalVisitorsOverride {
		if req.Value == nil {
			out, f := c.SetOverride(nil)
			return out, f, nil
		}
		if *req.Value < 0 || *req.Value > maxVisitorCount {
			return c, field, fmt.Errorf("%w: value must be between 0 and %d", ErrInvalidCockpitField, maxVisitorCount)
		}
		v := int(math.Round(*req.Value))
		out, f := c.SetOverride(&v)
		return out, f, nil
	}

	if req.Value == nil {
		return c, field, fmt.Errorf("%w: value is required", ErrInvalidCockpitField)
	}
	value := *req.Value

	var (
		out pricing.Cockpit
		f   pricing.CockpitField
		err error
	)
	switch field {
	case pricing.FieldExpectedVisitors:
		if req.Date == "" {
			return c, field, fmt.Errorf("%w: date is required", ErrInvalidCockpitField)
		}
		if value < 0 || value > maxVisitorCount {
			return c, field, fmt.Errorf("%w: value must be between 0 and %d", ErrInvalidCockpitField, maxVisitorCount)
		}
		out, f, err = c.SetVisitors(req.Date, int(math.Round(value)))
	case pricing.FieldBarMeters:
		out, f, err = c.SetBarMeters(value)
	case pricing.FieldFoodSalesPositions:
		out, f, err = c.SetFoodSalesPositions(value)
	case pricing.FieldEuroSpendPerPerson:
		out, f, err = c.SetEuroSpend(value)
	case pricing.FieldAverageTransactionValue:
		out, f, err = c.SetAverageTransactionValue(value)
	case pricing.FieldStaffel:
		out, f, err = c.SetStaffel(value)
	}

	switch {
	case errors.Is(err, pricing.ErrUnknownShowdate):
		return c, field, ErrUnknownShowdate
	case err != nil:
		return c, field, fmt.Errorf("%w: %v", ErrInvalidCockpitField, err)
	}
	return out, f, nil
}

// maxVisitorCount bounds visitor values before they are converted to int
const maxVisitorCount = 1_000_000_000

func copyCosts(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.TrimSpace(k)] = v
	}
	return out
}
