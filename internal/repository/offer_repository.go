package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfferSortField is a column offers can be listed by
type OfferSortField string

const (
	OfferSortCreatedAt    OfferSortField = "created_at"
	OfferSortUpdatedAt    OfferSortField = "updated_at"
	OfferSortClientName   OfferSortField = "client_name"
	OfferSortProjectName  OfferSortField = "project_name"
	OfferSortOfferNumber  OfferSortField = "offer_number"
	OfferSortTotalInclBtw OfferSortField = "total_incl_btw"
)

var validOfferSortFields = map[OfferSortField]bool{
	OfferSortCreatedAt:    true,
	OfferSortUpdatedAt:    true,
	OfferSortClientName:   true,
	OfferSortProjectName:  true,
	OfferSortOfferNumber:  true,
	OfferSortTotalInclBtw: true,
}

// OfferFilters narrows an offer listing
type OfferFilters struct {
	Search    string
	SortBy    OfferSortField
	SortOrder string
}

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create stores an offer together with its lines and forecasts
func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := offer.Lines
		forecasts := offer.Forecasts
		if err := tx.Omit(clause.Associations).Create(offer).Error; err != nil {
			return fmt.Errorf("failed to create offer: %w", err)
		}
		for i := range lines {
			lines[i].OfferID = offer.ID
		}
		for i := range forecasts {
			forecasts[i].OfferID = offer.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("failed to create offer lines: %w", err)
			}
		}
		if len(forecasts) > 0 {
			if err := tx.Create(&forecasts).Error; err != nil {
				return fmt.Errorf("failed to create forecasts: %w", err)
			}
		}
		offer.Lines = lines
		offer.Forecasts = forecasts
		return nil
	})
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var offer domain.Offer
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC").Order("id ASC") }).
		Preload("Forecasts").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// Update saves the offer header, upserts the supplied lines and replaces the
// forecasts. Stored lines that are not supplied are left in place.
func (r *OfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Offer{}).Where("id = ?", offer.ID).Updates(offerColumns(offer))
		if result.Error != nil {
			return fmt.Errorf("failed to update offer: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for i := range offer.Lines {
			offer.Lines[i].OfferID = offer.ID
		}
		if len(offer.Lines) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "offer_id"}, {Name: "product_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"product_name", "description", "quantity", "unit_price",
					"percentage_fee", "percentage_cost_basis", "line_total", "display_order", "updated_at",
				}),
			}).Create(&offer.Lines).Error; err != nil {
				return fmt.Errorf("failed to save offer lines: %w", err)
			}
		}

		if err := tx.Where("offer_id = ?", offer.ID).Delete(&domain.PostCalcForecast{}).Error; err != nil {
			return fmt.Errorf("failed to clear forecasts: %w", err)
		}
		for i := range offer.Forecasts {
			offer.Forecasts[i].OfferID = offer.ID
		}
		if len(offer.Forecasts) > 0 {
			if err := tx.Create(&offer.Forecasts).Error; err != nil {
				return fmt.Errorf("failed to save forecasts: %w", err)
			}
		}
		return nil
	})
}

// offerColumns lists every header column so zero values and cleared overrides are written too
func offerColumns(offer *domain.Offer) map[string]interface{} {
	return map[string]interface{}{
		"offer_number":              offer.OfferNumber,
		"client_name":               offer.ClientName,
		"project_name":              offer.ProjectName,
		"showdates":                 offer.Showdates,
		"expected_visitors":         offer.ExpectedVisitors,
		"bar_meters":                offer.BarMeters,
		"food_sales_positions":      offer.FoodSalesPositions,
		"euro_spend_per_person":     offer.EuroSpendPerPerson,
		"total_visitors_override":   offer.TotalVisitorsOverride,
		"average_transaction_value": offer.AverageTransactionValue,
		"staffel":                   offer.Staffel,
		"total_discount_amount":     offer.TotalDiscountAmount,
		"total_discount_percentage": offer.TotalDiscountPercentage,
		"subtotal_excl_btw":         offer.SubtotalExclBtw,
		"btw_amount":                offer.BtwAmount,
		"total_incl_btw":            offer.TotalInclBtw,
		"realization_costs":         offer.RealizationCosts,
		"additional_costs":          offer.AdditionalCosts,
		"other_revenue":             offer.OtherRevenue,
	}
}

// UpdateFields updates multiple columns on an offer
func (r *OfferRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateTotals stores the computed totals of an offer
func (r *OfferRepository) UpdateTotals(ctx context.Context, id uuid.UUID, subtotal, btw, total float64) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"subtotal_excl_btw": subtotal,
		"btw_amount":        btw,
		"total_incl_btw":    total,
	})
}

// Delete removes an offer with its lines and forecasts
func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", id).Delete(&domain.OfferLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete offer lines: %w", err)
		}
		if err := tx.Where("offer_id = ?", id).Delete(&domain.PostCalcForecast{}).Error; err != nil {
			return fmt.Errorf("failed to delete forecasts: %w", err)
		}
		result := tx.Delete(&domain.Offer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *OfferRepository) List(ctx context.Context, page, pageSize int, filters OfferFilters) ([]domain.Offer, int64, error) {
	var offers []domain.Offer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Offer{})

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(project_name) LIKE ? OR LOWER(offer_number) LIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if !validOfferSortFields[sortBy] {
		sortBy = OfferSortCreatedAt
	}
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(string(sortBy) + " " + direction).Find(&offers).Error

	return offers, total, err
}

// ListIDs returns the ids of all offers, oldest first
func (r *OfferRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Offer{}).Order("created_at ASC").Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// ListWithDetails returns offers with lines and forecasts preloaded
func (r *OfferRepository) ListWithDetails(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC").Order("id ASC") }).
		Preload("Forecasts").
		Order("created_at ASC").Order("id ASC").
		Find(&offers).Error
	return offers, err
}
