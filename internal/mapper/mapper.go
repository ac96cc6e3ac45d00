package mapper

import (
	"sort"

	"github.com/festivalops/offer-api/internal/domain"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const timestampFormat = "2006-01-02T15:04:05Z"

// ToProductDTO converts Product to ProductDTO
func ToProductDTO(p *domain.Product) domain.ProductDTO {
	return domain.ProductDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		IsActive:            p.IsActive,
		DefaultQuantity:     p.DefaultQuantity,
		DefaultPrice:        p.DefaultPrice,
		CostBasis:           p.CostBasis,
		PercentageFee:       p.PercentageFee,
		PercentageCostBasis: p.PercentageCostBasis,
		KeyFigure:           p.KeyFigure,
		KeyFigureMultiplier: p.KeyFigureMultiplier,
		StaffelEligible:     p.StaffelEligible,
		HardwareGroup:       p.HardwareGroup,
		DisplayOrder:        p.DisplayOrder,
		CreatedAt:           p.CreatedAt.Format(timestampFormat),
		UpdatedAt:           p.UpdatedAt.Format(timestampFormat),
	}
}

// ToCategorySettingDTO converts CategorySetting to CategorySettingDTO
func ToCategorySettingDTO(s *domain.CategorySetting) domain.CategorySettingDTO {
	return domain.CategorySettingDTO{
		Category:        s.Category,
		CalculationType: s.CalculationType,
		IsArchived:      s.IsArchived,
		DisplayOrder:    s.DisplayOrder,
	}
}

// ApplyProductRequest copies request fields onto a product
func ApplyProductRequest(p *domain.Product, req domain.CreateProductRequest) {
	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.IsActive = true
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.DefaultQuantity = req.DefaultQuantity
	p.DefaultPrice = req.DefaultPrice
	p.CostBasis = req.CostBasis
	p.PercentageFee = req.PercentageFee
	p.PercentageCostBasis = req.PercentageCostBasis
	p.KeyFigure = req.KeyFigure
	if p.KeyFigure == "" {
		p.KeyFigure = domain.KeyFigureNone
	}
	p.KeyFigureMultiplier = req.KeyFigureMultiplier
	p.StaffelEligible = req.StaffelEligible
	p.HardwareGroup = req.HardwareGroup
	p.DisplayOrder = req.DisplayOrder
}

// ToPricingProduct converts a stored product into its engine form
func ToPricingProduct(p domain.Product) pricing.Product {
	return pricing.Product{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		IsActive:            p.IsActive,
		DefaultQuantity:     p.DefaultQuantity,
		DefaultPrice:        p.DefaultPrice,
		CostBasis:           p.CostBasis,
		PercentageFee:       p.PercentageFee,
		PercentageCostBasis: p.PercentageCostBasis,
		KeyFigure:           pricing.KeyFigure(p.KeyFigure),
		KeyFigureMultiplier: p.KeyFigureMultiplier,
		StaffelEligible:     p.StaffelEligible,
		HardwareGroup:       p.HardwareGroup,
		DisplayOrder:        p.DisplayOrder,
	}
}

// ToCatalog builds an engine catalog from stored products and category settings
func ToCatalog(products []domain.Product, settings []domain.CategorySetting) pricing.Catalog {
	catalog := pricing.Catalog{
		Products:   make([]pricing.Product, 0, len(products)),
		Categories: make([]pricing.CategorySetting, 0, len(settings)),
	}
	for _, p := range products {
		catalog.Products = append(catalog.Products, ToPricingProduct(p))
	}
	for _, s := range settings {
		catalog.Categories = append(catalog.Categories, pricing.CategorySetting{
			Category:        s.Category,
			CalculationType: pricing.CalculationType(s.CalculationType),
			IsArchived:      s.IsArchived,
			DisplayOrder:    s.DisplayOrder,
		})
	}
	return catalog
}

// ToCockpit reads the cockpit parameters of an offer
func ToCockpit(offer *domain.Offer) pricing.Cockpit {
	c := pricing.Cockpit{
		Showdates:               append([]string(nil), offer.Showdates.Data()...),
		ExpectedVisitors:        map[string]int{},
		BarMeters:               offer.BarMeters,
		FoodSalesPositions:      offer.FoodSalesPositions,
		EuroSpendPerPerson:      offer.EuroSpendPerPerson,
		AverageTransactionValue: offer.AverageTransactionValue,
		Staffel:                 offer.Staffel,
	}
	for date, v := range offer.ExpectedVisitors.Data() {
		c.ExpectedVisitors[date] = v
	}
	if offer.TotalVisitorsOverride != nil {
		v := *offer.TotalVisitorsOverride
		c.TotalVisitorsOverride = &v
	}
	return c
}

// ApplyCockpit writes cockpit parameters back onto an offer
func ApplyCockpit(offer *domain.Offer, c pricing.Cockpit) {
	c = c.Normalize()
	offer.Showdates = datatypes.NewJSONType(c.Showdates)
	offer.ExpectedVisitors = datatypes.NewJSONType(c.ExpectedVisitors)
	offer.BarMeters = c.BarMeters
	offer.FoodSalesPositions = c.FoodSalesPositions
	offer.EuroSpendPerPerson = c.EuroSpendPerPerson
	offer.TotalVisitorsOverride = nil
	if c.HasOverride() {
		v := *c.TotalVisitorsOverride
		offer.TotalVisitorsOverride = &v
	}
	offer.AverageTransactionValue = c.AverageTransactionValue
	offer.Staffel = c.EffectiveStaffel()
}

// CockpitFromInput converts the cockpit of a create request
func CockpitFromInput(in *domain.CockpitInput) pricing.Cockpit {
	c := pricing.Cockpit{ExpectedVisitors: map[string]int{}, Staffel: 1}
	if in == nil {
		return c
	}
	c.Showdates = append(c.Showdates, in.Showdates...)
	for date, v := range in.ExpectedVisitors {
		c.ExpectedVisitors[date] = v
	}
	c.BarMeters = in.BarMeters
	c.FoodSalesPositions = in.FoodSalesPositions
	c.EuroSpendPerPerson = in.EuroSpendPerPerson
	c, _ = c.SetOverride(in.TotalVisitorsOverride)
	c.AverageTransactionValue = in.AverageTransactionValue
	if in.Staffel > 0 {
		c.Staffel = in.Staffel
	}
	return c.Normalize()
}

// ToPricingLines converts stored lines into engine lines
func ToPricingLines(lines []domain.OfferLine) []pricing.OfferLine {
	sorted := append([]domain.OfferLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})
	out := make([]pricing.OfferLine, 0, len(sorted))
	for _, l := range sorted {
		out = append(out, pricing.OfferLine{
			ProductID:           l.ProductID,
			ProductName:         l.ProductName,
			Description:         l.Description,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			PercentageFee:       l.PercentageFee,
			PercentageCostBasis: l.PercentageCostBasis,
			LineTotal:           l.LineTotal,
		})
	}
	return out
}

// MergeLines maps derived lines onto stored rows, keeping the row id of
// lines that already exist. Display order follows the derived order.
func MergeLines(offerID uuid.UUID, stored []domain.OfferLine, derived []pricing.OfferLine) []domain.OfferLine {
	ids := make(map[uuid.UUID]uuid.UUID, len(stored))
	for _, l := range stored {
		ids[l.ProductID] = l.ID
	}
	out := make([]domain.OfferLine, 0, len(derived))
	for i, l := range derived {
		row := domain.OfferLine{
			OfferID:             offerID,
			ProductID:           l.ProductID,
			ProductName:         l.ProductName,
			Description:         l.Description,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			PercentageFee:       l.PercentageFee,
			PercentageCostBasis: l.PercentageCostBasis,
			LineTotal:           l.LineTotal,
			DisplayOrder:        i,
		}
		row.ID = ids[l.ProductID]
		out = append(out, row)
	}
	return out
}

// ToForecasts converts stored forecast rows into the engine map
func ToForecasts(rows []domain.PostCalcForecast) pricing.Forecasts {
	out := make(pricing.Forecasts, len(rows))
	for _, r := range rows {
		out[r.ProductID] = r.Quantity
	}
	return out
}

// FromForecasts converts the engine map into rows ordered by product id
func FromForecasts(offerID uuid.UUID, f pricing.Forecasts) []domain.PostCalcForecast {
	rows := make([]domain.PostCalcForecast, 0, len(f))
	for productID, qty := range f {
		rows = append(rows, domain.PostCalcForecast{OfferID: offerID, ProductID: productID, Quantity: qty})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ProductID.String() < rows[j].ProductID.String()
	})
	return rows
}

// ToDiscount reads the offer discount
func ToDiscount(offer *domain.Offer) pricing.Discount {
	return pricing.Discount{Amount: offer.TotalDiscountAmount, Percentage: offer.TotalDiscountPercentage}
}

// ApplyTotals stores computed totals on an offer
func ApplyTotals(offer *domain.Offer, t pricing.Totals) {
	offer.SubtotalExclBtw = t.Subtotal
	offer.BtwAmount = t.TaxAmount
	offer.TotalInclBtw = t.Total
}

// ToProfitInput collects the persisted offer state used by the profit report
func ToProfitInput(offer *domain.Offer) pricing.ProfitInput {
	return pricing.ProfitInput{
		Lines:            ToPricingLines(offer.Lines),
		Forecasts:        ToForecasts(offer.Forecasts),
		Cockpit:          ToCockpit(offer),
		RealizationCosts: offer.RealizationCosts.Data(),
		AdditionalCosts:  offer.AdditionalCosts.Data(),
		OtherRevenue:     offer.OtherRevenue,
	}
}

// ToOfferDTO converts an offer and its derived state to OfferDTO
func ToOfferDTO(offer *domain.Offer, lines []pricing.OfferLine, forecasts pricing.Forecasts, totals pricing.Totals, catalog pricing.Catalog) domain.OfferDTO {
	cockpit := ToCockpit(offer)
	cockpitDTO := domain.CockpitDTO{
		Showdates:               cockpit.Showdates,
		ExpectedVisitors:        cockpit.ExpectedVisitors,
		BarMeters:               cockpit.BarMeters,
		FoodSalesPositions:      cockpit.FoodSalesPositions,
		EuroSpendPerPerson:      cockpit.EuroSpendPerPerson,
		TotalVisitorsOverride:   cockpit.TotalVisitorsOverride,
		AverageTransactionValue: cockpit.AverageTransactionValue,
		Staffel:                 cockpit.EffectiveStaffel(),
		TotalVisitors:           pricing.TotalVisitors(cockpit),
		ExpectedRevenue:         pricing.Evaluate(pricing.KeyFigureExpectedRevenue, cockpit),
	}
	if cockpitDTO.Showdates == nil {
		cockpitDTO.Showdates = []string{}
	}

	lineDTOs := make([]domain.OfferLineDTO, 0, len(lines))
	for _, l := range lines {
		dto := domain.OfferLineDTO{
			ProductID:           l.ProductID,
			ProductName:         l.ProductName,
			Description:         l.Description,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			PercentageFee:       l.PercentageFee,
			PercentageCostBasis: l.PercentageCostBasis,
			LineTotal:           l.LineTotal,
		}
		if p, ok := catalog.Product(l.ProductID); ok {
			dto.Category = p.Category
			dto.PostEvent = catalog.IsPostEvent(p.Category)
		}
		lineDTOs = append(lineDTOs, dto)
	}

	forecastDTOs := make([]domain.ForecastDTO, 0, len(forecasts))
	for _, row := range FromForecasts(offer.ID, forecasts) {
		forecastDTOs = append(forecastDTOs, domain.ForecastDTO{ProductID: row.ProductID, Quantity: row.Quantity})
	}

	return domain.OfferDTO{
		ID:                      offer.ID,
		OfferNumber:             offer.OfferNumber,
		ClientName:              offer.ClientName,
		ProjectName:             offer.ProjectName,
		Cockpit:                 cockpitDTO,
		Lines:                   lineDTOs,
		Forecasts:               forecastDTOs,
		TotalDiscountAmount:     offer.TotalDiscountAmount,
		TotalDiscountPercentage: offer.TotalDiscountPercentage,
		Totals: domain.TotalsDTO{
			Subtotal:           totals.Subtotal,
			DiscountAmount:     totals.DiscountAmount,
			DiscountedSubtotal: totals.DiscountedSubtotal,
			BtwAmount:          totals.TaxAmount,
			TotalInclBtw:       totals.Total,
		},
		RealizationCosts: offer.RealizationCosts.Data(),
		AdditionalCosts:  offer.AdditionalCosts.Data(),
		OtherRevenue:     offer.OtherRevenue,
		CreatedAt:        offer.CreatedAt.Format(timestampFormat),
		UpdatedAt:        offer.UpdatedAt.Format(timestampFormat),
	}
}

// ToOfferSummaryDTO converts Offer to OfferSummaryDTO using its stored totals
func ToOfferSummaryDTO(offer *domain.Offer) domain.OfferSummaryDTO {
	showdates := offer.Showdates.Data()
	if showdates == nil {
		showdates = []string{}
	}
	return domain.OfferSummaryDTO{
		ID:           offer.ID,
		OfferNumber:  offer.OfferNumber,
		ClientName:   offer.ClientName,
		ProjectName:  offer.ProjectName,
		Showdates:    showdates,
		TotalInclBtw: offer.TotalInclBtw,
		CreatedAt:    offer.CreatedAt.Format(timestampFormat),
		UpdatedAt:    offer.UpdatedAt.Format(timestampFormat),
	}
}

// ToProfitBreakdownDTO converts an engine breakdown
func ToProfitBreakdownDTO(b pricing.Breakdown) domain.ProfitBreakdownDTO {
	dto := domain.ProfitBreakdownDTO{
		StandardRevenue:       b.StandardRevenue,
		StandardCost:          b.StandardCost,
		StandardProfit:        b.StandardProfit,
		PostCalcRevenue:       b.PostCalcRevenue,
		PostCalcCost:          b.PostCalcCost,
		PostCalcProfit:        b.PostCalcProfit,
		RealizationCorrection: b.RealizationCorrection,
		AdditionalCosts:       b.AdditionalCosts,
		OtherRevenue:          b.OtherRevenue,
		TotalRevenue:          b.TotalRevenue,
		NetProfit:             b.NetProfit,
	}
	for _, r := range b.Realizations {
		dto.Realizations = append(dto.Realizations, domain.CategoryRealizationDTO{
			Category:   r.Category,
			Budget:     r.Budget,
			Actual:     r.Actual,
			Correction: r.Correction,
		})
	}
	return dto
}
