// Package pricing derives offer line quantities, totals and profit figures
// from the cockpit parameters of an event and the product catalog.
//
// Every entry point is a pure function of its inputs. The package holds no
// state, performs no I/O and never reads the clock, so calling any
// operation twice with the same inputs yields identical output.
package pricing

import (
	"sort"

	"github.com/google/uuid"
)

// KeyFigure names the base metric a product quantity is derived from
type KeyFigure string

const (
	KeyFigureNone                    KeyFigure = "none"
	KeyFigureTotalVisitors           KeyFigure = "total_visitors"
	KeyFigureBarMeters               KeyFigure = "bar_meters"
	KeyFigureFoodSalesPositions      KeyFigure = "food_sales_positions"
	KeyFigureEuroSpendPerPerson      KeyFigure = "euro_spend_per_person"
	KeyFigureAverageTransactionValue KeyFigure = "average_transaction_value"
	KeyFigureNumberOfShowdates       KeyFigure = "number_of_showdates"
	KeyFigureExpectedRevenue         KeyFigure = "expected_revenue"
)

// IsSet reports whether the key figure drives derivation at all
func (k KeyFigure) IsSet() bool {
	return k != "" && k != KeyFigureNone
}

// IsValid checks if the KeyFigure is a known enum value
func (k KeyFigure) IsValid() bool {
	switch k {
	case KeyFigureNone, KeyFigureTotalVisitors, KeyFigureBarMeters, KeyFigureFoodSalesPositions,
		KeyFigureEuroSpendPerPerson, KeyFigureAverageTransactionValue, KeyFigureNumberOfShowdates,
		KeyFigureExpectedRevenue:
		return true
	}
	return false
}

// CalculationType controls whether a category is priced on the offer or after the event
type CalculationType string

const (
	CalculationStandard  CalculationType = "standard"
	CalculationPostEvent CalculationType = "post_event"
)

// IsValid checks if the CalculationType is a valid enum value
func (c CalculationType) IsValid() bool {
	return c == CalculationStandard || c == CalculationPostEvent
}

// Product is a catalog entry as seen by the engine
type Product struct {
	ID                  uuid.UUID
	Name                string
	Description         string
	Category            string
	IsActive            bool
	DefaultQuantity     float64
	DefaultPrice        float64
	CostBasis           float64
	PercentageFee       float64
	PercentageCostBasis float64
	KeyFigure           KeyFigure
	KeyFigureMultiplier float64
	StaffelEligible     bool
	HardwareGroup       string
	DisplayOrder        int
}

// CategorySetting carries the per-category calculation mode
type CategorySetting struct {
	Category        string
	CalculationType CalculationType
	IsArchived      bool
	DisplayOrder    int
}

// Catalog is a read-only snapshot of products and category settings
type Catalog struct {
	Products   []Product
	Categories []CategorySetting
}

// Product returns the catalog product with the given id
func (c Catalog) Product(id uuid.UUID) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c Catalog) setting(category string) (CategorySetting, bool) {
	for _, s := range c.Categories {
		if s.Category == category {
			return s, true
		}
	}
	return CategorySetting{}, false
}

// CalculationType returns the mode of a category. Categories without an
// explicit setting are standard.
func (c Catalog) CalculationType(category string) CalculationType {
	if s, ok := c.setting(category); ok && s.CalculationType == CalculationPostEvent {
		return CalculationPostEvent
	}
	return CalculationStandard
}

// IsPostEvent reports whether the category is priced from forecasts
func (c Catalog) IsPostEvent(category string) bool {
	return c.CalculationType(category) == CalculationPostEvent
}

// IsArchived reports whether the category has been archived
func (c Catalog) IsArchived(category string) bool {
	s, ok := c.setting(category)
	return ok && s.IsArchived
}

// ActiveProducts returns active products outside archived categories,
// stable-sorted by display order.
func (c Catalog) ActiveProducts() []Product {
	active := make([]Product, 0, len(c.Products))
	for _, p := range c.Products {
		if p.IsActive && !c.IsArchived(p.Category) {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DisplayOrder < active[j].DisplayOrder
	})
	return active
}

// OfferLine is one priced line of an offer
type OfferLine struct {
	ProductID           uuid.UUID
	ProductName         string
	Description         string
	Quantity            float64
	UnitPrice           float64
	PercentageFee       float64
	PercentageCostBasis float64
	LineTotal           float64
}

// Forecasts maps a post-event product to its forecast quantity
type Forecasts map[uuid.UUID]float64

// Clone returns an independent copy of the map
func (f Forecasts) Clone() Forecasts {
	out := make(Forecasts, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Discount holds the offer discount. A positive percentage wins over the amount.
type Discount struct {
	Amount     float64
	Percentage float64
}

// Totals is the priced result of an offer
type Totals struct {
	Subtotal           float64
	DiscountAmount     float64
	DiscountedSubtotal float64
	TaxAmount          float64
	Total              float64
}

// Rules configures category-specific behaviour and the tax rate
type Rules struct {
	TicketingCategory   string
	TransactionCategory string
	TaxRatePercent      float64
}

// DefaultRules returns the rules used when no configuration is supplied
func DefaultRules() Rules {
	return Rules{
		TicketingCategory:   "ticketing_fees",
		TransactionCategory: "transaction_processing",
		TaxRatePercent:      21,
	}
}
