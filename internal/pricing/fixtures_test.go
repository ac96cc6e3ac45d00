package pricing_test

import (
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/google/uuid"
)

const (
	catTicketing   = "ticketing_fees"
	catTransaction = "transaction_processing"
	catBar         = "bar"
	catCleaning    = "cleaning"
	catHardware    = "hardware"
)

func newProduct(name, category string, kf pricing.KeyFigure, multiplier float64, order int) pricing.Product {
	return pricing.Product{
		ID:                  uuid.New(),
		Name:                name,
		Category:            category,
		IsActive:            true,
		KeyFigure:           kf,
		KeyFigureMultiplier: multiplier,
		DisplayOrder:        order,
		DefaultPrice:        10,
		CostBasis:           4,
	}
}

func intPtr(v int) *int {
	return &v
}

func cockpitWithVisitors(visitors ...int) pricing.Cockpit {
	dates := []string{"2026-07-10", "2026-07-11", "2026-07-12", "2026-07-13"}
	c := pricing.Cockpit{ExpectedVisitors: map[string]int{}, Staffel: 1}
	for i, v := range visitors {
		c.Showdates = append(c.Showdates, dates[i])
		c.ExpectedVisitors[dates[i]] = v
	}
	return c
}

func lineFor(lines []pricing.OfferLine, id uuid.UUID) (pricing.OfferLine, bool) {
	for _, l := range lines {
		if l.ProductID == id {
			return l, true
		}
	}
	return pricing.OfferLine{}, false
}

func quantities(lines []pricing.OfferLine) map[uuid.UUID]float64 {
	out := make(map[uuid.UUID]float64, len(lines))
	for _, l := range lines {
		out[l.ProductID] = l.Quantity
	}
	return out
}
