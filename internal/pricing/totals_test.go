package pricing_test

import (
	"testing"

	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_StagedRounding(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRules())
	p := newProduct("Stage rental", catHardware, pricing.KeyFigureNone, 0, 1)
	catalog := pricing.Catalog{Products: []pricing.Product{p}}
	lines := []pricing.OfferLine{{ProductID: p.ID, Quantity: 1, UnitPrice: 1000.005}}

	totals := engine.ComputeTotals(lines, catalog, pricing.Discount{Percentage: 10}, 1)

	assert.Equal(t, 1000.01, totals.Subtotal)
	assert.Equal(t, 100.00, totals.DiscountAmount)
	assert.Equal(t, 900.01, totals.DiscountedSubtotal)
	assert.Equal(t, 189.00, totals.TaxAmount)
	assert.Equal(t, 1089.01, totals.Total)
}

func TestComputeTotals_AbsoluteDiscount(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRules())
	p := newProduct("Fence", catHardware, pricing.KeyFigureNone, 0, 1)
	catalog := pricing.Catalog{Products: []pricing.Product{p}}
	lines := []pricing.OfferLine{{ProductID: p.ID, Quantity: 4, UnitPrice: 25}}

	totals := engine.ComputeTotals(lines, catalog, pricing.Discount{Amount: 10.555}, 1)

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 10.56, totals.DiscountAmount)
	assert.Equal(t, 89.44, totals.DiscountedSubtotal)
	assert.Equal(t, 18.78, totals.TaxAmount)
	assert.Equal(t, 108.22, totals.Total)
}

func TestComputeTotals_PercentageWinsOverAmount(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRules())
	p := newProduct("Fence", catHardware, pricing.KeyFigureNone, 0, 1)
	catalog := pricing.Catalog{Products: []pricing.Product{p}}
	lines := []pricing.OfferLine{{ProductID: p.ID, Quantity: 1, UnitPrice: 200}}

	totals := engine.ComputeTotals(lines, catalog, pricing.Discount{Amount: 50, Percentage: 5}, 1)
	assert.Equal(t, 10.0, totals.DiscountAmount)
}

func TestComputeTotals_StaffelAndPostEvent(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRules())
	eligible := newProduct("Cups", catBar, pricing.KeyFigureNone, 0, 1)
	eligible.StaffelEligible = true
	plain := newProduct("Generator", catHardware, pricing.KeyFigureNone, 0, 2)
	post := newProduct("Cleaning", catCleaning, pricing.KeyFigureNone, 0, 3)
	catalog := pricing.Catalog{
		Products:   []pricing.Product{eligible, plain, post},
		Categories: []pricing.CategorySetting{{Category: catCleaning, CalculationType: pricing.CalculationPostEvent}},
	}
	orphan := uuid.New()
	lines := []pricing.OfferLine{
		{ProductID: eligible.ID, Quantity: 10, UnitPrice: 2},
		{ProductID: plain.ID, Quantity: 1, UnitPrice: 100},
		{ProductID: post.ID, Quantity: 3, UnitPrice: 1000},
		{ProductID: orphan, Quantity: 2, UnitPrice: 5},
	}

	totals := engine.ComputeTotals(lines, catalog, pricing.Discount{}, 1.5)

	// 10*1.5*2 + 1*100 + 2*5, post-event line excluded
	assert.Equal(t, 140.0, totals.Subtotal)
	assert.Equal(t, 29.4, totals.TaxAmount)
	assert.Equal(t, 169.4, totals.Total)
}

func TestComputeTotals_NonPositiveStaffelDefaultsToOne(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRules())
	p := newProduct("Cups", catBar, pricing.KeyFigureNone, 0, 1)
	p.StaffelEligible = true
	catalog := pricing.Catalog{Products: []pricing.Product{p}}
	lines := []pricing.OfferLine{{ProductID: p.ID, Quantity: 3, UnitPrice: 10}}

	assert.Equal(t, 30.0, engine.ComputeTotals(lines, catalog, pricing.Discount{}, 0).Subtotal)
}

func TestComputeTotals_ConfiguredTaxRate(t *testing.T) {
	engine := pricing.NewEngine(pricing.Rules{TaxRatePercent: 9})
	p := newProduct("Food", catBar, pricing.KeyFigureNone, 0, 1)
	catalog := pricing.Catalog{Products: []pricing.Product{p}}
	lines := []pricing.OfferLine{{ProductID: p.ID, Quantity: 1, UnitPrice: 100}}

	totals := engine.ComputeTotals(lines, catalog, pricing.Discount{}, 1)
	assert.Equal(t, 9.0, totals.TaxAmount)
	assert.Equal(t, 109.0, totals.Total)
	assert.Equal(t, "ticketing_fees", engine.Rules().TicketingCategory)
}

func TestPriceLines(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRules())
	eligible := newProduct("Cups", catBar, pricing.KeyFigureNone, 0, 1)
	eligible.StaffelEligible = true
	post := newProduct("Cleaning", catCleaning, pricing.KeyFigureNone, 0, 2)
	catalog := pricing.Catalog{
		Products:   []pricing.Product{eligible, post},
		Categories: []pricing.CategorySetting{{Category: catCleaning, CalculationType: pricing.CalculationPostEvent}},
	}
	lines := []pricing.OfferLine{
		{ProductID: eligible.ID, Quantity: 3, UnitPrice: 1.1},
		{ProductID: post.ID, Quantity: 0, UnitPrice: 50, LineTotal: 12},
	}

	priced := engine.PriceLines(lines, catalog, 2)
	assert.Equal(t, 6.6, priced[0].LineTotal)
	assert.Equal(t, 0.0, priced[1].LineTotal)
	assert.Equal(t, 12.0, lines[1].LineTotal)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.0, pricing.RoundQuantity(2.5))
	assert.Equal(t, 2.0, pricing.RoundQuantity(2.4999))
	assert.Equal(t, 1000.01, pricing.RoundMoney(1000.005))
	assert.Equal(t, 0.13, pricing.RoundMoney(0.125))
}
