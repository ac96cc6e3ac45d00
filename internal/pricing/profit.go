package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ProfitInput is the persisted offer state consumed at reporting time
type ProfitInput struct {
	Lines     []OfferLine
	Forecasts Forecasts
	Cockpit   Cockpit
	// RealizationCosts holds the realized actual cost per category. A key
	// present with value 0 is an entered actual; an absent key is not.
	RealizationCosts map[string]float64
	AdditionalCosts  map[string]float64
	OtherRevenue     float64
}

// CategoryRealization compares the budgeted cost of a category with its actual
type CategoryRealization struct {
	Category   string
	Budget     float64
	Actual     float64
	Correction float64
}

// Breakdown is the profit and revenue report of one offer
type Breakdown struct {
	StandardRevenue       float64
	StandardCost          float64
	StandardProfit        float64
	PostCalcRevenue       float64
	PostCalcCost          float64
	PostCalcProfit        float64
	RealizationCorrection float64
	Realizations          []CategoryRealization
	AdditionalCosts       float64
	OtherRevenue          float64
	TotalRevenue          float64
	NetProfit             float64
}

// Breakdown computes standard, post-event and corrected profit figures
func (e *Engine) Breakdown(in ProfitInput, catalog Catalog) Breakdown {
	staffel := in.Cockpit.EffectiveStaffel()

	stdRevenue, stdCost := decimal.Zero, decimal.Zero
	postRevenue, postCost := decimal.Zero, decimal.Zero
	budgetByCategory := make(map[string]decimal.Decimal)

	for _, l := range in.Lines {
		p, known := catalog.Product(l.ProductID)

		if known && catalog.IsPostEvent(p.Category) {
			rev, cost := e.postEventLine(l, p, in)
			postRevenue = postRevenue.Add(rev)
			postCost = postCost.Add(cost)
			continue
		}

		if l.Quantity <= 0 {
			continue
		}
		qty := effectiveQuantity(l.Quantity, p, known, staffel)
		rev := qty.Mul(decimal.NewFromFloat(l.UnitPrice))
		cost := qty.Mul(decimal.NewFromFloat(p.CostBasis))
		stdRevenue = stdRevenue.Add(rev)
		stdCost = stdCost.Add(cost)
		if known {
			budgetByCategory[p.Category] = budgetByCategory[p.Category].Add(cost)
		}
	}

	var realizations []CategoryRealization
	correction := decimal.Zero
	categories := make([]string, 0, len(in.RealizationCosts))
	for c := range in.RealizationCosts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		budget := money(budgetByCategory[c])
		actual := money(decimal.NewFromFloat(in.RealizationCosts[c]))
		delta := budget.Sub(actual)
		correction = correction.Add(delta)
		realizations = append(realizations, CategoryRealization{
			Category:   c,
			Budget:     budget.InexactFloat64(),
			Actual:     actual.InexactFloat64(),
			Correction: delta.InexactFloat64(),
		})
	}

	additional := decimal.Zero
	for _, v := range in.AdditionalCosts {
		additional = additional.Add(decimal.NewFromFloat(v))
	}
	other := money(decimal.NewFromFloat(in.OtherRevenue))

	stdRevenue, stdCost = money(stdRevenue), money(stdCost)
	postRevenue, postCost = money(postRevenue), money(postCost)
	stdProfit := stdRevenue.Sub(stdCost)
	postProfit := postRevenue.Sub(postCost)
	correction = money(correction)
	additional = money(additional)

	net := stdProfit.Add(postProfit).Add(correction).Sub(additional).Add(other)

	return Breakdown{
		StandardRevenue:       stdRevenue.InexactFloat64(),
		StandardCost:          stdCost.InexactFloat64(),
		StandardProfit:        stdProfit.InexactFloat64(),
		PostCalcRevenue:       postRevenue.InexactFloat64(),
		PostCalcCost:          postCost.InexactFloat64(),
		PostCalcProfit:        postProfit.InexactFloat64(),
		RealizationCorrection: correction.InexactFloat64(),
		Realizations:          realizations,
		AdditionalCosts:       additional.InexactFloat64(),
		OtherRevenue:          other.InexactFloat64(),
		TotalRevenue:          stdRevenue.Add(postRevenue).Add(other).InexactFloat64(),
		NetProfit:             net.InexactFloat64(),
	}
}

// postEventLine prices a post-event line from its forecast, or from the
// key figure base for percentage-of-base products.
func (e *Engine) postEventLine(l OfferLine, p Product, in ProfitInput) (revenue, cost decimal.Decimal) {
	fee := l.PercentageFee
	if fee <= 0 {
		fee = p.PercentageFee
	}
	if fee > 0 {
		costPct := l.PercentageCostBasis
		if costPct <= 0 {
			costPct = p.PercentageCostBasis
		}
		base, ok := e.baseValue(p, in.Cockpit)
		if !ok {
			return decimal.Zero, decimal.Zero
		}
		scaled := decimal.NewFromFloat(base).Mul(decimal.NewFromFloat(p.KeyFigureMultiplier))
		revenue = scaled.Mul(decimal.NewFromFloat(fee)).Div(hundred)
		cost = scaled.Mul(decimal.NewFromFloat(costPct)).Div(hundred)
		return revenue, cost
	}

	qty := decimal.NewFromFloat(in.Forecasts[p.ID])
	revenue = qty.Mul(decimal.NewFromFloat(l.UnitPrice))
	cost = qty.Mul(decimal.NewFromFloat(p.CostBasis))
	return revenue, cost
}
