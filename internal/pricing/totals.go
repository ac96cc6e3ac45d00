package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// effectiveQuantity applies the staffel multiplier to staffel-eligible products
func effectiveQuantity(qty float64, p Product, known bool, staffel float64) decimal.Decimal {
	q := decimal.NewFromFloat(qty)
	if known && p.StaffelEligible {
		q = q.Mul(decimal.NewFromFloat(staffel))
	}
	return q
}

func lineTotal(l OfferLine, p Product, postEvent bool, staffel float64) float64 {
	if postEvent {
		return 0
	}
	return money(effectiveQuantity(l.Quantity, p, true, staffel).
		Mul(decimal.NewFromFloat(l.UnitPrice))).InexactFloat64()
}

// PriceLines refreshes the display line totals of the given lines
func (e *Engine) PriceLines(lines []OfferLine, catalog Catalog, staffel float64) []OfferLine {
	if staffel <= 0 {
		staffel = 1
	}
	out := make([]OfferLine, len(lines))
	for i, l := range lines {
		p, known := catalog.Product(l.ProductID)
		postEvent := known && catalog.IsPostEvent(p.Category)
		if known {
			l.LineTotal = lineTotal(l, p, postEvent, staffel)
		} else {
			l.LineTotal = money(decimal.NewFromFloat(l.Quantity).Mul(decimal.NewFromFloat(l.UnitPrice))).InexactFloat64()
		}
		out[i] = l
	}
	return out
}

// ComputeTotals sums standard lines and applies staffel, discount and tax.
// Every stage is rounded to cents before it feeds the next one.
func (e *Engine) ComputeTotals(lines []OfferLine, catalog Catalog, discount Discount, staffel float64) Totals {
	if staffel <= 0 {
		staffel = 1
	}

	sum := decimal.Zero
	for _, l := range lines {
		p, known := catalog.Product(l.ProductID)
		if known && catalog.IsPostEvent(p.Category) {
			continue
		}
		qty := effectiveQuantity(l.Quantity, p, known, staffel)
		sum = sum.Add(qty.Mul(decimal.NewFromFloat(l.UnitPrice)))
	}
	subtotal := money(sum)

	var discountAmount decimal.Decimal
	if discount.Percentage > 0 {
		discountAmount = money(subtotal.Mul(decimal.NewFromFloat(discount.Percentage)).Div(hundred))
	} else {
		discountAmount = money(decimal.NewFromFloat(discount.Amount))
	}

	discounted := money(subtotal.Sub(discountAmount))
	tax := money(discounted.Mul(decimal.NewFromFloat(e.rules.TaxRatePercent)).Div(hundred))
	total := money(discounted.Add(tax))

	return Totals{
		Subtotal:           subtotal.InexactFloat64(),
		DiscountAmount:     discountAmount.InexactFloat64(),
		DiscountedSubtotal: discounted.InexactFloat64(),
		TaxAmount:          tax.InexactFloat64(),
		Total:              total.InexactFloat64(),
	}
}
