package pricing

import "github.com/shopspring/decimal"

// RoundQuantity rounds a derived quantity to the nearest integer, halves away from zero
func RoundQuantity(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// RoundMoney rounds an amount to cents, halves away from zero
func RoundMoney(v float64) float64 {
	return money(decimal.NewFromFloat(v)).InexactFloat64()
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// derivedQuantity computes round(base × multiplier) without binary float drift
func derivedQuantity(base, multiplier float64) float64 {
	return decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(0).
		InexactFloat64()
}
