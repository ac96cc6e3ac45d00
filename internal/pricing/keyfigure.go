package pricing

// Evaluate maps a key figure to its base value for the given cockpit.
// Unknown key figures and KeyFigureNone evaluate to 0.
func Evaluate(kf KeyFigure, c Cockpit) float64 {
	switch kf {
	case KeyFigureTotalVisitors:
		return TotalVisitors(c)
	case KeyFigureBarMeters:
		return c.BarMeters
	case KeyFigureFoodSalesPositions:
		return c.FoodSalesPositions
	case KeyFigureEuroSpendPerPerson:
		return c.EuroSpendPerPerson
	case KeyFigureAverageTransactionValue:
		return c.AverageTransactionValue
	case KeyFigureNumberOfShowdates:
		return float64(len(c.Showdates))
	case KeyFigureExpectedRevenue:
		return TotalVisitors(c) * c.EuroSpendPerPerson
	default:
		return 0
	}
}

// TotalVisitors returns the override when one is set, else the showdate sum
func TotalVisitors(c Cockpit) float64 {
	if c.HasOverride() {
		return float64(*c.TotalVisitorsOverride)
	}
	return ShowdateVisitorSum(c)
}

// ShowdateVisitorSum sums the per-showdate visitor forecasts and ignores the
// override. Transaction processing is always derived from this figure.
func ShowdateVisitorSum(c Cockpit) float64 {
	sum := 0
	for _, v := range c.ExpectedVisitors {
		sum += v
	}
	return float64(sum)
}

// evaluateShowdateBased is the override-blind evaluation used for
// transaction-processing products.
func evaluateShowdateBased(kf KeyFigure, c Cockpit) float64 {
	switch kf {
	case KeyFigureTotalVisitors:
		return ShowdateVisitorSum(c)
	case KeyFigureExpectedRevenue:
		return ShowdateVisitorSum(c) * c.EuroSpendPerPerson
	default:
		return Evaluate(kf, c)
	}
}
