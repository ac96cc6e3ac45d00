package pricing

// Engine is the single stateless pricing service shared by offer creation,
// offer editing, reporting and the totals refresh job.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine. Empty fields in rules fall back to DefaultRules.
func NewEngine(rules Rules) *Engine {
	def := DefaultRules()
	if rules.TicketingCategory == "" {
		rules.TicketingCategory = def.TicketingCategory
	}
	if rules.TransactionCategory == "" {
		rules.TransactionCategory = def.TransactionCategory
	}
	if rules.TaxRatePercent <= 0 {
		rules.TaxRatePercent = def.TaxRatePercent
	}
	return &Engine{rules: rules}
}

// Rules returns the rules the engine was built with
func (e *Engine) Rules() Rules {
	return e.rules
}

// ShouldRecalculate applies the recalculation policy for one line
func (e *Engine) ShouldRecalculate(mode RecalcMode, keyFigure KeyFigure, category string) bool {
	return e.rules.ShouldRecalculate(mode, keyFigure, category)
}

// baseValue is the category-aware base for a keyed product. The second
// return value is false when the ticketing gate forces the result to zero.
func (e *Engine) baseValue(p Product, c Cockpit) (float64, bool) {
	switch {
	case p.Category == e.rules.TicketingCategory && p.KeyFigure == KeyFigureTotalVisitors:
		if !c.HasOverride() {
			return 0, false
		}
		return float64(*c.TotalVisitorsOverride), true
	case p.Category == e.rules.TransactionCategory:
		return evaluateShowdateBased(p.KeyFigure, c), true
	default:
		return Evaluate(p.KeyFigure, c), true
	}
}

// DeriveQuantity returns the derived quantity of a keyed product
func (e *Engine) DeriveQuantity(p Product, c Cockpit) float64 {
	base, ok := e.baseValue(p, c)
	if !ok {
		return 0
	}
	return derivedQuantity(base, p.KeyFigureMultiplier)
}
