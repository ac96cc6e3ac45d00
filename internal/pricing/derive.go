package pricing

import "github.com/google/uuid"

// DeriveRequest is the input of a derivation pass
type DeriveRequest struct {
	Lines     []OfferLine
	Forecasts Forecasts
	Catalog   Catalog
	Cockpit   Cockpit
	Mode      RecalcMode
	// Persisted is true once the offer has been stored and has an id
	Persisted bool
}

// DeriveResult is the output of a derivation pass
type DeriveResult struct {
	Lines       []OfferLine
	Forecasts   Forecasts
	Synthesized []uuid.UUID
	Recomputed  []uuid.UUID
}

// DeriveLines ensures one line per active product, recomputes the lines the
// recalculation policy allows and accumulates post-event forecasts.
func (e *Engine) DeriveLines(req DeriveRequest) DeriveResult {
	existing := make(map[uuid.UUID]OfferLine, len(req.Lines))
	for _, l := range req.Lines {
		if _, dup := existing[l.ProductID]; !dup {
			existing[l.ProductID] = l
		}
	}

	result := DeriveResult{
		Forecasts: req.Forecasts.Clone(),
	}
	// saved offers never receive default quantities for products the operator has not seen
	grantDefaults := !req.Persisted && req.Mode.Kind != RecalcLoadExisting

	active := req.Catalog.ActiveProducts()
	result.Lines = make([]OfferLine, 0, len(active))
	for _, p := range active {
		postEvent := req.Catalog.IsPostEvent(p.Category)

		line, ok := existing[p.ID]
		if ok {
			line.ProductName = p.Name
		} else {
			line = synthesizeLine(p, postEvent, grantDefaults)
			result.Synthesized = append(result.Synthesized, p.ID)
		}

		if req.Mode.Kind != RecalcLoadExisting {
			recomputed := e.applyRules(&line, p, postEvent, req)
			if postEvent {
				e.accumulateForecast(result.Forecasts, p, req)
			}
			if recomputed {
				result.Recomputed = append(result.Recomputed, p.ID)
			}
		}

		line.LineTotal = lineTotal(line, p, postEvent, req.Cockpit.EffectiveStaffel())
		result.Lines = append(result.Lines, line)
	}

	// lines whose product vanished from the catalog pass through untouched
	for _, l := range req.Lines {
		if _, known := req.Catalog.Product(l.ProductID); !known {
			result.Lines = append(result.Lines, l)
		}
	}

	return result
}

func synthesizeLine(p Product, postEvent, grantDefaults bool) OfferLine {
	qty := 0.0
	if !postEvent && grantDefaults {
		qty = p.DefaultQuantity
	}
	return OfferLine{
		ProductID:           p.ID,
		ProductName:         p.Name,
		Description:         p.Description,
		Quantity:            qty,
		UnitPrice:           p.DefaultPrice,
		PercentageFee:       p.PercentageFee,
		PercentageCostBasis: p.PercentageCostBasis,
	}
}

// applyRules runs the per-category quantity rules on one line and reports
// whether the quantity was recomputed.
func (e *Engine) applyRules(line *OfferLine, p Product, postEvent bool, req DeriveRequest) bool {
	if postEvent {
		line.Quantity = 0
		return false
	}
	if !p.KeyFigure.IsSet() {
		return false
	}
	if !e.rules.ShouldRecalculate(req.Mode, p.KeyFigure, p.Category) {
		return false
	}
	line.Quantity = e.DeriveQuantity(p, req.Cockpit)
	return true
}

func (e *Engine) accumulateForecast(forecasts Forecasts, p Product, req DeriveRequest) {
	if !p.KeyFigure.IsSet() {
		if _, exists := forecasts[p.ID]; !exists && p.DefaultQuantity > 0 {
			forecasts[p.ID] = p.DefaultQuantity
		}
		return
	}
	if !e.rules.ShouldRecalculate(req.Mode, p.KeyFigure, p.Category) {
		return
	}
	if v := e.DeriveQuantity(p, req.Cockpit); v > 0 {
		forecasts[p.ID] = v
	} else {
		delete(forecasts, p.ID)
	}
}
