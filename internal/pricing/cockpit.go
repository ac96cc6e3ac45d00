package pricing

import (
	"errors"
	"sort"
)

// CockpitField identifies the single cockpit input an edit touched
type CockpitField string

const (
	FieldExpectedVisitors        CockpitField = "expected_visitors_per_showdate"
	FieldBarMeters               CockpitField = "bar_meters"
	FieldFoodSalesPositions      CockpitField = "food_sales_positions"
	FieldEuroSpendPerPerson      CockpitField = "euro_spend_per_person"
	FieldShowdates               CockpitField = "showdates"
	FieldTotalVisitorsOverride   CockpitField = "total_visitors_override"
	FieldAverageTransactionValue CockpitField = "average_transaction_value"
	FieldStaffel                 CockpitField = "staffel"
)

// IsValid checks if the CockpitField is a known token
func (f CockpitField) IsValid() bool {
	switch f {
	case FieldExpectedVisitors, FieldBarMeters, FieldFoodSalesPositions, FieldEuroSpendPerPerson,
		FieldShowdates, FieldTotalVisitorsOverride, FieldAverageTransactionValue, FieldStaffel:
		return true
	}
	return false
}

// Cockpit edit errors
var (
	ErrUnknownShowdate = errors.New("showdate is not part of the offer")
	ErrNegativeValue   = errors.New("value must not be negative")
	ErrInvalidStaffel  = errors.New("staffel must be greater than 0")
)

// Cockpit is the set of event-level parameters the operator edits.
// Showdates are ISO dates (YYYY-MM-DD) kept sorted and unique.
type Cockpit struct {
	Showdates               []string
	ExpectedVisitors        map[string]int
	BarMeters               float64
	FoodSalesPositions      float64
	EuroSpendPerPerson      float64
	TotalVisitorsOverride   *int
	AverageTransactionValue float64
	Staffel                 float64
}

// HasOverride reports whether a positive total visitors override is set
func (c Cockpit) HasOverride() bool {
	return c.TotalVisitorsOverride != nil && *c.TotalVisitorsOverride > 0
}

// EffectiveStaffel returns the staffel multiplier, defaulting to 1
func (c Cockpit) EffectiveStaffel() float64 {
	if c.Staffel <= 0 {
		return 1
	}
	return c.Staffel
}

// Clone returns a deep copy of the cockpit
func (c Cockpit) Clone() Cockpit {
	out := c
	out.Showdates = append([]string(nil), c.Showdates...)
	out.ExpectedVisitors = make(map[string]int, len(c.ExpectedVisitors))
	for k, v := range c.ExpectedVisitors {
		out.ExpectedVisitors[k] = v
	}
	if c.TotalVisitorsOverride != nil {
		v := *c.TotalVisitorsOverride
		out.TotalVisitorsOverride = &v
	}
	return out
}

// Normalize sorts and de-duplicates showdates and prunes visitor entries
// whose date is no longer a showdate.
func (c Cockpit) Normalize() Cockpit {
	out := c.Clone()
	seen := make(map[string]bool, len(out.Showdates))
	dates := make([]string, 0, len(out.Showdates))
	for _, d := range out.Showdates {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out.Showdates = dates
	for d := range out.ExpectedVisitors {
		if !seen[d] {
			delete(out.ExpectedVisitors, d)
		}
	}
	return out
}

func (c Cockpit) hasShowdate(date string) bool {
	for _, d := range c.Showdates {
		if d == date {
			return true
		}
	}
	return false
}

// AddShowdate adds a date to the ordered set of showdates
func (c Cockpit) AddShowdate(date string) (Cockpit, CockpitField) {
	out := c.Clone()
	if !out.hasShowdate(date) {
		out.Showdates = append(out.Showdates, date)
	}
	return out.Normalize(), FieldShowdates
}

// RemoveShowdate removes a date and its visitor forecast
func (c Cockpit) RemoveShowdate(date string) (Cockpit, CockpitField) {
	out := c.Clone()
	dates := out.Showdates[:0]
	for _, d := range out.Showdates {
		if d != date {
			dates = append(dates, d)
		}
	}
	out.Showdates = dates
	return out.Normalize(), FieldShowdates
}

// SetVisitors sets the expected visitors for an existing showdate
func (c Cockpit) SetVisitors(date string, visitors int) (Cockpit, CockpitField, error) {
	if !c.hasShowdate(date) {
		return c, FieldExpectedVisitors, ErrUnknownShowdate
	}
	if visitors < 0 {
		return c, FieldExpectedVisitors, ErrNegativeValue
	}
	out := c.Clone()
	out.ExpectedVisitors[date] = visitors
	return out, FieldExpectedVisitors, nil
}

// SetOverride sets or clears the total visitors override. Values <= 0 clear it.
func (c Cockpit) SetOverride(override *int) (Cockpit, CockpitField) {
	out := c.Clone()
	if override == nil || *override <= 0 {
		out.TotalVisitorsOverride = nil
	} else {
		v := *override
		out.TotalVisitorsOverride = &v
	}
	return out, FieldTotalVisitorsOverride
}

func setNonNegative(c Cockpit, field CockpitField, value float64, apply func(*Cockpit)) (Cockpit, CockpitField, error) {
	if value < 0 {
		return c, field, ErrNegativeValue
	}
	out := c.Clone()
	apply(&out)
	return out, field, nil
}

// SetBarMeters sets the bar meters
func (c Cockpit) SetBarMeters(v float64) (Cockpit, CockpitField, error) {
	return setNonNegative(c, FieldBarMeters, v, func(o *Cockpit) { o.BarMeters = v })
}

// SetFoodSalesPositions sets the number of food sales positions
func (c Cockpit) SetFoodSalesPositions(v float64) (Cockpit, CockpitField, error) {
	return setNonNegative(c, FieldFoodSalesPositions, v, func(o *Cockpit) { o.FoodSalesPositions = v })
}

// SetEuroSpend sets the euro spend per person
func (c Cockpit) SetEuroSpend(v float64) (Cockpit, CockpitField, error) {
	return setNonNegative(c, FieldEuroSpendPerPerson, v, func(o *Cockpit) { o.EuroSpendPerPerson = v })
}

// SetAverageTransactionValue sets the average transaction value
func (c Cockpit) SetAverageTransactionValue(v float64) (Cockpit, CockpitField, error) {
	return setNonNegative(c, FieldAverageTransactionValue, v, func(o *Cockpit) { o.AverageTransactionValue = v })
}

// SetStaffel sets the volume multiplier
func (c Cockpit) SetStaffel(v float64) (Cockpit, CockpitField, error) {
	if v <= 0 {
		return c, FieldStaffel, ErrInvalidStaffel
	}
	out := c.Clone()
	out.Staffel = v
	return out, FieldStaffel, nil
}
