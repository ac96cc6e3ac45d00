package pricing_test

import (
	"testing"

	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func TestShouldRecalculate(t *testing.T) {
	rules := pricing.DefaultRules()

	t.Run("load existing never recalculates", func(t *testing.T) {
		assert.False(t, rules.ShouldRecalculate(pricing.LoadExisting(), pricing.KeyFigureTotalVisitors, catBar))
		assert.False(t, rules.ShouldRecalculate(pricing.LoadExisting(), pricing.KeyFigureTotalVisitors, catTicketing))
	})

	t.Run("fresh create recalculates everything", func(t *testing.T) {
		assert.True(t, rules.ShouldRecalculate(pricing.FreshCreate(), pricing.KeyFigureBarMeters, catBar))
		assert.True(t, rules.ShouldRecalculate(pricing.FreshCreate(), pricing.KeyFigureNumberOfShowdates, catBar))
	})

	tests := []struct {
		field    pricing.CockpitField
		kf       pricing.KeyFigure
		category string
		want     bool
	}{
		{pricing.FieldExpectedVisitors, pricing.KeyFigureTotalVisitors, catBar, true},
		{pricing.FieldExpectedVisitors, pricing.KeyFigureExpectedRevenue, catBar, true},
		{pricing.FieldExpectedVisitors, pricing.KeyFigureBarMeters, catBar, false},
		{pricing.FieldEuroSpendPerPerson, pricing.KeyFigureEuroSpendPerPerson, catBar, true},
		{pricing.FieldEuroSpendPerPerson, pricing.KeyFigureExpectedRevenue, catBar, true},
		{pricing.FieldEuroSpendPerPerson, pricing.KeyFigureTotalVisitors, catBar, false},
		{pricing.FieldTotalVisitorsOverride, pricing.KeyFigureTotalVisitors, catBar, true},
		{pricing.FieldTotalVisitorsOverride, pricing.KeyFigureExpectedRevenue, catBar, false},
		{pricing.FieldTotalVisitorsOverride, pricing.KeyFigureBarMeters, catTicketing, true},
		{pricing.FieldBarMeters, pricing.KeyFigureBarMeters, catBar, true},
		{pricing.FieldBarMeters, pricing.KeyFigureTotalVisitors, catTicketing, false},
		{pricing.FieldShowdates, pricing.KeyFigureNumberOfShowdates, catBar, true},
		{pricing.FieldAverageTransactionValue, pricing.KeyFigureAverageTransactionValue, catBar, true},
		{pricing.FieldFoodSalesPositions, pricing.KeyFigureFoodSalesPositions, catBar, true},
		{pricing.FieldStaffel, pricing.KeyFigureTotalVisitors, catBar, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field)+"/"+string(tt.kf)+"/"+tt.category, func(t *testing.T) {
			got := rules.ShouldRecalculate(pricing.FieldEdit(tt.field), tt.kf, tt.category)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAffectedKeyFigures(t *testing.T) {
	assert.ElementsMatch(t,
		[]pricing.KeyFigure{pricing.KeyFigureTotalVisitors, pricing.KeyFigureExpectedRevenue},
		pricing.AffectedKeyFigures(pricing.FieldExpectedVisitors))
	assert.Equal(t,
		[]pricing.KeyFigure{pricing.KeyFigureTotalVisitors},
		pricing.AffectedKeyFigures(pricing.FieldTotalVisitorsOverride))
	assert.Empty(t, pricing.AffectedKeyFigures(pricing.FieldStaffel))

	// callers must not be able to corrupt the policy table
	got := pricing.AffectedKeyFigures(pricing.FieldBarMeters)
	got[0] = pricing.KeyFigureExpectedRevenue
	assert.Equal(t, []pricing.KeyFigure{pricing.KeyFigureBarMeters}, pricing.AffectedKeyFigures(pricing.FieldBarMeters))
}

func TestShouldRecalculate_ShowdateAdded(t *testing.T) {
	rules := pricing.DefaultRules()
	mode := pricing.ShowdateAdded()

	assert.True(t, rules.ShouldRecalculate(mode, pricing.KeyFigureNumberOfShowdates, catBar))
	assert.False(t, rules.ShouldRecalculate(mode, pricing.KeyFigureTotalVisitors, catBar))
	assert.False(t, rules.ShouldRecalculate(mode, pricing.KeyFigureExpectedRevenue, catBar))

	removed := pricing.FieldEdit(pricing.FieldShowdates)
	assert.True(t, rules.ShouldRecalculate(removed, pricing.KeyFigureTotalVisitors, catBar))
	assert.True(t, rules.ShouldRecalculate(removed, pricing.KeyFigureExpectedRevenue, catBar))
}

func TestRecalcModeString(t *testing.T) {
	assert.Equal(t, "fresh_create", pricing.FreshCreate().String())
	assert.Equal(t, "load_existing", pricing.LoadExisting().String())
	assert.Equal(t, "field_edit(bar_meters)", pricing.FieldEdit(pricing.FieldBarMeters).String())
}
