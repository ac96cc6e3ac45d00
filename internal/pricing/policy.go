package pricing

// RecalcKind is the state of the recompute state machine
type RecalcKind int

const (
	// RecalcLoadExisting trusts persisted quantities verbatim
	RecalcLoadExisting RecalcKind = iota
	// RecalcFreshCreate recomputes every derivable line once
	RecalcFreshCreate
	// RecalcFieldEdit recomputes only lines affected by one cockpit field
	RecalcFieldEdit
)

func (k RecalcKind) String() string {
	switch k {
	case RecalcFreshCreate:
		return "fresh_create"
	case RecalcFieldEdit:
		return "field_edit"
	default:
		return "load_existing"
	}
}

// RecalcMode tells the derivation engine which lines it may recompute
type RecalcMode struct {
	Kind  RecalcKind
	Field CockpitField
	// ShowdateAdded narrows a showdates edit to number_of_showdates, since a
	// new date carries no visitors yet
	ShowdateAdded bool
}

// FreshCreate is the mode for a brand-new offer
func FreshCreate() RecalcMode {
	return RecalcMode{Kind: RecalcFreshCreate}
}

// FieldEdit is the mode after a single cockpit field changed
func FieldEdit(field CockpitField) RecalcMode {
	return RecalcMode{Kind: RecalcFieldEdit, Field: field}
}

// ShowdateAdded is the mode after a date was added to the showdates
func ShowdateAdded() RecalcMode {
	return RecalcMode{Kind: RecalcFieldEdit, Field: FieldShowdates, ShowdateAdded: true}
}

// LoadExisting is the mode for opening an already persisted offer
func LoadExisting() RecalcMode {
	return RecalcMode{Kind: RecalcLoadExisting}
}

func (m RecalcMode) String() string {
	if m.Kind == RecalcFieldEdit {
		return m.Kind.String() + "(" + string(m.Field) + ")"
	}
	return m.Kind.String()
}

var affectedByField = map[CockpitField][]KeyFigure{
	FieldExpectedVisitors:        {KeyFigureTotalVisitors, KeyFigureExpectedRevenue},
	FieldBarMeters:               {KeyFigureBarMeters},
	FieldFoodSalesPositions:      {KeyFigureFoodSalesPositions},
	FieldEuroSpendPerPerson:      {KeyFigureEuroSpendPerPerson, KeyFigureExpectedRevenue},
	FieldShowdates:               {KeyFigureNumberOfShowdates, KeyFigureTotalVisitors, KeyFigureExpectedRevenue},
	FieldTotalVisitorsOverride:   {KeyFigureTotalVisitors},
	FieldAverageTransactionValue: {KeyFigureAverageTransactionValue},
}

// AffectedKeyFigures returns the key figures whose value can change when the
// given cockpit field is edited. Staffel affects totals only.
func AffectedKeyFigures(field CockpitField) []KeyFigure {
	return append([]KeyFigure(nil), affectedByField[field]...)
}

// ShouldRecalculate decides whether a line driven by keyFigure in category
// may be recomputed under mode.
func (r Rules) ShouldRecalculate(mode RecalcMode, keyFigure KeyFigure, category string) bool {
	switch mode.Kind {
	case RecalcFreshCreate:
		return true
	case RecalcFieldEdit:
		if mode.Field == FieldTotalVisitorsOverride && category == r.TicketingCategory && r.TicketingCategory != "" {
			return true
		}
		if mode.Field == FieldShowdates && mode.ShowdateAdded {
			return keyFigure == KeyFigureNumberOfShowdates
		}
		for _, kf := range affectedByField[mode.Field] {
			if kf == keyFigure {
				return true
			}
		}
		return false
	default:
		return false
	}
}
