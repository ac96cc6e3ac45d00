package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BaseModel holds the common identity and timestamp columns
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a new id when none is set
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CalculationType represents how a category is priced
type CalculationType string

const (
	CalculationTypeStandard  CalculationType = "standard"
	CalculationTypePostEvent CalculationType = "post_event"
)

// KeyFigure represents the cockpit metric a product quantity is derived from
type KeyFigure string

const (
	KeyFigureNone                    KeyFigure = "none"
	KeyFigureTotalVisitors           KeyFigure = "total_visitors"
	KeyFigureBarMeters               KeyFigure = "bar_meters"
	KeyFigureFoodSalesPositions      KeyFigure = "food_sales_positions"
	KeyFigureEuroSpendPerPerson      KeyFigure = "euro_spend_per_person"
	KeyFigureAverageTransactionValue KeyFigure = "average_transaction_value"
	KeyFigureNumberOfShowdates       KeyFigure = "number_of_showdates"
	KeyFigureExpectedRevenue         KeyFigure = "expected_revenue"
)

// Product represents a catalog entry that can be quoted on an offer
type Product struct {
	BaseModel
	Name                string    `gorm:"type:varchar(200);not null"`
	Description         string    `gorm:"type:text"`
	Category            string    `gorm:"type:varchar(100);not null;index"`
	IsActive            bool      `gorm:"not null;column:is_active"`
	DefaultQuantity     float64   `gorm:"type:decimal(12,2);not null;default:0;column:default_quantity"`
	DefaultPrice        float64   `gorm:"type:decimal(15,4);not null;default:0;column:default_price"`
	CostBasis           float64   `gorm:"type:decimal(15,4);not null;default:0;column:cost_basis"`
	PercentageFee       float64   `gorm:"type:decimal(7,4);not null;default:0;column:percentage_fee"`
	PercentageCostBasis float64   `gorm:"type:decimal(7,4);not null;default:0;column:percentage_cost_basis"`
	KeyFigure           KeyFigure `gorm:"type:varchar(50);not null;default:'none';column:key_figure"`
	KeyFigureMultiplier float64   `gorm:"type:decimal(12,6);not null;default:0;column:key_figure_multiplier"`
	StaffelEligible     bool      `gorm:"not null;default:false;column:staffel_eligible"`
	HardwareGroup       string    `gorm:"type:varchar(100);column:hardware_group"`
	DisplayOrder        int       `gorm:"not null;default:0;column:display_order"`
}

// CategorySetting holds the calculation mode of a product category.
// Categories without a row are treated as standard.
type CategorySetting struct {
	Category        string          `gorm:"type:varchar(100);primaryKey"`
	CalculationType CalculationType `gorm:"type:varchar(20);not null;default:'standard';column:calculation_type"`
	IsArchived      bool            `gorm:"not null;default:false;column:is_archived"`
	DisplayOrder    int             `gorm:"not null;default:0;column:display_order"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for CategorySetting
func (CategorySetting) TableName() string {
	return "category_settings"
}

// Offer represents a festival quote with its cockpit parameters
type Offer struct {
	BaseModel
	OfferNumber string `gorm:"type:varchar(50);uniqueIndex;column:offer_number"`
	ClientName  string `gorm:"type:varchar(200);not null;column:client_name"`
	ProjectName string `gorm:"type:varchar(200);not null;column:project_name"`

	Showdates               datatypes.JSONType[[]string]       `gorm:"column:showdates"`
	ExpectedVisitors        datatypes.JSONType[map[string]int] `gorm:"column:expected_visitors"`
	BarMeters               float64                            `gorm:"type:decimal(12,2);not null;default:0;column:bar_meters"`
	FoodSalesPositions      float64                            `gorm:"type:decimal(12,2);not null;default:0;column:food_sales_positions"`
	EuroSpendPerPerson      float64                            `gorm:"type:decimal(12,2);not null;default:0;column:euro_spend_per_person"`
	TotalVisitorsOverride   *int                               `gorm:"column:total_visitors_override"`
	AverageTransactionValue float64                            `gorm:"type:decimal(12,2);not null;default:0;column:average_transaction_value"`
	Staffel                 float64                            `gorm:"type:decimal(8,4);not null;default:1"`

	TotalDiscountAmount     float64 `gorm:"type:decimal(15,2);not null;default:0;column:total_discount_amount"`
	TotalDiscountPercentage float64 `gorm:"type:decimal(5,2);not null;default:0;column:total_discount_percentage"`
	SubtotalExclBtw         float64 `gorm:"type:decimal(15,2);not null;default:0;column:subtotal_excl_btw"`
	BtwAmount               float64 `gorm:"type:decimal(15,2);not null;default:0;column:btw_amount"`
	TotalInclBtw            float64 `gorm:"type:decimal(15,2);not null;default:0;column:total_incl_btw"`

	RealizationCosts datatypes.JSONType[map[string]float64] `gorm:"column:realization_costs"`
	AdditionalCosts  datatypes.JSONType[map[string]float64] `gorm:"column:additional_costs"`
	OtherRevenue     float64                                `gorm:"type:decimal(15,2);not null;default:0;column:other_revenue"`

	Lines     []OfferLine        `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
	Forecasts []PostCalcForecast `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

// OfferLine represents one priced product line of an offer.
// ProductID is a weak reference into the catalog.
type OfferLine struct {
	BaseModel
	OfferID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_offer_lines_offer_product;column:offer_id"`
	ProductID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_offer_lines_offer_product;column:product_id"`
	ProductName         string    `gorm:"type:varchar(200);column:product_name"`
	Description         string    `gorm:"type:text"`
	Quantity            float64   `gorm:"type:decimal(12,2);not null;default:0"`
	UnitPrice           float64   `gorm:"type:decimal(15,4);not null;default:0;column:unit_price"`
	PercentageFee       float64   `gorm:"type:decimal(7,4);not null;default:0;column:percentage_fee"`
	PercentageCostBasis float64   `gorm:"type:decimal(7,4);not null;default:0;column:percentage_cost_basis"`
	LineTotal           float64   `gorm:"type:decimal(15,2);not null;default:0;column:line_total"`
	DisplayOrder        int       `gorm:"not null;default:0;column:display_order"`
}

// PostCalcForecast holds the forecast quantity of a post-event product
type PostCalcForecast struct {
	OfferID   uuid.UUID `gorm:"type:uuid;primaryKey;column:offer_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;column:product_id"`
	Quantity  float64   `gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for PostCalcForecast
func (PostCalcForecast) TableName() string {
	return "post_calc_forecasts"
}

// OfferNumberSequence tracks the last issued offer number per year
type OfferNumberSequence struct {
	Year         int       `gorm:"primaryKey"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for OfferNumberSequence
func (OfferNumberSequence) TableName() string {
	return "offer_number_sequences"
}
