package domain

import (
	"github.com/google/uuid"
)

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Catalog DTOs

type ProductDTO struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Category            string    `json:"category"`
	IsActive            bool      `json:"isActive"`
	DefaultQuantity     float64   `json:"defaultQuantity"`
	DefaultPrice        float64   `json:"defaultPrice"`
	CostBasis           float64   `json:"costBasis"`
	PercentageFee       float64   `json:"percentageFee,omitempty"`
	PercentageCostBasis float64   `json:"percentageCostBasis,omitempty"`
	KeyFigure           KeyFigure `json:"keyFigure"`
	KeyFigureMultiplier float64   `json:"keyFigureMultiplier"`
	StaffelEligible     bool      `json:"staffelEligible"`
	HardwareGroup       string    `json:"hardwareGroup,omitempty"`
	DisplayOrder        int       `json:"displayOrder"`
	CreatedAt           string    `json:"createdAt"` // ISO 8601
	UpdatedAt           string    `json:"updatedAt"` // ISO 8601
}

type CreateProductRequest struct {
	Name                string    `json:"name" validate:"required,max=200"`
	Description         string    `json:"description,omitempty"`
	Category            string    `json:"category" validate:"required,max=100"`
	IsActive            *bool     `json:"isActive,omitempty"`
	DefaultQuantity     float64   `json:"defaultQuantity" validate:"gte=0"`
	DefaultPrice        float64   `json:"defaultPrice" validate:"gte=0"`
	CostBasis           float64   `json:"costBasis" validate:"gte=0"`
	PercentageFee       float64   `json:"percentageFee" validate:"gte=0,lte=100"`
	PercentageCostBasis float64   `json:"percentageCostBasis" validate:"gte=0,lte=100"`
	KeyFigure           KeyFigure `json:"keyFigure,omitempty" validate:"omitempty,oneof=none total_visitors bar_meters food_sales_positions euro_spend_per_person average_transaction_value number_of_showdates expected_revenue"`
	KeyFigureMultiplier float64   `json:"keyFigureMultiplier" validate:"gte=0"`
	StaffelEligible     bool      `json:"staffelEligible"`
	HardwareGroup       string    `json:"hardwareGroup,omitempty" validate:"max=100"`
	DisplayOrder        int       `json:"displayOrder"`
}

type UpdateProductRequest struct {
	CreateProductRequest
}

type CategorySettingDTO struct {
	Category        string          `json:"category"`
	CalculationType CalculationType `json:"calculationType"`
	IsArchived      bool            `json:"isArchived"`
	DisplayOrder    int             `json:"displayOrder"`
}

type UpsertCategorySettingRequest struct {
	CalculationType CalculationType `json:"calculationType" validate:"required,oneof=standard post_event"`
	IsArchived      bool            `json:"isArchived"`
	DisplayOrder    int             `json:"displayOrder"`
}

// Offer DTOs

type CockpitDTO struct {
	Showdates               []string       `json:"showdates"`
	ExpectedVisitors        map[string]int `json:"expectedVisitors"`
	BarMeters               float64        `json:"barMeters"`
	FoodSalesPositions      float64        `json:"foodSalesPositions"`
	EuroSpendPerPerson      float64        `json:"euroSpendPerPerson"`
	TotalVisitorsOverride   *int           `json:"totalVisitorsOverride,omitempty"`
	AverageTransactionValue float64        `json:"averageTransactionValue"`
	Staffel                 float64        `json:"staffel"`
	TotalVisitors           float64        `json:"totalVisitors"`
	ExpectedRevenue         float64        `json:"expectedRevenue"`
}

type OfferLineDTO struct {
	ProductID           uuid.UUID `json:"productId"`
	ProductName         string    `json:"productName"`
	Description         string    `json:"description,omitempty"`
	Category            string    `json:"category,omitempty"`
	Quantity            float64   `json:"quantity"`
	UnitPrice           float64   `json:"unitPrice"`
	PercentageFee       float64   `json:"percentageFee,omitempty"`
	PercentageCostBasis float64   `json:"percentageCostBasis,omitempty"`
	LineTotal           float64   `json:"lineTotal"`
	PostEvent           bool      `json:"postEvent"`
}

type ForecastDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  float64   `json:"quantity"`
}

type TotalsDTO struct {
	Subtotal           float64 `json:"subtotalExclBtw"`
	DiscountAmount     float64 `json:"discountAmount"`
	DiscountedSubtotal float64 `json:"discountedSubtotal"`
	BtwAmount          float64 `json:"btwAmount"`
	TotalInclBtw       float64 `json:"totalInclBtw"`
}

type OfferDTO struct {
	ID                      uuid.UUID          `json:"id"`
	OfferNumber             string             `json:"offerNumber"`
	ClientName              string             `json:"clientName"`
	ProjectName             string             `json:"projectName"`
	Cockpit                 CockpitDTO         `json:"cockpit"`
	Lines                   []OfferLineDTO     `json:"lines"`
	Forecasts               []ForecastDTO      `json:"forecasts"`
	TotalDiscountAmount     float64            `json:"totalDiscountAmount"`
	TotalDiscountPercentage float64            `json:"totalDiscountPercentage"`
	Totals                  TotalsDTO          `json:"totals"`
	RealizationCosts        map[string]float64 `json:"realizationCosts,omitempty"`
	AdditionalCosts         map[string]float64 `json:"additionalCosts,omitempty"`
	OtherRevenue            float64            `json:"otherRevenue"`
	CreatedAt               string             `json:"createdAt"` // ISO 8601
	UpdatedAt               string             `json:"updatedAt"` // ISO 8601
}

type OfferSummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	OfferNumber  string    `json:"offerNumber"`
	ClientName   string    `json:"clientName"`
	ProjectName  string    `json:"projectName"`
	Showdates    []string  `json:"showdates"`
	TotalInclBtw float64   `json:"totalInclBtw"`
	CreatedAt    string    `json:"createdAt"` // ISO 8601
	UpdatedAt    string    `json:"updatedAt"` // ISO 8601
}

type CockpitInput struct {
	Showdates               []string       `json:"showdates,omitempty" validate:"dive,datetime=2006-01-02"`
	ExpectedVisitors        map[string]int `json:"expectedVisitors,omitempty" validate:"dive,gte=0"`
	BarMeters               float64        `json:"barMeters" validate:"gte=0"`
	FoodSalesPositions      float64        `json:"foodSalesPositions" validate:"gte=0"`
	EuroSpendPerPerson      float64        `json:"euroSpendPerPerson" validate:"gte=0"`
	TotalVisitorsOverride   *int           `json:"totalVisitorsOverride,omitempty" validate:"omitempty,gte=0"`
	AverageTransactionValue float64        `json:"averageTransactionValue" validate:"gte=0"`
	Staffel                 float64        `json:"staffel" validate:"gte=0"`
}

type CreateOfferRequest struct {
	ClientName  string        `json:"clientName" validate:"required,max=200"`
	ProjectName string        `json:"projectName" validate:"required,max=200"`
	Cockpit     *CockpitInput `json:"cockpit,omitempty"`
}

// CockpitAction selects the showdate operation of a showdates edit
type CockpitAction string

const (
	CockpitActionAdd    CockpitAction = "add"
	CockpitActionRemove CockpitAction = "remove"
)

// UpdateCockpitRequest carries exactly one cockpit edit.
// Date is used by showdate and per-showdate visitor edits; Value is
// cleared (null) to remove the total visitors override.
type UpdateCockpitRequest struct {
	Field  string        `json:"field" validate:"required,oneof=expected_visitors_per_showdate bar_meters food_sales_positions euro_spend_per_person showdates total_visitors_override average_transaction_value staffel"`
	Action CockpitAction `json:"action,omitempty" validate:"omitempty,oneof=add remove"`
	Date   string        `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Value  *float64      `json:"value,omitempty" validate:"omitempty,lte=1000000000"`
}

type UpdateOfferLineRequest struct {
	Quantity            *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	UnitPrice           *float64 `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	Description         *string  `json:"description,omitempty"`
	PercentageFee       *float64 `json:"percentageFee,omitempty" validate:"omitempty,gte=0,lte=100"`
	PercentageCostBasis *float64 `json:"percentageCostBasis,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type SetForecastRequest struct {
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

type UpdateDiscountRequest struct {
	Amount     float64 `json:"amount" validate:"gte=0"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type UpdateRealizationRequest struct {
	RealizationCosts map[string]float64 `json:"realizationCosts" validate:"dive,gte=0"`
	AdditionalCosts  map[string]float64 `json:"additionalCosts" validate:"dive,gte=0"`
	OtherRevenue     float64            `json:"otherRevenue" validate:"gte=0"`
}

// Report DTOs

type CategoryRealizationDTO struct {
	Category   string  `json:"category"`
	Budget     float64 `json:"budget"`
	Actual     float64 `json:"actual"`
	Correction float64 `json:"correction"`
}

type ProfitBreakdownDTO struct {
	StandardRevenue       float64                  `json:"standardRevenue"`
	StandardCost          float64                  `json:"standardCost"`
	StandardProfit        float64                  `json:"standardProfit"`
	PostCalcRevenue       float64                  `json:"postCalcRevenue"`
	PostCalcCost          float64                  `json:"postCalcCost"`
	PostCalcProfit        float64                  `json:"postCalcProfit"`
	RealizationCorrection float64                  `json:"realizationCorrection"`
	Realizations          []CategoryRealizationDTO `json:"realizations,omitempty"`
	AdditionalCosts       float64                  `json:"additionalCosts"`
	OtherRevenue          float64                  `json:"otherRevenue"`
	TotalRevenue          float64                  `json:"totalRevenue"`
	NetProfit             float64                  `json:"netProfit"`
}

type OfferProfitDTO struct {
	OfferID     uuid.UUID          `json:"offerId"`
	OfferNumber string             `json:"offerNumber"`
	ClientName  string             `json:"clientName"`
	ProjectName string             `json:"projectName"`
	Breakdown   ProfitBreakdownDTO `json:"breakdown"`
}

type ProfitSummaryDTO struct {
	Offers []OfferProfitDTO   `json:"offers"`
	Totals ProfitBreakdownDTO `json:"totals"`
}
