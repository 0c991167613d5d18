package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemKind distinguishes raw materials from semi-finished goods in master data.
type ItemKind string

const (
	ItemKindRawMaterial ItemKind = "RM"
	ItemKindSFG         ItemKind = "SFG"
)

// MasterItem is one raw-material or SFG master record. BaseQty is the pack,
// roll, or coil size the item is priced in: pieces for accessories, kilograms
// for bulk materials, meters for linear materials. ItemRate is the price of
// one full BaseQty. SqInchRate is the per-square-inch price used only by the
// fabric family. RateFormula optionally carries a pricing expression for
// categories outside the taxonomy.
type MasterItem struct {
	ID          uuid.UUID       `json:"id"`
	Kind        ItemKind        `json:"kind"`
	SKUCode     string          `json:"sku_code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	BaseQty     decimal.Decimal `json:"base_qty"`
	ItemRate    decimal.Decimal `json:"item_rate"`
	SqInchRate  decimal.Decimal `json:"sq_inch_rate"`
	RateFormula string          `json:"rate_formula,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ComponentLine is one line of a product's bill of materials: a single RM/SFG
// consumed to build the parent product, scaled by order quantity.
//
// Qty and Grams always hold order-quantity-scaled values. UnitQty and
// UnitGrams retain the per-single-unit figures so Qty/Grams can be rederived
// whenever the order quantity changes without compounding a previous scale.
type ComponentLine struct {
	ItemID      uuid.UUID           `json:"item_id"`
	Type        ItemKind            `json:"type"`
	Category    string              `json:"category"`
	SKUCode     string              `json:"sku_code"`
	ItemName    string              `json:"item_name"`
	PartName    string              `json:"part_name,omitempty"`
	Height      decimal.Decimal     `json:"height"`
	Width       decimal.Decimal     `json:"width"`
	Qty         decimal.Decimal     `json:"qty"`
	Grams       decimal.Decimal     `json:"grams"`
	Panno       decimal.Decimal     `json:"panno"`
	BaseQty     decimal.Decimal     `json:"base_qty"`
	ItemRate    decimal.Decimal     `json:"item_rate"`
	SqInchRate  decimal.Decimal     `json:"sq_inch_rate"`
	Rate        decimal.NullDecimal `json:"rate"`
	UnitQty     decimal.Decimal     `json:"unit_qty"`
	UnitGrams   decimal.Decimal     `json:"unit_grams"`
	RateFormula string              `json:"rate_formula,omitempty"`
	IsPrint     bool                `json:"is_print"`
	CuttingType string              `json:"cutting_type,omitempty"`
}

// ConsumptionRow is one line of the deduplicated raw-material consumption
// report: exactly one row per distinct SKU in the bill of materials, with
// display-ready unit-labeled quantity and weight strings.
type ConsumptionRow struct {
	SKUCode  string `json:"sku_code"`
	ItemName string `json:"item_name"`
	Category string `json:"category"`
	Qty      string `json:"qty"`
	Weight   string `json:"weight"`
}

// CostHeader carries the rollup inputs attached to a BOM/SFG/quotation form:
// the named overhead percentages, the channel markups, the fixed per-unit
// charges in currency, and the order quantity.
type CostHeader struct {
	Rejection          decimal.Decimal `json:"rejection"`
	QC                 decimal.Decimal `json:"qc"`
	MachineMaintenance decimal.Decimal `json:"machine_maintenance"`
	MaterialHandling   decimal.Decimal `json:"material_handling"`
	Packaging          decimal.Decimal `json:"packaging"`
	Shipping           decimal.Decimal `json:"shipping"`
	CompanyOverhead    decimal.Decimal `json:"company_overhead"`
	IndirectExpense    decimal.Decimal `json:"indirect_expense"`
	B2B                decimal.Decimal `json:"b2b"`
	D2C                decimal.Decimal `json:"d2c"`
	Stitching          decimal.Decimal `json:"stitching"`
	Printing           decimal.Decimal `json:"printing"`
	Others             decimal.Decimal `json:"others"`
	OrderQty           decimal.Decimal `json:"order_qty"`
}

// OverheadPercent sums the eight named overhead percentages. The stack is
// summed raw, not compounded.
func (h *CostHeader) OverheadPercent() decimal.Decimal {
	sum := h.Rejection
	sum = sum.Add(h.QC)
	sum = sum.Add(h.MachineMaintenance)
	sum = sum.Add(h.MaterialHandling)
	sum = sum.Add(h.Packaging)
	sum = sum.Add(h.Shipping)
	sum = sum.Add(h.CompanyOverhead)
	sum = sum.Add(h.IndirectExpense)
	return sum
}

// CostSheet holds the six rollup outputs at full precision. Incomplete is set
// when any component line's rate could not be resolved and was coerced to
// zero during summation, so the figures are a lower bound.
type CostSheet struct {
	UnitRate     decimal.Decimal `json:"unit_rate"`
	UnitB2BRate  decimal.Decimal `json:"unit_b2b_rate"`
	UnitD2CRate  decimal.Decimal `json:"unit_d2c_rate"`
	TotalRate    decimal.Decimal `json:"total_rate"`
	TotalB2BRate decimal.Decimal `json:"total_b2b_rate"`
	TotalD2CRate decimal.Decimal `json:"total_d2c_rate"`
	Incomplete   bool            `json:"incomplete"`
	ComputedAt   time.Time       `json:"computed_at"`
}

// Rounded returns a copy with the six figures rounded to 2 decimal places for
// the display boundary.
func (s CostSheet) Rounded() CostSheet {
	s.UnitRate = s.UnitRate.Round(2)
	s.UnitB2BRate = s.UnitB2BRate.Round(2)
	s.UnitD2CRate = s.UnitD2CRate.Round(2)
	s.TotalRate = s.TotalRate.Round(2)
	s.TotalB2BRate = s.TotalB2BRate.Round(2)
	s.TotalD2CRate = s.TotalD2CRate.Round(2)
	return s
}

// BOMKind distinguishes the three costing document types.
type BOMKind string

const (
	BOMKindBOM       BOMKind = "BOM"
	BOMKindSFG       BOMKind = "SFG"
	BOMKindQuotation BOMKind = "QUOTATION"
)

// ProductBOM is a costing document: a parent product's component lines plus
// the computed cost sheet and consumption report. SFG documents cost their
// components as one finished sub-assembly; BOM and quotation documents scale
// component totals by order quantity.
type ProductBOM struct {
	ID          uuid.UUID        `json:"id"`
	Kind        BOMKind          `json:"kind"`
	PartyName   string           `json:"party_name"`
	ProductName string           `json:"product_name"`
	Header      CostHeader       `json:"header"`
	Components  []ComponentLine  `json:"components"`
	Consumption []ConsumptionRow `json:"consumption"`
	Sheet       CostSheet        `json:"sheet"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ComponentsJSON returns the component lines as JSON bytes
func (b *ProductBOM) ComponentsJSON() ([]byte, error) {
	return json.Marshal(b.Components)
}

// ConsumptionJSON returns the consumption rows as JSON bytes
func (b *ProductBOM) ConsumptionJSON() ([]byte, error) {
	return json.Marshal(b.Consumption)
}

// JobStatus represents the status of a batch job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// JobType represents the type of batch job
type JobType string

const (
	JobTypeRecostAll JobType = "RECOST_ALL"
	JobTypeRecostOne JobType = "RECOST_ONE"
)

// BatchJob represents a background job for large operations
type BatchJob struct {
	ID               uuid.UUID              `json:"id"`
	JobType          JobType                `json:"job_type"`
	Status           JobStatus              `json:"status"`
	TotalRecords     int64                  `json:"total_records"`
	ProcessedRecords int64                  `json:"processed_records"`
	FailedRecords    int64                  `json:"failed_records"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	StartedAt        *time.Time             `json:"started_at,omitempty"`
	FinishedAt       *time.Time             `json:"finished_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Progress returns the progress percentage
func (b *BatchJob) Progress() float64 {
	if b.TotalRecords == 0 {
		return 0
	}
	return float64(b.ProcessedRecords) / float64(b.TotalRecords) * 100
}
