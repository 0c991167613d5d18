package costing

import (
	"github.com/shopspring/decimal"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

// Engine ties the taxonomy, rate calculator, and consumption aggregator into
// the costing pipeline used by the API and the recost worker. It is stateless
// apart from its immutable configuration and safe for concurrent use.
type Engine struct {
	taxonomy *Taxonomy
	rates    *RateCalculator
	agg      *Aggregator
}

// NewEngine creates a costing engine over the given taxonomy.
func NewEngine(taxonomy *Taxonomy) *Engine {
	return &Engine{
		taxonomy: taxonomy,
		rates:    NewRateCalculator(taxonomy),
		agg:      NewAggregator(taxonomy),
	}
}

// Taxonomy returns the engine's category taxonomy.
func (e *Engine) Taxonomy() *Taxonomy { return e.taxonomy }

// ApplyOrderQty rederives each line's scaled Qty and Grams from its retained
// per-single-unit shadow values. Scaling always starts from the shadows, so
// repeated order-quantity edits never compound.
func (e *Engine) ApplyOrderQty(lines []entity.ComponentLine, orderQty decimal.Decimal) {
	if !orderQty.IsPositive() {
		orderQty = decimal.NewFromInt(1)
	}
	for i := range lines {
		if lines[i].UnitQty.IsPositive() {
			lines[i].Qty = lines[i].UnitQty.Mul(orderQty)
		}
		if lines[i].UnitGrams.IsPositive() {
			lines[i].Grams = lines[i].UnitGrams.Mul(orderQty)
		}
	}
}

// PriceLines recomputes every line's rate in place.
func (e *Engine) PriceLines(lines []entity.ComponentLine) {
	for i := range lines {
		lines[i].Rate = e.rates.Calculate(&lines[i])
	}
}

// Consumption builds the deduplicated consumption report for the lines.
func (e *Engine) Consumption(lines []entity.ComponentLine) []entity.ConsumptionRow {
	return e.agg.Aggregate(lines)
}

// Cost runs the full pipeline on a costing document: rescale by order
// quantity, price every line, roll up the sheet, and rebuild the consumption
// report. The document is mutated in place.
func (e *Engine) Cost(doc *entity.ProductBOM) {
	e.ApplyOrderQty(doc.Components, doc.Header.OrderQty)
	e.PriceLines(doc.Components)
	doc.Sheet = Rollup(doc.Components, doc.Header, ModeForKind(doc.Kind))
	doc.Consumption = e.Consumption(doc.Components)
}

// RefreshFromMaster copies the priceable master-data fields onto a component
// line, used when re-costing stored documents against current item rates.
func RefreshFromMaster(line *entity.ComponentLine, item *entity.MasterItem) {
	line.Category = item.Category
	line.SKUCode = item.SKUCode
	line.ItemName = item.Name
	line.BaseQty = item.BaseQty
	line.ItemRate = item.ItemRate
	line.SqInchRate = item.SqInchRate
	line.RateFormula = item.RateFormula
}
