package costing

import (
	"github.com/shopspring/decimal"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

// Aggregator builds the deduplicated raw-material consumption report for a
// bill of materials: one row per distinct SKU, physical quantities summed per
// the family's unit convention.
type Aggregator struct {
	taxonomy *Taxonomy
}

// NewAggregator creates a consumption aggregator over the given taxonomy.
func NewAggregator(taxonomy *Taxonomy) *Aggregator {
	return &Aggregator{taxonomy: taxonomy}
}

// skuTotals accumulates physical consumption for one distinct SKU.
type skuTotals struct {
	itemName string
	category string
	family   Family
	qty      decimal.Decimal
	weight   Weight
}

// Aggregate groups component lines by SKU and sums physical consumption.
// Lines with no SKU merge into a single empty-SKU row. Row order follows the
// first appearance of each SKU in the input; permuting lines never changes
// the summed totals. Lines missing required geometry are skipped silently and
// leave the row's totals untouched.
func (a *Aggregator) Aggregate(lines []entity.ComponentLine) []entity.ConsumptionRow {
	groups := make(map[string]*skuTotals)
	var order []string

	for i := range lines {
		line := &lines[i]
		g, ok := groups[line.SKUCode]
		if !ok {
			g = &skuTotals{
				itemName: line.ItemName,
				category: line.Category,
				family:   a.taxonomy.FamilyOf(line.Category),
			}
			groups[line.SKUCode] = g
			order = append(order, line.SKUCode)
		}
		a.accumulate(g, line)
	}

	rows := make([]entity.ConsumptionRow, 0, len(order))
	for _, sku := range order {
		rows = append(rows, renderRow(sku, groups[sku]))
	}
	return rows
}

func (a *Aggregator) accumulate(g *skuTotals, line *entity.ComponentLine) {
	switch a.taxonomy.FamilyOf(line.Category) {
	case FamilyLinear:
		// Width holds the consumed length in inches; report meters.
		consumed := Inches(line.Width.Mul(line.Qty))
		g.qty = g.qty.Add(consumed.InMeters())
	case FamilyFabric:
		if length, ok := fabricNestingLength(line); ok {
			g.qty = g.qty.Add(length.InMeters())
		}
	case FamilyBulk:
		g.weight = Grams(g.weight.InGrams().Add(line.Grams))
		g.qty = g.qty.Add(line.Qty)
	default:
		// accessory and unmapped categories count pieces.
		g.qty = g.qty.Add(line.Qty)
	}
}

// fabricNestingLength computes the roll length needed to cut qty pieces of
// width x height from a roll of web width panno, trying both piece
// orientations and keeping the shorter layout. An orientation whose piece
// does not fit across the roll is excluded.
func fabricNestingLength(line *entity.ComponentLine) (Length, bool) {
	if !positive(line.Width, line.Height, line.Qty, line.Panno) {
		return Length{}, false
	}

	best := decimal.Zero
	found := false
	try := func(across, along decimal.Decimal) {
		perRow := line.Panno.Div(across).Floor()
		if !perRow.IsPositive() {
			return
		}
		rows := line.Qty.Div(perRow).Ceil()
		length := rows.Mul(along)
		if !found || length.LessThan(best) {
			best = length
			found = true
		}
	}
	try(line.Width, line.Height)
	try(line.Height, line.Width)

	if !found {
		return Length{}, false
	}
	return Inches(best), true
}

func renderRow(sku string, g *skuTotals) entity.ConsumptionRow {
	row := entity.ConsumptionRow{
		SKUCode:  sku,
		ItemName: g.itemName,
		Category: g.category,
		Qty:      "N/A",
		Weight:   "N/A",
	}
	switch g.family {
	case FamilyFabric, FamilyLinear:
		row.Qty = g.qty.StringFixed(4) + " m"
	case FamilyBulk:
		// Piece count is tracked but the report shows weight only.
		row.Weight = g.weight.InKilograms().StringFixed(4) + " kg"
	default:
		row.Qty = g.qty.String()
	}
	return row
}
