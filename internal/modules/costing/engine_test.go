package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

func TestEngine_ApplyOrderQty_NoDriftAcrossEdits(t *testing.T) {
	engine := NewEngine(DefaultTaxonomy())

	lines := []entity.ComponentLine{
		{Category: "runner", UnitQty: d(2)},
		{Category: "plastic", UnitQty: d(1), UnitGrams: d(50)},
	}

	// Repeated order-quantity edits must always rescale from the per-unit
	// shadows, never from the previously scaled values.
	engine.ApplyOrderQty(lines, d(10))
	engine.ApplyOrderQty(lines, d(7))
	engine.ApplyOrderQty(lines, d(10))

	assert.Equal(t, "20", lines[0].Qty.String())
	assert.Equal(t, "10", lines[1].Qty.String())
	assert.Equal(t, "500", lines[1].Grams.String())
}

func TestEngine_ApplyOrderQty_ZeroQtyScalesAsOne(t *testing.T) {
	engine := NewEngine(DefaultTaxonomy())

	lines := []entity.ComponentLine{{Category: "runner", UnitQty: d(3)}}
	engine.ApplyOrderQty(lines, d(0))

	assert.Equal(t, "3", lines[0].Qty.String())
}

func TestEngine_PriceLines(t *testing.T) {
	engine := NewEngine(DefaultTaxonomy())

	lines := []entity.ComponentLine{
		{Category: "canvas", Height: d(10), Width: d(8), Qty: d(2), SqInchRate: d(0.05)},
		{Category: "velcro"}, // unresolvable
	}

	engine.PriceLines(lines)

	require.True(t, lines[0].Rate.Valid)
	assert.Equal(t, "8.00", lines[0].Rate.Decimal.StringFixed(2))
	assert.False(t, lines[1].Rate.Valid)
}

func TestEngine_Cost_FullPipeline(t *testing.T) {
	engine := NewEngine(DefaultTaxonomy())

	doc := &entity.ProductBOM{
		Kind:        entity.BOMKindBOM,
		PartyName:   "Acme Bags",
		ProductName: "Tote 20L",
		Header: entity.CostHeader{
			Rejection: d(2),
			QC:        d(1),
			Stitching: d(5),
			OrderQty:  d(10),
		},
		Components: []entity.ComponentLine{
			{
				SKUCode: "FAB-1", ItemName: "Canvas", Category: "canvas",
				Height: d(10), Width: d(8), Panno: d(40),
				UnitQty: d(2), SqInchRate: d(0.05),
			},
			{
				SKUCode: "RNR-1", ItemName: "Runner", Category: "runner",
				UnitQty: d(1), BaseQty: d(100), ItemRate: d(50),
			},
		},
	}

	engine.Cost(doc)

	// Lines were scaled by order qty before pricing.
	assert.Equal(t, "20", doc.Components[0].Qty.String())
	require.True(t, doc.Components[0].Rate.Valid)
	// 10 * 8 * 20 * 0.05 = 80
	assert.Equal(t, "80.00", doc.Components[0].Rate.Decimal.StringFixed(2))
	require.True(t, doc.Components[1].Rate.Valid)
	// (50/100) * 10 = 5
	assert.Equal(t, "5.00", doc.Components[1].Rate.Decimal.StringFixed(2))

	// unitR = 85/10 + 5 = 13.5, stack = 3%
	sheet := doc.Sheet.Rounded()
	assert.Equal(t, "13.91", sheet.UnitRate.StringFixed(2))
	assert.Equal(t, "139.05", sheet.TotalRate.StringFixed(2))
	assert.False(t, sheet.Incomplete)

	require.Len(t, doc.Consumption, 2)
	assert.Equal(t, "FAB-1", doc.Consumption[0].SKUCode)
	// 20 pieces of 8x10 on a 40in web: width across -> 5/row, 4 rows, 40in;
	// height across -> 4/row, 5 rows, 40in. 40/39.37 meters either way.
	assert.Equal(t, "1.0160 m", doc.Consumption[0].Qty)
	assert.Equal(t, "10", doc.Consumption[1].Qty)
}

func TestEngine_Cost_SFGSkipsOrderQtyDivision(t *testing.T) {
	engine := NewEngine(DefaultTaxonomy())

	doc := &entity.ProductBOM{
		Kind:        entity.BOMKindSFG,
		ProductName: "Front Pocket Panel",
		Header:      entity.CostHeader{OrderQty: d(4)},
		Components: []entity.ComponentLine{
			{SKUCode: "RNR-1", Category: "runner", Qty: d(10), BaseQty: d(100), ItemRate: d(50)},
		},
	}

	engine.Cost(doc)

	// (50/100) * 10 = 5 for one assembly; total covers four of them.
	assert.Equal(t, "5.00", doc.Sheet.UnitRate.StringFixed(2))
	assert.Equal(t, "20.00", doc.Sheet.TotalRate.StringFixed(2))
}

func TestRefreshFromMaster(t *testing.T) {
	item := &entity.MasterItem{
		SKUCode:    "LIN-ZIP-001",
		Name:       "Zipper Coil #8",
		Category:   "zipper",
		BaseQty:    d(200),
		ItemRate:   d(3400),
		SqInchRate: d(0),
	}
	line := entity.ComponentLine{Category: "stale", ItemRate: d(1)}

	RefreshFromMaster(&line, item)

	assert.Equal(t, "zipper", line.Category)
	assert.Equal(t, "LIN-ZIP-001", line.SKUCode)
	assert.Equal(t, "3400", line.ItemRate.String())
}
