package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

func TestAggregator_FabricNesting_TieCase(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	// Orientation A: 4 per row, 5 rows, 40 inches.
	// Orientation B: 5 per row, 4 rows, 40 inches. Tie.
	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "FAB-1", ItemName: "Canvas", Category: "canvas", Panno: d(40), Width: d(10), Height: d(8), Qty: d(20)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "1.0160 m", rows[0].Qty) // 40 / 39.37
	assert.Equal(t, "N/A", rows[0].Weight)
}

func TestAggregator_FabricNesting_PicksShorterOrientation(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	// Width across: floor(40/20)=2 per row, 2 rows, 20 inches.
	// Height across: floor(40/10)=4 per row, 1 row, 20 inches. Tie at 20.
	// With qty=5: A: 3 rows -> 30; B: 2 rows -> 40. A wins.
	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "FAB-2", ItemName: "Cotton", Category: "cotton", Panno: d(40), Width: d(20), Height: d(10), Qty: d(5)},
	})

	require.Len(t, rows, 1)
	// 30 / 39.37
	assert.Equal(t, "0.7620 m", rows[0].Qty)
}

func TestAggregator_FabricNesting_PieceTooWide(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	// Neither orientation fits across a 5-inch web: both candidates excluded,
	// the row still appears with zero consumption.
	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "FAB-3", ItemName: "Canvas", Category: "canvas", Panno: d(5), Width: d(10), Height: d(8), Qty: d(4)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "0.0000 m", rows[0].Qty)
}

func TestAggregator_MergesDuplicateSKUs(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	// Two differently-cut panels from the same roll must sum into one row.
	lines := []entity.ComponentLine{
		{SKUCode: "FAB-1", ItemName: "Canvas", Category: "canvas", Panno: d(40), Width: d(10), Height: d(8), Qty: d(20)}, // 40 in
		{SKUCode: "FAB-1", ItemName: "Canvas", Category: "canvas", Panno: d(40), Width: d(20), Height: d(10), Qty: d(4)}, // 20 in
	}

	rows := agg.Aggregate(lines)
	require.Len(t, rows, 1)
	// 60 / 39.37
	assert.Equal(t, "1.5240 m", rows[0].Qty)
}

func TestAggregator_Linear(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "ZIP-1", ItemName: "Zipper", Category: "zipper", Width: d(39.37), Qty: d(2)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "2.0000 m", rows[0].Qty)
	assert.Equal(t, "N/A", rows[0].Weight)
}

func TestAggregator_Bulk(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "PLS-1", ItemName: "Plastic", Category: "plastic", Grams: d(250), Qty: d(1)},
		{SKUCode: "PLS-1", ItemName: "Plastic", Category: "plastic", Grams: d(250), Qty: d(1)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "0.5000 kg", rows[0].Weight)
	assert.Equal(t, "N/A", rows[0].Qty)
}

func TestAggregator_Accessory(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "RNR-1", ItemName: "Runner", Category: "runner", Qty: d(4)},
		{SKUCode: "RNR-1", ItemName: "Runner", Category: "runner", Qty: d(6)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "10", rows[0].Qty)
	assert.Equal(t, "N/A", rows[0].Weight)
}

func TestAggregator_EmptySKUsMergeIntoOneRow(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	rows := agg.Aggregate([]entity.ComponentLine{
		{ItemName: "Unnamed A", Category: "runner", Qty: d(1)},
		{ItemName: "Unnamed B", Category: "runner", Qty: d(2)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].Qty)
	assert.Equal(t, "Unnamed A", rows[0].ItemName)
}

func TestAggregator_RowOrderFollowsFirstAppearance(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "B", ItemName: "Slider", Category: "slider", Qty: d(1)},
		{SKUCode: "A", ItemName: "Runner", Category: "runner", Qty: d(1)},
		{SKUCode: "B", ItemName: "Slider", Category: "slider", Qty: d(1)},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].SKUCode)
	assert.Equal(t, "A", rows[1].SKUCode)
}

func TestAggregator_TotalsInvariantUnderPermutation(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	lines := []entity.ComponentLine{
		{SKUCode: "FAB-1", Category: "canvas", Panno: d(40), Width: d(10), Height: d(8), Qty: d(20)},
		{SKUCode: "ZIP-1", Category: "zipper", Width: d(24), Qty: d(1)},
		{SKUCode: "FAB-1", Category: "canvas", Panno: d(40), Width: d(20), Height: d(10), Qty: d(4)},
		{SKUCode: "RNR-1", Category: "runner", Qty: d(2)},
	}
	permuted := []entity.ComponentLine{lines[3], lines[2], lines[1], lines[0]}

	byKey := func(rows []entity.ConsumptionRow) map[string]entity.ConsumptionRow {
		m := make(map[string]entity.ConsumptionRow)
		for _, r := range rows {
			m[r.SKUCode] = r
		}
		return m
	}

	a := byKey(agg.Aggregate(lines))
	b := byKey(agg.Aggregate(permuted))
	require.Equal(t, len(a), len(b))
	for sku, row := range a {
		assert.Equal(t, row.Qty, b[sku].Qty, "qty mismatch for %s", sku)
		assert.Equal(t, row.Weight, b[sku].Weight, "weight mismatch for %s", sku)
	}
}

func TestAggregator_MissingFabricGeometrySkipsLine(t *testing.T) {
	agg := NewAggregator(DefaultTaxonomy())

	rows := agg.Aggregate([]entity.ComponentLine{
		{SKUCode: "FAB-1", ItemName: "Canvas", Category: "canvas", Width: d(10), Height: d(8), Qty: d(20)}, // no panno
		{SKUCode: "FAB-1", ItemName: "Canvas", Category: "canvas", Panno: d(40), Width: d(10), Height: d(8), Qty: d(20)},
	})

	require.Len(t, rows, 1)
	// Only the complete line contributes: 40 / 39.37.
	assert.Equal(t, "1.0160 m", rows[0].Qty)
}
