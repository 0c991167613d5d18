package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestRateCalculator_Fabric(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{
		Category:   "canvas",
		Height:     d(10),
		Width:      d(8),
		Qty:        d(20),
		SqInchRate: d(0.05),
	}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	// 10 * 8 * 20 * 0.05
	assert.Equal(t, "80.00", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_Accessory(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{
		Category: "slider",
		BaseQty:  d(100),
		ItemRate: d(50),
		Qty:      d(8),
	}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	// (50 / 100) * 8
	assert.Equal(t, "4.00", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_Bulk(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{
		Category: "plastic",
		Grams:    d(250),
		BaseQty:  d(1), // kg
		ItemRate: d(200),
		Qty:      d(999), // must not participate
	}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	// (250 / 1000) * 200
	assert.Equal(t, "50.00", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_Linear(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{
		Category: "zipper",
		BaseQty:  d(1), // meters -> 39.37 inches
		ItemRate: d(78.74),
		Width:    d(10), // inches consumed
		Qty:      d(2),
	}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	// per inch = 78.74 / 39.37 = 2; 2 * 10 * 2
	assert.Equal(t, "40.00", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_MissingFactors(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	testCases := []struct {
		name string
		line entity.ComponentLine
	}{
		{"fabric without sq inch rate", entity.ComponentLine{Category: "fabric", Height: d(10), Width: d(8), Qty: d(20)}},
		{"fabric with zero height", entity.ComponentLine{Category: "fabric", Width: d(8), Qty: d(20), SqInchRate: d(0.05)}},
		{"fabric with negative width", entity.ComponentLine{Category: "fabric", Height: d(10), Width: d(-8), Qty: d(20), SqInchRate: d(0.05)}},
		{"accessory without base qty", entity.ComponentLine{Category: "runner", ItemRate: d(50), Qty: d(8)}},
		{"bulk without grams", entity.ComponentLine{Category: "ld cord", BaseQty: d(1), ItemRate: d(200)}},
		{"linear without width", entity.ComponentLine{Category: "webbing", BaseQty: d(1), ItemRate: d(80), Qty: d(2)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate := calc.Calculate(&tc.line)
			assert.False(t, rate.Valid, "expected unresolved rate")
		})
	}
}

func TestRateCalculator_UnknownCategory_Passthrough(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	stored := decimal.NullDecimal{Decimal: d(12.5), Valid: true}
	line := entity.ComponentLine{Category: "velcro", Rate: stored}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	assert.Equal(t, "12.50", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_UnknownCategory_NoStoredRate(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{Category: "velcro"}
	assert.False(t, calc.Calculate(&line).Valid)
}

func TestRateCalculator_FormulaOverride(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{
		Category:    "velcro",
		Grams:       d(500),
		ItemRate:    d(10),
		RateFormula: "grams * item_rate / 1000",
	}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	assert.Equal(t, "5.00", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_FormulaOverride_BadExpression(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	stored := decimal.NullDecimal{Decimal: d(3), Valid: true}
	line := entity.ComponentLine{
		Category:    "velcro",
		Rate:        stored,
		RateFormula: "((grams *",
	}

	// A broken override falls back to the stored rate.
	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	assert.Equal(t, "3.00", rate.Decimal.StringFixed(2))
}

func TestRateCalculator_CategoryCaseInsensitive(t *testing.T) {
	calc := NewRateCalculator(DefaultTaxonomy())

	line := entity.ComponentLine{
		Category:   "Canvas",
		Height:     d(5),
		Width:      d(4),
		Qty:        d(1),
		SqInchRate: d(0.5),
	}

	rate := calc.Calculate(&line)
	require.True(t, rate.Valid)
	assert.Equal(t, "10.00", rate.Decimal.StringFixed(2))
}
