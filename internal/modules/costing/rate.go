package costing

import (
	"github.com/shopspring/decimal"

	"github.com/stitchworks/bomcost/internal/domain/entity"
	"github.com/stitchworks/bomcost/pkg/formula"
)

// RateCalculator prices a single component line with the physical formula of
// its category family. It is pure and never errors: any line missing a
// required factor resolves to an invalid NullDecimal, which callers must
// treat as "rate unknown", not zero.
type RateCalculator struct {
	taxonomy *Taxonomy
	formulas *formula.Parser
}

// NewRateCalculator creates a rate calculator over the given taxonomy.
func NewRateCalculator(taxonomy *Taxonomy) *RateCalculator {
	return &RateCalculator{
		taxonomy: taxonomy,
		formulas: formula.NewParser(),
	}
}

// Calculate returns the monetary rate for one bill-of-material line.
//
// fabric:    height x width x qty x sqInchRate (cut-piece area pricing)
// accessory: itemRate / baseQty per piece, times qty
// bulk:      grams / (baseQty kg x 1000), times the roll price; qty unused
// linear:    itemRate per inch of the baseQty-meter coil, times the consumed
//            width in inches, times qty
//
// Categories outside the taxonomy fall back to a formula override when the
// line carries one, else to the line's stored rate.
func (c *RateCalculator) Calculate(line *entity.ComponentLine) decimal.NullDecimal {
	switch c.taxonomy.FamilyOf(line.Category) {
	case FamilyFabric:
		return fabricRate(line)
	case FamilyAccessory:
		return accessoryRate(line)
	case FamilyBulk:
		return bulkRate(line)
	case FamilyLinear:
		return linearRate(line)
	default:
		return c.fallbackRate(line)
	}
}

func fabricRate(line *entity.ComponentLine) decimal.NullDecimal {
	if !positive(line.Height, line.Width, line.Qty, line.SqInchRate) {
		return decimal.NullDecimal{}
	}
	r := line.Height.Mul(line.Width).Mul(line.Qty).Mul(line.SqInchRate)
	return valid(r)
}

func accessoryRate(line *entity.ComponentLine) decimal.NullDecimal {
	if !positive(line.BaseQty, line.ItemRate, line.Qty) {
		return decimal.NullDecimal{}
	}
	perPiece := line.ItemRate.Div(line.BaseQty)
	return valid(perPiece.Mul(line.Qty))
}

func bulkRate(line *entity.ComponentLine) decimal.NullDecimal {
	// Grams is authoritative here; Qty plays no part in the bulk formula.
	baseGrams := Kilograms(line.BaseQty).InGrams()
	if !positive(line.Grams, baseGrams, line.ItemRate) {
		return decimal.NullDecimal{}
	}
	return valid(line.Grams.Div(baseGrams).Mul(line.ItemRate))
}

func linearRate(line *entity.ComponentLine) decimal.NullDecimal {
	// Width holds the consumed length in inches for this family.
	baseInches := Meters(line.BaseQty).InInches()
	if !positive(line.Width, baseInches, line.ItemRate) {
		return decimal.NullDecimal{}
	}
	perInch := line.ItemRate.Div(baseInches)
	inchesRate := perInch.Mul(line.Width)
	return valid(inchesRate.Mul(line.Qty))
}

func (c *RateCalculator) fallbackRate(line *entity.ComponentLine) decimal.NullDecimal {
	if line.RateFormula != "" {
		if r, err := c.formulas.Evaluate(line.RateFormula, formulaEnv(line)); err == nil {
			return valid(decimal.NewFromFloat(r))
		}
	}
	// Pass through whatever rate the line already carries, which may itself
	// be unset.
	return line.Rate
}

// formulaEnv exposes the line's physical fields to a rate-formula override.
func formulaEnv(line *entity.ComponentLine) map[string]interface{} {
	return map[string]interface{}{
		"height":       line.Height.InexactFloat64(),
		"width":        line.Width.InexactFloat64(),
		"qty":          line.Qty.InexactFloat64(),
		"grams":        line.Grams.InexactFloat64(),
		"panno":        line.Panno.InexactFloat64(),
		"base_qty":     line.BaseQty.InexactFloat64(),
		"item_rate":    line.ItemRate.InexactFloat64(),
		"sq_inch_rate": line.SqInchRate.InexactFloat64(),
	}
}

// positive reports whether every value is strictly greater than zero.
// Negative dimensions are treated the same as missing ones: the formula is
// inapplicable.
func positive(vals ...decimal.Decimal) bool {
	for _, v := range vals {
		if !v.IsPositive() {
			return false
		}
	}
	return true
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
