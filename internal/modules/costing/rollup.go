package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stitchworks/bomcost/internal/domain/entity"
)

// RollupMode selects how component rates relate to order quantity.
type RollupMode int

const (
	// PerUnitComponents is the BOM/quotation semantics: component rates are
	// already order-quantity-scaled, so the unit figure divides their sum by
	// the order quantity before adding fixed charges.
	PerUnitComponents RollupMode = iota
	// AssemblyComponents is the SFG semantics: the component sum already
	// describes one finished sub-assembly and is used as the unit figure
	// directly.
	AssemblyComponents
)

// ModeForKind maps a costing document kind to its rollup mode.
func ModeForKind(kind entity.BOMKind) RollupMode {
	if kind == entity.BOMKindSFG {
		return AssemblyComponents
	}
	return PerUnitComponents
}

// Rollup sums component rates, adds the fixed per-unit charges, and applies
// the overhead stack plus the B2B/D2C channel markups, producing the six
// costing figures at full precision.
//
// A line whose rate is unresolved contributes zero to the sum, matching the
// lenient behavior the costing screens have always had; the sheet's
// Incomplete flag records that the figures are a lower bound.
func Rollup(lines []entity.ComponentLine, header entity.CostHeader, mode RollupMode) entity.CostSheet {
	base := decimal.Zero
	incomplete := false
	for i := range lines {
		if !lines[i].Rate.Valid {
			incomplete = true
			continue
		}
		base = base.Add(lines[i].Rate.Decimal)
	}

	orderQty := header.OrderQty
	if !orderQty.IsPositive() {
		orderQty = decimal.NewFromInt(1)
	}

	fixed := header.Stitching.Add(header.Printing).Add(header.Others)

	var unitR decimal.Decimal
	switch mode {
	case AssemblyComponents:
		unitR = base.Add(fixed)
	default:
		unitR = base.Div(orderQty).Add(fixed)
	}
	totalR := unitR.Mul(orderQty)

	overhead := header.OverheadPercent()
	sheet := entity.CostSheet{
		UnitRate:     markup(unitR, overhead),
		UnitB2BRate:  markup(unitR, overhead.Add(header.B2B)),
		UnitD2CRate:  markup(unitR, overhead.Add(header.D2C)),
		TotalRate:    markup(totalR, overhead),
		TotalB2BRate: markup(totalR, overhead.Add(header.B2B)),
		TotalD2CRate: markup(totalR, overhead.Add(header.D2C)),
		Incomplete:   incomplete,
		ComputedAt:   time.Now(),
	}
	return sheet
}

var hundred = decimal.NewFromInt(100)

func markup(base, pct decimal.Decimal) decimal.Decimal {
	return base.Add(base.Mul(pct).Div(hundred))
}
