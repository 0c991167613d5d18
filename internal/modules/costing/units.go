package costing

import "github.com/shopspring/decimal"

// Conversion constants. 39.37 inches per meter is the trade convention used on
// cutting-room spec sheets, so roll lengths priced per meter and consumption
// reported in meters both go through it.
var (
	inchesPerMeter   = decimal.NewFromFloat(39.37)
	gramsPerKilogram = decimal.NewFromInt(1000)
)

// Length is a physical length tagged with its unit.
type Length struct {
	inches decimal.Decimal
}

// Inches builds a Length from a value in inches.
func Inches(v decimal.Decimal) Length {
	return Length{inches: v}
}

// Meters builds a Length from a value in meters.
func Meters(v decimal.Decimal) Length {
	return Length{inches: v.Mul(inchesPerMeter)}
}

// InInches returns the length in inches.
func (l Length) InInches() decimal.Decimal { return l.inches }

// InMeters returns the length in meters.
func (l Length) InMeters() decimal.Decimal { return l.inches.Div(inchesPerMeter) }

// Weight is a physical weight tagged with its unit.
type Weight struct {
	grams decimal.Decimal
}

// Grams builds a Weight from a value in grams.
func Grams(v decimal.Decimal) Weight {
	return Weight{grams: v}
}

// Kilograms builds a Weight from a value in kilograms.
func Kilograms(v decimal.Decimal) Weight {
	return Weight{grams: v.Mul(gramsPerKilogram)}
}

// InGrams returns the weight in grams.
func (w Weight) InGrams() decimal.Decimal { return w.grams }

// InKilograms returns the weight in kilograms.
func (w Weight) InKilograms() decimal.Decimal { return w.grams.Div(gramsPerKilogram) }
