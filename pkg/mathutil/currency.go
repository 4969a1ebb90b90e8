// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to cents. Halves round away from zero on the decimal
// representation, so 1.005 becomes 1.01.
func Round(val float64) float64 {
	return RoundTo(val, constants.DecimalPlaces)
}

// RoundTo rounds val to the given number of decimal places.
func RoundTo(val float64, places int32) float64 {
	if !IsFinite(val) {
		return val
	}
	return decimal.NewFromFloat(val).Round(places).InexactFloat64()
}

// RoundAll rounds every element of values and returns a new slice.
func RoundAll(values []float64) []float64 {
	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = Round(v)
	}
	return rounded
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// PercentToFraction converts a user-facing percentage (18) to a fraction (0.18).
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// FractionToPercent converts a fraction (0.18) to a percentage (18).
func FractionToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}

// IsInteger reports whether val is a whole number within a small epsilon.
func IsInteger(val float64) bool {
	return IsFinite(val) && math.Abs(val-math.Round(val)) < 1e-9
}
