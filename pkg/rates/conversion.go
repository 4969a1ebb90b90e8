// Package rates converts interest rates between period lengths.
//
// All rates are fractions (0.02 is 2%) and all period lengths are expressed
// in days on a 360-day commercial year.
package rates

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Type distinguishes how a contract rate is quoted.
type Type string

const (
	// Effective rates already include compounding over their quotation period.
	Effective Type = "effective"
	// Nominal rates compound at a separate capitalization frequency.
	Nominal Type = "nominal"
)

// ErrMissingCapitalization is returned when a nominal rate is converted
// without a capitalization frequency.
var ErrMissingCapitalization = errors.New("nominal rate requires a capitalization frequency")

// ParseType accepts "effective" or "nominal" in any case.
func ParseType(value string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case Effective:
		return Effective, nil
	case Nominal:
		return Nominal, nil
	}
	return "", fmt.Errorf("unknown rate type %q, expected %s or %s", value, Effective, Nominal)
}

// EffectiveToEffective converts an effective rate quoted over oldPeriodDays
// to the equivalent effective rate over newPeriodDays.
func EffectiveToEffective(rate, oldPeriodDays, newPeriodDays float64) float64 {
	return math.Pow(1+rate, newPeriodDays/oldPeriodDays) - 1
}

// NominalToEffective converts a nominal rate compounded m times per quotation
// period into the effective rate over n compounding periods.
func NominalToEffective(rate, m, n float64) float64 {
	return math.Pow(1+rate/m, n) - 1
}

// PerPeriodRate returns the effective rate for one payment period.
// capitalizationDays is only consulted for nominal rates.
func PerPeriodRate(rateType Type, rate float64, rateDays, paymentDays, capitalizationDays int) (float64, error) {
	switch rateType {
	case Effective:
		return EffectiveToEffective(rate, float64(rateDays), float64(paymentDays)), nil
	case Nominal:
		if capitalizationDays <= 0 {
			return 0, ErrMissingCapitalization
		}
		m := float64(rateDays) / float64(capitalizationDays)
		n := float64(paymentDays) / float64(capitalizationDays)
		return NominalToEffective(rate, m, n), nil
	}
	return 0, fmt.Errorf("unknown rate type %q", rateType)
}
