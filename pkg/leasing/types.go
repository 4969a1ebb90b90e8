// Package leasing derives the financing quantities of a leasing contract,
// generates its payment schedule under a per-period grace policy and reduces
// the schedule into totals and cash-flow vectors.
//
// Amounts the lessee pays are negative; rates and percentages are fractions.
package leasing

import (
	"fmt"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/rates"
)

// GracePeriod classifies how principal is repaid during one period.
type GracePeriod int

const (
	// GraceNone pays a full French installment.
	GraceNone GracePeriod = iota
	// GracePartial pays interest only.
	GracePartial
	// GraceTotal pays nothing and capitalizes the interest.
	GraceTotal
)

func (g GracePeriod) String() string {
	switch g {
	case GraceNone:
		return "no"
	case GracePartial:
		return "partial"
	case GraceTotal:
		return "total"
	}
	return fmt.Sprintf("GracePeriod(%d)", int(g))
}

// ParseGracePeriod accepts "no", "partial" and "total" along with their
// common aliases.
func ParseGracePeriod(value string) (GracePeriod, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "no", "none", "sin plazo de gracia":
		return GraceNone, nil
	case "partial", "parcial":
		return GracePartial, nil
	case "total":
		return GraceTotal, nil
	}
	return GraceNone, fmt.Errorf("%w: unknown grace period %q", ErrConfiguration, value)
}

// MarshalText implements encoding.TextMarshaler.
func (g GracePeriod) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GracePeriod) UnmarshalText(text []byte) error {
	parsed, err := ParseGracePeriod(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// NumericKind tells whether a value is a fixed amount or a percentage.
type NumericKind string

const (
	KindAmount  NumericKind = "amount"
	KindPercent NumericKind = "percent"
)

// Timing tells whether an extra cost is paid once or every period.
type Timing string

const (
	TimingInitial  Timing = "initial"
	TimingPeriodic Timing = "periodic"
)

// ExtraCost is a cost added on top of the financed price.
type ExtraCost struct {
	Name   string
	Kind   NumericKind
	Timing Timing
	Value  float64
}

// Buyback describes the purchase option exercised on the last period.
type Buyback struct {
	Enabled bool
	Kind    NumericKind
	Value   float64
}

// InterestRate is the contract rate as quoted.
type InterestRate struct {
	Value              float64
	Type               rates.Type
	FrequencyDays      int
	CapitalizationDays int
}

// DiscountRates are annual effective opportunity costs used for the NPVs.
type DiscountRates struct {
	Ks   float64
	WACC float64
}

// Terms holds the immutable inputs of a leasing contract.
type Terms struct {
	SellingPrice         float64
	InitialFeePercent    float64
	Currency             string
	PaymentFrequencyDays int
	LeasingYears         float64
	Rate                 InterestRate
	Buyback              Buyback
	Discount             DiscountRates
	ExtraCosts           []ExtraCost
}

// Taxes carries the jurisdiction-specific rates applied by the engine.
type Taxes struct {
	IGV       float64
	IncomeTax float64
}

// DefaultTaxes returns the Peruvian IGV and income tax rates.
func DefaultTaxes() Taxes {
	return Taxes{IGV: constants.DefaultIGV, IncomeTax: constants.DefaultIncomeTax}
}
