// Package profitability evaluates leasing cash-flow vectors: net present
// value, internal rate of return and the effective annual cost (TCEA).
package profitability

import (
	"fmt"
	"math"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/mathutil"
)

// ErrNoConvergence is returned when no internal rate of return can be found.
var ErrNoConvergence = fmt.Errorf("%w: internal rate of return did not converge", leasing.ErrNumeric)

// Report holds the indicators for the gross and net flow vectors. Rates are
// per period for the IRRs and annual for the TCEAs.
type Report struct {
	GrossTCEA float64
	NetTCEA   float64
	GrossNPV  float64
	NetNPV    float64
	GrossIRR  float64
	NetIRR    float64
}

// PresentValue discounts flows[i] by (1+rate)^i and sums them.
func PresentValue(flows []float64, rate float64) float64 {
	total := 0.0
	for i, flow := range flows {
		total += flow / math.Pow(1+rate, float64(i))
	}
	return total
}

func presentValueDerivative(flows []float64, rate float64) float64 {
	total := 0.0
	for i, flow := range flows {
		if i == 0 {
			continue
		}
		total -= float64(i) * flow / math.Pow(1+rate, float64(i+1))
	}
	return total
}

// InternalRateOfReturn finds the per-period rate at which the present value
// of flows is zero. Newton's method runs first from a 1% seed; when it
// diverges the root is bracketed and bisected.
func InternalRateOfReturn(flows []float64) (float64, error) {
	if !hasSignChange(flows) {
		return 0, fmt.Errorf("%w: cash flows have no sign change", ErrNoConvergence)
	}

	if rate, ok := newton(flows, constants.IRRGuess); ok {
		return rate, nil
	}
	return bisect(flows)
}

func hasSignChange(flows []float64) bool {
	positive, negative := false, false
	for _, flow := range flows {
		if flow > 0 {
			positive = true
		} else if flow < 0 {
			negative = true
		}
	}
	return positive && negative
}

func newton(flows []float64, guess float64) (float64, bool) {
	rate := guess
	for i := 0; i < constants.IRRMaxIterations; i++ {
		value := PresentValue(flows, rate)
		slope := presentValueDerivative(flows, rate)
		if slope == 0 || !mathutil.IsFinite(value) || !mathutil.IsFinite(slope) {
			return 0, false
		}
		next := rate - value/slope
		if !mathutil.IsFinite(next) || next <= -1 {
			return 0, false
		}
		if math.Abs(next-rate) < constants.IRRTolerance {
			return next, true
		}
		rate = next
	}
	return 0, false
}

// bisect searches (-1, hi] for a sign change of the present value, doubling
// hi until one is found.
func bisect(flows []float64) (float64, error) {
	lo, hi := -1+1e-9, 1.0
	fLo := PresentValue(flows, lo)
	fHi := PresentValue(flows, hi)
	for fLo*fHi > 0 {
		hi *= 2
		if hi > 1e6 {
			return 0, ErrNoConvergence
		}
		fHi = PresentValue(flows, hi)
	}

	for i := 0; i < constants.IRRMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := PresentValue(flows, mid)
		if fMid == 0 || (hi-lo)/2 < constants.IRRTolerance {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, ErrNoConvergence
}

// EffectiveAnnualCost annualizes a per-period rate.
func EffectiveAnnualCost(irr, annualPaymentCount float64) float64 {
	return math.Pow(1+irr, annualPaymentCount) - 1
}

// Evaluate computes the NPVs at the per-period discount rates and the IRR and
// TCEA of both flow vectors.
func Evaluate(gross, net []float64, ksPerPeriod, waccPerPeriod, annualPaymentCount float64) (Report, error) {
	grossIRR, err := InternalRateOfReturn(gross)
	if err != nil {
		return Report{}, fmt.Errorf("gross flows: %w", err)
	}
	netIRR, err := InternalRateOfReturn(net)
	if err != nil {
		return Report{}, fmt.Errorf("net flows: %w", err)
	}

	return Report{
		GrossTCEA: EffectiveAnnualCost(grossIRR, annualPaymentCount),
		NetTCEA:   EffectiveAnnualCost(netIRR, annualPaymentCount),
		GrossNPV:  PresentValue(gross, ksPerPeriod),
		NetNPV:    PresentValue(net, waccPerPeriod),
		GrossIRR:  grossIRR,
		NetIRR:    netIRR,
	}, nil
}
