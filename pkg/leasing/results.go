package leasing

import "github.com/iwvelando/leasing-calc/pkg/mathutil"

// Results holds the schedule totals, rounded to cents.
type Results struct {
	TotalInterest      float64
	TotalAmortization  float64
	TotalInsurance     float64
	TotalPeriodicCosts float64
	BuybackFee         float64
	TotalPayment       float64
}

// Aggregate reduces a schedule into its totals. Interest capitalized under
// total grace is not part of TotalInterest.
func Aggregate(schedule []Payment, buybackFee float64) Results {
	var interest, amortization, insurance, periodic float64
	for _, p := range schedule {
		if p.Grace != GraceTotal {
			interest += p.Interest
		}
		amortization += p.Amortization
		insurance += p.Insurance
		periodic += p.PeriodicCosts
	}

	return Results{
		TotalInterest:      mathutil.Round(interest),
		TotalAmortization:  mathutil.Round(amortization),
		TotalInsurance:     mathutil.Round(insurance),
		TotalPeriodicCosts: mathutil.Round(periodic),
		BuybackFee:         mathutil.Round(buybackFee),
		TotalPayment:       mathutil.Round(interest + amortization + insurance + periodic + buybackFee),
	}
}

// GrossFlows returns the leasing amount followed by each period's gross flow.
func GrossFlows(leasingAmount float64, schedule []Payment) []float64 {
	return flows(leasingAmount, schedule, func(p Payment) float64 { return p.GrossFlow })
}

// NetFlows returns the leasing amount followed by each period's net flow.
func NetFlows(leasingAmount float64, schedule []Payment) []float64 {
	return flows(leasingAmount, schedule, func(p Payment) float64 { return p.NetFlow })
}

func flows(leasingAmount float64, schedule []Payment, pick func(Payment) float64) []float64 {
	out := make([]float64, 0, len(schedule)+1)
	out = append(out, leasingAmount)
	for _, p := range schedule {
		out = append(out, pick(p))
	}
	return out
}
