package leasing

import (
	"math"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given period of the schedule. Values are
// kept unrounded; use Rounded when emitting them.
type Payment struct {
	Period         int
	Grace          GracePeriod
	OpeningBalance float64
	Interest       float64
	Fee            float64
	Amortization   float64
	PeriodicCosts  float64
	Insurance      float64
	BuybackFee     float64
	ClosingBalance float64
	Depreciation   float64
	TaxSavings     float64
	IGV            float64
	GrossFlow      float64
	FlowWithTax    float64
	NetFlow        float64
}

// Rounded returns a copy with every monetary field rounded to cents.
func (p Payment) Rounded() Payment {
	p.OpeningBalance = mathutil.Round(p.OpeningBalance)
	p.Interest = mathutil.Round(p.Interest)
	p.Fee = mathutil.Round(p.Fee)
	p.Amortization = mathutil.Round(p.Amortization)
	p.PeriodicCosts = mathutil.Round(p.PeriodicCosts)
	p.Insurance = mathutil.Round(p.Insurance)
	p.BuybackFee = mathutil.Round(p.BuybackFee)
	p.ClosingBalance = mathutil.Round(p.ClosingBalance)
	p.Depreciation = mathutil.Round(p.Depreciation)
	p.TaxSavings = mathutil.Round(p.TaxSavings)
	p.IGV = mathutil.Round(p.IGV)
	p.GrossFlow = mathutil.Round(p.GrossFlow)
	p.FlowWithTax = mathutil.Round(p.FlowWithTax)
	p.NetFlow = mathutil.Round(p.NetFlow)
	return p
}

func (p Payment) finite() bool {
	for _, v := range []float64{
		p.OpeningBalance, p.Interest, p.Fee, p.Amortization, p.PeriodicCosts, p.Insurance,
		p.BuybackFee, p.ClosingBalance, p.Depreciation, p.TaxSavings, p.IGV,
		p.GrossFlow, p.FlowWithTax, p.NetFlow,
	} {
		if !mathutil.IsFinite(v) {
			return false
		}
	}
	return true
}

// RoundSchedule returns a rounded copy of schedule.
func RoundSchedule(schedule []Payment) []Payment {
	rounded := make([]Payment, len(schedule))
	for i, p := range schedule {
		rounded[i] = p.Rounded()
	}
	return rounded
}

// NormalizeGracePeriods returns a grace classification of exactly
// periodCount entries whose last entry is GraceNone. The caller supplies
// either the first periodCount-1 classifications or all of them; any other
// length is a configuration error. A minimum-length schedule also accepts an
// empty classification, its only free period then having no grace.
func NormalizeGracePeriods(grace []GracePeriod, periodCount int) ([]GracePeriod, error) {
	if periodCount < constants.MinPeriodCount {
		return nil, configErrorf("leasing must span at least %d periods, got %d", constants.MinPeriodCount, periodCount)
	}
	valid := len(grace) == periodCount-1 || len(grace) == periodCount ||
		(len(grace) == 0 && periodCount == constants.MinPeriodCount)
	if !valid {
		return nil, configErrorf("expected %d grace periods for %d periods, got %d",
			periodCount-1, periodCount, len(grace))
	}
	normalized := make([]GracePeriod, periodCount)
	copy(normalized, grace)
	normalized[periodCount-1] = GraceNone
	return normalized, nil
}

// ScheduleGenerator produces payment schedules for a given tax regime.
type ScheduleGenerator struct {
	logger *zap.Logger
	taxes  Taxes
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger, taxes Taxes) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger, taxes: taxes}
}

// Generate folds over the periods carrying the closing balance of each
// period into the next one and returns one Payment per period.
func (g *ScheduleGenerator) Generate(data InitialData, grace []GracePeriod) ([]Payment, error) {
	classification, err := NormalizeGracePeriods(grace, data.PeriodCount)
	if err != nil {
		return nil, err
	}

	schedule := make([]Payment, 0, data.PeriodCount)
	balance := data.LeasingAmount
	for k := 1; k <= data.PeriodCount; k++ {
		payment := g.period(data, k, classification[k-1], balance)
		if !payment.finite() {
			return nil, numericErrorf("period %d produced a non-finite value", k)
		}
		g.logger.Debug("computed period",
			zap.String("op", "leasing.Generate"),
			zap.Int("period", k),
			zap.Stringer("grace", payment.Grace),
			zap.Float64("fee", payment.Fee),
			zap.Float64("closingBalance", payment.ClosingBalance),
		)
		schedule = append(schedule, payment)
		balance = payment.ClosingBalance
	}
	return schedule, nil
}

// period computes period k from its opening balance alone.
func (g *ScheduleGenerator) period(data InitialData, k int, grace GracePeriod, opening float64) Payment {
	rate := data.InterestRatePerPeriod
	p := Payment{
		Period:         k,
		Grace:          grace,
		OpeningBalance: opening,
		Interest:       -rate * opening,
		PeriodicCosts:  data.PeriodicCosts,
		Insurance:      data.InsuranceAmount,
		Depreciation:   data.Depreciation,
	}

	switch grace {
	case GraceTotal:
		p.ClosingBalance = opening - p.Interest
	case GracePartial:
		p.Fee = p.Interest
		p.ClosingBalance = opening
	default:
		p.Fee = frenchFee(opening, rate, data.PeriodCount-k+1)
		p.Amortization = p.Fee - p.Interest
		p.ClosingBalance = opening + p.Amortization
	}

	if k == data.PeriodCount {
		p.BuybackFee = data.BuybackFee
	}

	p.TaxSavings = (p.Interest + p.Insurance + p.PeriodicCosts + p.Depreciation) * g.taxes.IncomeTax
	p.GrossFlow = p.Fee + p.Insurance + p.PeriodicCosts + p.BuybackFee
	p.IGV = p.GrossFlow * g.taxes.IGV
	p.FlowWithTax = p.GrossFlow + p.IGV
	p.NetFlow = p.GrossFlow - p.TaxSavings
	return p
}

// frenchFee is the constant installment that amortizes balance over the
// remaining periods. It is negative, following the outflow convention.
func frenchFee(balance, rate float64, remaining int) float64 {
	if rate == 0 {
		return -balance / float64(remaining)
	}
	growth := math.Pow(1+rate, float64(remaining))
	return -(growth * balance * rate) / (growth - 1)
}
