package leasing

import (
	"fmt"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/frequency"
	"github.com/iwvelando/leasing-calc/pkg/mathutil"
	"github.com/iwvelando/leasing-calc/pkg/rates"
)

// InitialData holds the one-time quantities derived from the contract terms
// before the period loop starts.
type InitialData struct {
	InitialFee            float64
	NetSellingPrice       float64
	IGVFee                float64
	SellingValue          float64
	AnnualPaymentCount    float64
	PeriodCount           int
	BuybackFee            float64
	InitialCosts          float64
	PeriodicCosts         float64
	InsuranceAmount       float64
	Depreciation          float64
	LeasingAmount         float64
	InterestRatePerPeriod float64
}

// PeriodCount returns leasingYears*360/paymentDays when it is a whole number
// of at least two periods.
func PeriodCount(leasingYears float64, paymentFrequencyDays int) (int, error) {
	if paymentFrequencyDays <= 0 {
		return 0, configErrorf("payment frequency must be a positive number of days, got %d", paymentFrequencyDays)
	}
	periods := leasingYears * constants.DaysPerYear / float64(paymentFrequencyDays)
	if !mathutil.IsInteger(periods) {
		return 0, configErrorf("leasing time of %g years is not a whole number of %d-day periods (%g)",
			leasingYears, paymentFrequencyDays, periods)
	}
	count := int(periods + 0.5)
	if count < constants.MinPeriodCount {
		return 0, configErrorf("leasing must span at least %d periods, got %d", constants.MinPeriodCount, count)
	}
	return count, nil
}

// Validate rejects terms the engine cannot compute. Configuration problems
// wrap ErrConfiguration; rates at or below -100% wrap ErrNumeric.
func Validate(terms Terms, taxes Taxes) error {
	if terms.SellingPrice <= 0 {
		return configErrorf("selling price must be positive, got %g", terms.SellingPrice)
	}
	if terms.InitialFeePercent < 0 || terms.InitialFeePercent >= 1 {
		return configErrorf("initial fee must be within [0%%, 100%%), got %g%%",
			mathutil.FractionToPercent(terms.InitialFeePercent))
	}
	if terms.LeasingYears <= 0 {
		return configErrorf("leasing time must be positive, got %g", terms.LeasingYears)
	}
	if _, err := PeriodCount(terms.LeasingYears, terms.PaymentFrequencyDays); err != nil {
		return err
	}

	if err := validateRate(terms.Rate); err != nil {
		return err
	}
	if err := validateBuyback(terms.Buyback); err != nil {
		return err
	}
	for i, cost := range terms.ExtraCosts {
		if err := validateExtraCost(cost); err != nil {
			return fmt.Errorf("extra cost %d (%s): %w", i+1, cost.Name, err)
		}
	}

	if terms.Discount.Ks <= -1 || terms.Discount.WACC <= -1 {
		return numericErrorf("discount rates must be greater than -100%%")
	}
	if taxes.IGV < 0 || taxes.IncomeTax < 0 || taxes.IncomeTax >= 1 {
		return configErrorf("tax rates out of range (IGV %g, income tax %g)", taxes.IGV, taxes.IncomeTax)
	}
	return nil
}

func validateRate(rate InterestRate) error {
	if rate.FrequencyDays <= 0 {
		return configErrorf("rate frequency must be a positive number of days, got %d", rate.FrequencyDays)
	}
	switch rate.Type {
	case rates.Effective:
	case rates.Nominal:
		if rate.CapitalizationDays <= 0 {
			return fmt.Errorf("%w: %w", ErrConfiguration, rates.ErrMissingCapitalization)
		}
	default:
		return configErrorf("unknown rate type %q", rate.Type)
	}
	if rate.Value <= -1 {
		return numericErrorf("interest rate must be greater than -100%%, got %g", rate.Value)
	}
	return nil
}

func validateBuyback(buyback Buyback) error {
	if !buyback.Enabled {
		return nil
	}
	switch buyback.Kind {
	case KindAmount, KindPercent:
	case "":
		return configErrorf("buyback is enabled but has no type")
	default:
		return configErrorf("unknown buyback type %q", buyback.Kind)
	}
	if buyback.Value <= 0 {
		return configErrorf("buyback is enabled but has no value")
	}
	if buyback.Kind == KindPercent && buyback.Value > 1 {
		return configErrorf("buyback percentage cannot exceed 100%%")
	}
	return nil
}

func validateExtraCost(cost ExtraCost) error {
	if cost.Kind != KindAmount && cost.Kind != KindPercent {
		return configErrorf("unknown cost type %q", cost.Kind)
	}
	if cost.Timing != TimingInitial && cost.Timing != TimingPeriodic {
		return configErrorf("unknown cost timing %q", cost.Timing)
	}
	if cost.Value < 0 {
		return configErrorf("cost value cannot be negative")
	}
	if cost.Kind == KindPercent && cost.Value > 1 {
		return configErrorf("cost percentage cannot exceed 100%%")
	}
	return nil
}

// Warnings reports accepted but questionable terms.
func Warnings(terms Terms) []string {
	var warnings []string

	var percentCosts []string
	for _, cost := range terms.ExtraCosts {
		if cost.Timing == TimingPeriodic && cost.Kind == KindPercent {
			percentCosts = append(percentCosts, cost.Name)
		}
	}
	if len(percentCosts) > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"%d periodic percentage costs found %v; only the last one (%s) is applied as insurance",
			len(percentCosts), percentCosts, percentCosts[len(percentCosts)-1]))
	}

	if terms.Rate.Type == rates.Effective && terms.Rate.CapitalizationDays > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"capitalization frequency %s is ignored for effective rates",
			frequency.Name(terms.Rate.CapitalizationDays)))
	}

	if terms.Buyback.Enabled && terms.Buyback.Kind == KindAmount && terms.Buyback.Value >= terms.SellingPrice {
		warnings = append(warnings, "buyback amount is not lower than the selling price")
	}

	return warnings
}

// DeriveInitialData validates terms and computes the quantities the schedule
// generator consumes. Each step depends only on earlier ones.
func DeriveInitialData(terms Terms, taxes Taxes) (InitialData, error) {
	if err := Validate(terms, taxes); err != nil {
		return InitialData{}, err
	}

	var data InitialData
	data.InitialFee = terms.InitialFeePercent * terms.SellingPrice
	data.NetSellingPrice = terms.SellingPrice - data.InitialFee
	data.IGVFee = mathutil.Round(data.NetSellingPrice * taxes.IGV / (1 + taxes.IGV))
	data.SellingValue = data.NetSellingPrice - data.IGVFee
	data.AnnualPaymentCount = frequency.PeriodsPerYear(terms.PaymentFrequencyDays)

	periods, err := PeriodCount(terms.LeasingYears, terms.PaymentFrequencyDays)
	if err != nil {
		return InitialData{}, err
	}
	data.PeriodCount = periods

	data.BuybackFee = buybackFee(terms.Buyback, data.SellingValue)
	data.InitialCosts = initialCosts(terms.ExtraCosts, terms.SellingPrice)
	data.PeriodicCosts = periodicCosts(terms.ExtraCosts)
	data.InsuranceAmount = insuranceAmount(terms.ExtraCosts, data.NetSellingPrice, data.AnnualPaymentCount)
	data.Depreciation = -(data.SellingValue / float64(data.PeriodCount))
	data.LeasingAmount = data.InitialCosts + data.SellingValue

	rate, err := rates.PerPeriodRate(terms.Rate.Type, terms.Rate.Value,
		terms.Rate.FrequencyDays, terms.PaymentFrequencyDays, terms.Rate.CapitalizationDays)
	if err != nil {
		return InitialData{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if !mathutil.IsFinite(rate) || rate <= -1 {
		return InitialData{}, numericErrorf("per-period interest rate is %g", rate)
	}
	data.InterestRatePerPeriod = rate

	return data, nil
}

func buybackFee(buyback Buyback, sellingValue float64) float64 {
	if !buyback.Enabled {
		return 0
	}
	if buyback.Kind == KindAmount {
		return -buyback.Value
	}
	return -buyback.Value * sellingValue
}

func initialCosts(costs []ExtraCost, sellingPrice float64) float64 {
	total := 0.0
	for _, cost := range costs {
		if cost.Timing != TimingInitial {
			continue
		}
		if cost.Kind == KindAmount {
			total += cost.Value
		} else {
			total += cost.Value * sellingPrice
		}
	}
	return total
}

func periodicCosts(costs []ExtraCost) float64 {
	total := 0.0
	for _, cost := range costs {
		if cost.Timing == TimingPeriodic && cost.Kind == KindAmount {
			total -= cost.Value
		}
	}
	return total
}

// insuranceAmount keeps the last periodic percentage cost; Warnings flags
// contracts carrying more than one.
func insuranceAmount(costs []ExtraCost, netSellingPrice, annualPaymentCount float64) float64 {
	amount := 0.0
	for _, cost := range costs {
		if cost.Timing == TimingPeriodic && cost.Kind == KindPercent {
			amount = -(cost.Value * netSellingPrice) / annualPaymentCount
		}
	}
	return amount
}
