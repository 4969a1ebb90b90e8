// Package report runs the leasing pipeline end to end: initial data, payment
// schedule, totals and profitability indicators.
package report

import (
	"fmt"

	"github.com/iwvelando/leasing-calc/internal/config"
	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/profitability"
	"github.com/iwvelando/leasing-calc/pkg/rates"
	"go.uber.org/zap"
)

// Report holds everything computed for one leasing contract. The schedule is
// unrounded; round it with leasing.RoundSchedule before emitting it.
type Report struct {
	Name          string
	Terms         leasing.Terms
	Taxes         leasing.Taxes
	Initial       leasing.InitialData
	Schedule      []leasing.Payment
	Results       leasing.Results
	Profitability profitability.Report
	KsPerPeriod   float64
	WACCPerPeriod float64
	Warnings      []string
}

// Compute derives the initial data, generates the schedule and evaluates the
// gross and net flows of a contract.
func Compute(logger *zap.Logger, terms leasing.Terms, grace []leasing.GracePeriod, taxes leasing.Taxes) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := leasing.DeriveInitialData(terms, taxes)
	if err != nil {
		return nil, fmt.Errorf("failed to derive initial data: %w", err)
	}

	schedule, err := leasing.NewScheduleGenerator(logger, taxes).Generate(data, grace)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	paymentDays := float64(terms.PaymentFrequencyDays)
	ks := rates.EffectiveToEffective(terms.Discount.Ks, constants.DaysPerYear, paymentDays)
	wacc := rates.EffectiveToEffective(terms.Discount.WACC, constants.DaysPerYear, paymentDays)

	indicators, err := profitability.Evaluate(
		leasing.GrossFlows(data.LeasingAmount, schedule),
		leasing.NetFlows(data.LeasingAmount, schedule),
		ks, wacc, data.AnnualPaymentCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate profitability: %w", err)
	}

	report := &Report{
		Terms:         terms,
		Taxes:         taxes,
		Initial:       data,
		Schedule:      schedule,
		Results:       leasing.Aggregate(schedule, data.BuybackFee),
		Profitability: indicators,
		KsPerPeriod:   ks,
		WACCPerPeriod: wacc,
		Warnings:      leasing.Warnings(terms),
	}

	for _, warning := range report.Warnings {
		logger.Warn(warning, zap.String("op", "report.Compute"))
	}
	logger.Info("computed leasing report",
		zap.String("op", "report.Compute"),
		zap.Int("periods", data.PeriodCount),
		zap.Float64("leasingAmount", data.LeasingAmount),
		zap.Float64("grossTCEA", indicators.GrossTCEA),
		zap.Float64("netTCEA", indicators.NetTCEA),
	)

	return report, nil
}

// ComputeFromConfig converts a loaded configuration and computes its report.
func ComputeFromConfig(logger *zap.Logger, conf *config.Configuration) (*Report, error) {
	terms, err := conf.Leasing.ToTerms()
	if err != nil {
		return nil, err
	}
	grace, err := conf.Leasing.GraceSchedule()
	if err != nil {
		return nil, err
	}

	report, err := Compute(logger, terms, grace, conf.TaxRates())
	if err != nil {
		return nil, err
	}
	report.Name = conf.Leasing.Name
	report.Warnings = conf.ValidateConfiguration()
	return report, nil
}
