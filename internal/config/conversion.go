// Package config defines conversion utilities for configuration objects.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/frequency"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/mathutil"
	"github.com/iwvelando/leasing-calc/pkg/rates"
)

func percent(value float64) float64 {
	return mathutil.PercentToFraction(value)
}

// ToTerms converts the user-facing leasing configuration into the contract
// terms consumed by the leasing engine. Every error wraps
// leasing.ErrConfiguration.
func (l *Leasing) ToTerms() (leasing.Terms, error) {
	paymentDays, err := frequencyDays("paymentFrequency", l.PaymentFrequency)
	if err != nil {
		return leasing.Terms{}, err
	}
	rateDays, err := frequencyDays("rateFrequency", l.RateFrequency)
	if err != nil {
		return leasing.Terms{}, err
	}
	capitalizationDays := 0
	if strings.TrimSpace(l.CapitalizationFrequency) != "" {
		capitalizationDays, err = frequencyDays("capitalizationFrequency", l.CapitalizationFrequency)
		if err != nil {
			return leasing.Terms{}, err
		}
	}
	rateType, err := rates.ParseType(l.RateType)
	if err != nil {
		return leasing.Terms{}, fmt.Errorf("%w: %w", leasing.ErrConfiguration, err)
	}

	terms := leasing.Terms{
		SellingPrice:         l.SellingPrice,
		InitialFeePercent:    percent(l.PercentageInitialFee),
		Currency:             strings.ToUpper(strings.TrimSpace(l.Currency)),
		PaymentFrequencyDays: paymentDays,
		LeasingYears:         l.LeasingTime,
		Rate: leasing.InterestRate{
			Value:              percent(l.RateValue),
			Type:               rateType,
			FrequencyDays:      rateDays,
			CapitalizationDays: capitalizationDays,
		},
		Discount: leasing.DiscountRates{
			Ks:   percent(l.KsRate),
			WACC: percent(l.WaccRate),
		},
	}

	if l.Buyback {
		kind := leasing.NumericKind("")
		if strings.TrimSpace(l.BuybackType) != "" {
			kind, err = parseKind(l.BuybackType)
			if err != nil {
				return leasing.Terms{}, fmt.Errorf("buybackType: %w", err)
			}
		}
		terms.Buyback = leasing.Buyback{Enabled: true, Kind: kind, Value: kindValue(kind, l.BuybackValue)}
	}

	for _, extra := range l.Extras {
		kind, err := parseKind(extra.ValueType)
		if err != nil {
			return leasing.Terms{}, fmt.Errorf("extra %q: %w", extra.Name, err)
		}
		timing, err := parseTiming(extra.ExpenseType)
		if err != nil {
			return leasing.Terms{}, fmt.Errorf("extra %q: %w", extra.Name, err)
		}
		terms.ExtraCosts = append(terms.ExtraCosts, leasing.ExtraCost{
			Name:   extra.Name,
			Kind:   kind,
			Timing: timing,
			Value:  kindValue(kind, extra.Value),
		})
	}

	return terms, nil
}

// GraceSchedule parses the configured grace periods into one classification
// per period except the last, the length the schedule generator requires.
// Hand-written configurations may list only the leading grace periods or
// omit the list; the remaining periods are filled with no grace here, and
// ValidateConfiguration reports a short list.
func (l *Leasing) GraceSchedule() ([]leasing.GracePeriod, error) {
	paymentDays, err := frequencyDays("paymentFrequency", l.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	periods, err := leasing.PeriodCount(l.LeasingTime, paymentDays)
	if err != nil {
		return nil, err
	}
	if len(l.GracePeriods) > periods {
		return nil, fmt.Errorf("%w: %d grace periods given for %d periods",
			leasing.ErrConfiguration, len(l.GracePeriods), periods)
	}

	grace := make([]leasing.GracePeriod, periods-1)
	for i, value := range l.GracePeriods {
		parsed, err := leasing.ParseGracePeriod(value)
		if err != nil {
			return nil, fmt.Errorf("grace period %d: %w", i+1, err)
		}
		if i < len(grace) {
			grace[i] = parsed
		}
	}
	return grace, nil
}

// FromTerms builds the user-facing configuration for terms, the inverse of
// ToTerms.
func FromTerms(name string, terms leasing.Terms, grace []leasing.GracePeriod) Leasing {
	l := Leasing{
		Name:                 name,
		SellingPrice:         terms.SellingPrice,
		PercentageInitialFee: mathutil.FractionToPercent(terms.InitialFeePercent),
		Currency:             terms.Currency,
		LeasingTime:          terms.LeasingYears,
		PaymentFrequency:     frequency.Name(terms.PaymentFrequencyDays),
		RateValue:            mathutil.FractionToPercent(terms.Rate.Value),
		RateFrequency:        frequency.Name(terms.Rate.FrequencyDays),
		RateType:             string(terms.Rate.Type),
		KsRate:               mathutil.FractionToPercent(terms.Discount.Ks),
		WaccRate:             mathutil.FractionToPercent(terms.Discount.WACC),
	}
	if terms.Rate.CapitalizationDays > 0 {
		l.CapitalizationFrequency = frequency.Name(terms.Rate.CapitalizationDays)
	}
	if terms.Buyback.Enabled {
		l.Buyback = true
		l.BuybackType = string(terms.Buyback.Kind)
		l.BuybackValue = userValue(terms.Buyback.Kind, terms.Buyback.Value)
	}
	for _, cost := range terms.ExtraCosts {
		l.Extras = append(l.Extras, ExtraCost{
			Name:        cost.Name,
			ValueType:   string(cost.Kind),
			Value:       userValue(cost.Kind, cost.Value),
			ExpenseType: string(cost.Timing),
		})
	}
	for _, g := range grace {
		l.GracePeriods = append(l.GracePeriods, g.String())
	}
	return l
}

func frequencyDays(field, value string) (int, error) {
	days, err := frequency.ToDays(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", leasing.ErrConfiguration, field, err)
	}
	return days, nil
}

func parseKind(value string) (leasing.NumericKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "amount", "monetary", "monetario":
		return leasing.KindAmount, nil
	case "percent", "percentage", "porcentual":
		return leasing.KindPercent, nil
	}
	return "", fmt.Errorf("%w: unknown value type %q", leasing.ErrConfiguration, value)
}

func parseTiming(value string) (leasing.Timing, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "initial", "one-time", "inicial":
		return leasing.TimingInitial, nil
	case "periodic", "recurring", "periodico", "periódico":
		return leasing.TimingPeriodic, nil
	}
	return "", fmt.Errorf("%w: unknown expense type %q", leasing.ErrConfiguration, value)
}

func kindValue(kind leasing.NumericKind, value float64) float64 {
	if kind == leasing.KindPercent {
		return percent(value)
	}
	return value
}

func userValue(kind leasing.NumericKind, value float64) float64 {
	if kind == leasing.KindPercent {
		return mathutil.FractionToPercent(value)
	}
	return value
}
