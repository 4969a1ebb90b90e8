// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/leasing-calc/internal/config"
	"github.com/iwvelando/leasing-calc/pkg/frequency"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/rates"
)

// SampleTerms returns a 10000 PEN contract with a 20% initial fee, paid
// monthly over one year at an effective 2% monthly rate.
func SampleTerms() leasing.Terms {
	return leasing.Terms{
		SellingPrice:         10000,
		InitialFeePercent:    0.20,
		Currency:             "PEN",
		PaymentFrequencyDays: frequency.Monthly,
		LeasingYears:         1,
		Rate: leasing.InterestRate{
			Value:         0.02,
			Type:          rates.Effective,
			FrequencyDays: frequency.Monthly,
		},
		Discount: leasing.DiscountRates{Ks: 0.10, WACC: 0.08},
	}
}

// NoGrace returns a grace classification with no grace for every period
// but the last of a schedule with the given period count.
func NoGrace(periodCount int) []leasing.GracePeriod {
	return make([]leasing.GracePeriod, periodCount-1)
}

// SampleLeasing returns the configuration form of a contract with extra
// costs, a buyback option and one period of total grace.
func SampleLeasing() config.Leasing {
	return config.Leasing{
		Name:                 "Delivery van",
		SellingPrice:         50000,
		PercentageInitialFee: 10,
		Currency:             "PEN",
		LeasingTime:          2,
		PaymentFrequency:     "monthly",
		RateValue:            12,
		RateFrequency:        "annually",
		RateType:             "effective",
		Buyback:              true,
		BuybackType:          "percent",
		BuybackValue:         1,
		KsRate:               15,
		WaccRate:             10,
		Extras: []config.ExtraCost{
			{Name: "notary", ValueType: "amount", Value: 250, ExpenseType: "initial"},
			{Name: "commission", ValueType: "amount", Value: 15, ExpenseType: "periodic"},
			{Name: "insurance", ValueType: "percent", Value: 0.3, ExpenseType: "periodic"},
		},
		GracePeriods: []string{"total"},
	}
}

// FindPayment returns the payment for a period, or nil if it is absent.
func FindPayment(schedule []leasing.Payment, period int) *leasing.Payment {
	for i := range schedule {
		if schedule[i].Period == period {
			return &schedule[i]
		}
	}
	return nil
}
