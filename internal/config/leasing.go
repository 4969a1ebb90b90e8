package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/validation"
)

// Leasing holds the contract terms in the units a user types them: money as
// amounts, rates and fees as percentages (20 means 20%) and frequencies by
// name ("monthly") or day count ("30").
type Leasing struct {
	Name                    string      `json:"name" yaml:"name"`
	SellingPrice            float64     `json:"sellingPrice" yaml:"sellingPrice"`
	PercentageInitialFee    float64     `json:"percentageInitialFee" yaml:"percentageInitialFee"`
	Currency                string      `json:"currency" yaml:"currency"`
	LeasingTime             float64     `json:"leasingTime" yaml:"leasingTime"` // years
	PaymentFrequency        string      `json:"paymentFrequency" yaml:"paymentFrequency"`
	RateValue               float64     `json:"rateValue" yaml:"rateValue"`
	RateFrequency           string      `json:"rateFrequency" yaml:"rateFrequency"`
	RateType                string      `json:"rateType" yaml:"rateType"`
	CapitalizationFrequency string      `json:"capitalizationFrequency,omitempty" yaml:"capitalizationFrequency,omitempty"`
	Buyback                 bool        `json:"buyback" yaml:"buyback"`
	BuybackType             string      `json:"buybackType,omitempty" yaml:"buybackType,omitempty"`
	BuybackValue            float64     `json:"buybackValue,omitempty" yaml:"buybackValue,omitempty"`
	KsRate                  float64     `json:"ksRate" yaml:"ksRate"`
	WaccRate                float64     `json:"waccRate" yaml:"waccRate"`
	Extras                  []ExtraCost `json:"extras,omitempty" yaml:"extras,omitempty"`
	GracePeriods            []string    `json:"gracePeriods,omitempty" yaml:"gracePeriods,omitempty"`
}

// ExtraCost is a named cost charged once at the start or every period.
type ExtraCost struct {
	Name        string  `json:"name" yaml:"name"`
	ValueType   string  `json:"valueType" yaml:"valueType"`     // amount, percent
	Value       float64 `json:"value" yaml:"value"`             // amount or percentage
	ExpenseType string  `json:"expenseType" yaml:"expenseType"` // initial, periodic
}

// FieldErrors checks each field the way the contract form does and returns
// every problem found.
func (l *Leasing) FieldErrors() []validation.FieldError {
	var c validation.Collector
	c.Add(validation.Required("name", l.Name))
	c.Add(validation.Positive("sellingPrice", l.SellingPrice))
	c.Add(validation.Percentage("percentageInitialFee", l.PercentageInitialFee))
	c.Add(validation.OneOf("currency", l.Currency, constants.CurrencyPEN, constants.CurrencyUSD))
	c.Add(validation.Positive("leasingTime", l.LeasingTime))
	c.Add(validation.Required("paymentFrequency", l.PaymentFrequency))
	c.Add(validation.Percentage("rateValue", l.RateValue))
	c.Add(validation.Required("rateFrequency", l.RateFrequency))
	c.Add(validation.OneOf("rateType", l.RateType, "effective", "nominal"))
	c.Add(validation.NonNegative("ksRate", l.KsRate))
	c.Add(validation.NonNegative("waccRate", l.WaccRate))

	if strings.EqualFold(strings.TrimSpace(l.RateType), "effective") {
		c.Add(validation.Forbidden("capitalizationFrequency",
			strings.TrimSpace(l.CapitalizationFrequency) != "", "the rate is effective"))
	}

	if l.Buyback {
		c.Add(validation.Positive("buybackValue", l.BuybackValue))
		if strings.EqualFold(strings.TrimSpace(l.BuybackType), "percent") {
			c.Add(validation.Percentage("buybackValue", l.BuybackValue))
		}
	} else {
		c.Add(validation.Forbidden("buybackType", strings.TrimSpace(l.BuybackType) != "", "buyback is disabled"))
		c.Add(validation.Forbidden("buybackValue", l.BuybackValue != 0, "buyback is disabled"))
	}
	for i, extra := range l.Extras {
		field := fmt.Sprintf("extras[%d].value", i)
		c.Add(validation.NonNegative(field, extra.Value))
		if strings.EqualFold(strings.TrimSpace(extra.ValueType), "percent") {
			c.Add(validation.Percentage(field, extra.Value))
		}
	}
	return c.Errors()
}
