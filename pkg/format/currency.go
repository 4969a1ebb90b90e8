// Package format renders amounts and rates for people to read.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Symbol returns the display symbol for a currency code. Unknown codes are
// returned as-is.
func Symbol(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case constants.CurrencyPEN, "":
		return "S/"
	case constants.CurrencyUSD:
		return "$"
	}
	return strings.ToUpper(strings.TrimSpace(code)) + " "
}

// Currency returns an amount with its symbol and thousands separators,
// "-S/1,234.56" for PEN or "$1,234.56" for USD.
func Currency(amount float64, code string) string {
	return Amount(amount, Symbol(code))
}

// Amount groups thousands and keeps two decimals, placing the sign before
// the optional prefix.
func Amount(amount float64, prefix string) string {
	rounded := mathutil.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + prefix + printer.Sprintf("%.2f", math.Abs(rounded))
}

// Percent renders a fraction as a percentage with the given decimals
// (Percent(0.123456, 4) is "12.3456%").
func Percent(fraction float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, fraction*constants.PercentageMultiplier)
}
