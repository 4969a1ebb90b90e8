package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		code     string
		expected string
	}{
		{"soles", 1234.5, "PEN", "S/1,234.50"},
		{"negative soles", -641.08, "PEN", "-S/641.08"},
		{"dollars", 1234567.891, "USD", "$1,234,567.89"},
		{"lowercase code", 10, "usd", "$10.00"},
		{"missing code defaults to soles", 0, "", "S/0.00"},
		{"unknown code", 5, "EUR", "EUR 5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, tt.code); got != tt.expected {
				t.Errorf("Currency(%v, %q) = %q, expected %q", tt.amount, tt.code, got, tt.expected)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		prefix   string
		expected string
	}{
		{0, "", "0.00"},
		{999.999, "", "1,000.00"},
		{-12345.6, "", "-12,345.60"},
		{-0.004, "$", "$0.00"},
		{1.005, "S/", "S/1.01"},
	}

	for _, tt := range tests {
		if got := Amount(tt.amount, tt.prefix); got != tt.expected {
			t.Errorf("Amount(%v, %q) = %q, expected %q", tt.amount, tt.prefix, got, tt.expected)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		fraction float64
		decimals int
		expected string
	}{
		{0.123456, 4, "12.3456%"},
		{0.18, 0, "18%"},
		{-0.05, 2, "-5.00%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.fraction, tt.decimals); got != tt.expected {
			t.Errorf("Percent(%v, %d) = %q, expected %q", tt.fraction, tt.decimals, got, tt.expected)
		}
	}
}
