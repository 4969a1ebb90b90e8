package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/rates"
)

const sampleYAML = `
leasing:
  name: Delivery van
  sellingPrice: 10000
  percentageInitialFee: 20
  currency: pen
  leasingTime: 1
  paymentFrequency: monthly
  rateValue: 24
  rateFrequency: annually
  rateType: nominal
  capitalizationFrequency: monthly
  buyback: true
  buybackType: percent
  buybackValue: 1
  ksRate: 10
  waccRate: 8
  extras:
    - name: notary
      valueType: amount
      value: 150
      expenseType: initial
    - name: insurance
      valueType: percent
      value: 0.3
      expenseType: periodic
  gracePeriods: [total, partial]
taxes:
  igv: 18
  incomeTax: 29.5
logging:
  level: debug
  format: console
output:
  format: csv
`

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{name: "Valid config file", configPath: path},
		{name: "Non-existent config file", configPath: filepath.Join(dir, "nonexistent.yaml"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			if config.Leasing.Name != "Delivery van" {
				t.Errorf("Leasing.Name = %q", config.Leasing.Name)
			}
		})
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	l := config.Leasing
	if l.SellingPrice != 10000 || l.PercentageInitialFee != 20 || l.LeasingTime != 1 {
		t.Errorf("unexpected leasing values: %+v", l)
	}
	if l.PaymentFrequency != "monthly" || l.RateType != "nominal" || l.CapitalizationFrequency != "monthly" {
		t.Errorf("unexpected frequency values: %+v", l)
	}
	if !l.Buyback || l.BuybackType != "percent" || l.BuybackValue != 1 {
		t.Errorf("unexpected buyback values: %+v", l)
	}
	if len(l.Extras) != 2 || l.Extras[1].ExpenseType != "periodic" {
		t.Errorf("unexpected extras: %+v", l.Extras)
	}
	if len(l.GracePeriods) != 2 || l.GracePeriods[0] != "total" {
		t.Errorf("unexpected grace periods: %v", l.GracePeriods)
	}
	if config.Logging.Level != "debug" || config.Output.Format != "csv" {
		t.Errorf("unexpected logging/output: %+v %+v", config.Logging, config.Output)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("leasing: [unterminated")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestToTerms(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	terms, err := config.Leasing.ToTerms()
	if err != nil {
		t.Fatalf("ToTerms() error = %v", err)
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"initial fee", terms.InitialFeePercent, 0.20},
		{"rate", terms.Rate.Value, 0.24},
		{"buyback", terms.Buyback.Value, 0.01},
		{"ks", terms.Discount.Ks, 0.10},
		{"wacc", terms.Discount.WACC, 0.08},
		{"notary", terms.ExtraCosts[0].Value, 150},
		{"insurance", terms.ExtraCosts[1].Value, 0.003},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-12 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}

	if terms.Currency != "PEN" {
		t.Errorf("Currency = %q, expected PEN", terms.Currency)
	}
	if terms.PaymentFrequencyDays != 30 || terms.Rate.FrequencyDays != 360 || terms.Rate.CapitalizationDays != 30 {
		t.Errorf("unexpected day counts: %+v", terms.Rate)
	}
	if terms.Rate.Type != rates.Nominal {
		t.Errorf("Rate.Type = %q", terms.Rate.Type)
	}
	if terms.ExtraCosts[0].Timing != leasing.TimingInitial || terms.ExtraCosts[1].Kind != leasing.KindPercent {
		t.Errorf("unexpected extra costs: %+v", terms.ExtraCosts)
	}
}

func TestToTermsErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Leasing)
	}{
		{name: "unknown payment frequency", mutate: func(l *Leasing) { l.PaymentFrequency = "weekly" }},
		{name: "missing rate frequency", mutate: func(l *Leasing) { l.RateFrequency = "" }},
		{name: "unknown capitalization", mutate: func(l *Leasing) { l.CapitalizationFrequency = "hourly" }},
		{name: "unknown rate type", mutate: func(l *Leasing) { l.RateType = "flat" }},
		{name: "unknown buyback type", mutate: func(l *Leasing) { l.BuybackType = "shares" }},
		{name: "unknown expense type", mutate: func(l *Leasing) { l.Extras[0].ExpenseType = "yearly" }},
		{name: "unknown value type", mutate: func(l *Leasing) { l.Extras[0].ValueType = "ratio" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}
			tt.mutate(&config.Leasing)

			if _, err := config.Leasing.ToTerms(); !errors.Is(err, leasing.ErrConfiguration) {
				t.Errorf("ToTerms() error = %v, expected a configuration error", err)
			}
		})
	}
}

func TestGraceSchedule(t *testing.T) {
	tests := []struct {
		name     string
		grace    []string
		expected []leasing.GracePeriod
		wantErr  bool
	}{
		{
			name:     "padded with no grace",
			grace:    []string{"total", "partial"},
			expected: append([]leasing.GracePeriod{leasing.GraceTotal, leasing.GracePartial}, make([]leasing.GracePeriod, 9)...),
		},
		{
			name:     "empty",
			expected: make([]leasing.GracePeriod, 11),
		},
		{
			name:     "entry for the final period is dropped",
			grace:    []string{"no", "no", "no", "no", "no", "no", "no", "no", "no", "no", "partial", "total"},
			expected: append(make([]leasing.GracePeriod, 10), leasing.GracePartial),
		},
		{
			name:    "too many entries",
			grace:   make([]string, 13),
			wantErr: true,
		},
		{
			name:    "unknown grace",
			grace:   []string{"sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Leasing{PaymentFrequency: "monthly", LeasingTime: 1, GracePeriods: tt.grace}
			got, err := l.GraceSchedule()
			if tt.wantErr {
				if !errors.Is(err, leasing.ErrConfiguration) {
					t.Errorf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GraceSchedule() error = %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d entries, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("entry %d = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestTaxRates(t *testing.T) {
	config := &Configuration{}
	if taxes := config.TaxRates(); taxes != leasing.DefaultTaxes() {
		t.Errorf("TaxRates() = %+v, expected defaults", taxes)
	}

	ir := 29.5
	config.Taxes.IncomeTax = &ir
	taxes := config.TaxRates()
	if math.Abs(taxes.IncomeTax-0.295) > 1e-12 || taxes.IGV != 0.18 {
		t.Errorf("TaxRates() = %+v", taxes)
	}
}

func TestValidateConfiguration(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	warnings := config.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "grace periods") {
		t.Errorf("expected a single grace padding warning, got %v", warnings)
	}

	graced := config.Leasing.GracePeriods
	config.Leasing.GracePeriods = nil
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings without a grace list, got %v", warnings)
	}
	config.Leasing.GracePeriods = graced

	config.Leasing.RateType = "effective"
	config.Leasing.Extras = append(config.Leasing.Extras, ExtraCost{
		Name: "life", ValueType: "percent", Value: 0.1, ExpenseType: "periodic",
	})
	if warnings := config.ValidateConfiguration(); len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", warnings)
	}

	config.Leasing.PaymentFrequency = "never"
	if warnings := config.ValidateConfiguration(); len(warnings) != 1 {
		t.Errorf("expected the conversion error as the only warning, got %v", warnings)
	}
}

func TestFromTerms(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	terms, err := config.Leasing.ToTerms()
	if err != nil {
		t.Fatalf("ToTerms() error = %v", err)
	}
	grace, err := config.Leasing.GraceSchedule()
	if err != nil {
		t.Fatalf("GraceSchedule() error = %v", err)
	}

	back := FromTerms("copy", terms, grace)
	again, err := back.ToTerms()
	if err != nil {
		t.Fatalf("ToTerms() of exported config error = %v", err)
	}
	if again.Rate != terms.Rate || again.Buyback.Kind != terms.Buyback.Kind || len(again.ExtraCosts) != 2 {
		t.Errorf("exported config does not convert back: %+v vs %+v", again, terms)
	}
	if math.Abs(again.Buyback.Value-terms.Buyback.Value) > 1e-12 {
		t.Errorf("buyback value changed: %v vs %v", again.Buyback.Value, terms.Buyback.Value)
	}
	if len(back.GracePeriods) != 11 || back.GracePeriods[0] != "total" {
		t.Errorf("unexpected exported grace periods: %v", back.GracePeriods)
	}
}

func TestFieldErrorsConflictingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Leasing)
		field  string
	}{
		{
			name:   "effective rate with capitalization",
			mutate: func(l *Leasing) { l.RateType = "effective" },
			field:  "capitalizationFrequency",
		},
		{
			name:   "buyback type without buyback",
			mutate: func(l *Leasing) { l.Buyback = false; l.BuybackValue = 0 },
			field:  "buybackType",
		},
		{
			name:   "buyback value without buyback",
			mutate: func(l *Leasing) { l.Buyback = false; l.BuybackType = "" },
			field:  "buybackValue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}
			tt.mutate(&config.Leasing)

			errs := config.Leasing.FieldErrors()
			if len(errs) != 1 || errs[0].Field != tt.field {
				t.Errorf("FieldErrors() = %v, expected one error for %s", errs, tt.field)
			}
		})
	}

	config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	config.Leasing.Buyback = false
	config.Leasing.BuybackType = ""
	config.Leasing.BuybackValue = 0
	config.Leasing.RateType = "effective"
	config.Leasing.CapitalizationFrequency = ""
	if errs := config.Leasing.FieldErrors(); len(errs) != 0 {
		t.Errorf("expected no field errors without buyback details, got %v", errs)
	}
}

func TestFieldErrors(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if errs := config.Leasing.FieldErrors(); len(errs) != 0 {
		t.Fatalf("expected no field errors, got %v", errs)
	}

	l := config.Leasing
	l.Name = ""
	l.SellingPrice = -5
	l.Currency = "EUR"
	l.BuybackValue = 150
	l.Extras[1].Value = 120

	fields := map[string]bool{}
	for _, e := range l.FieldErrors() {
		fields[e.Field] = true
	}
	for _, want := range []string{"name", "sellingPrice", "currency", "buybackValue", "extras[1].value"} {
		if !fields[want] {
			t.Errorf("expected a field error for %s, got %v", want, fields)
		}
	}
}
