// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for leasing-calc.
type Configuration struct {
	Leasing Leasing       `json:"leasing" yaml:"leasing"`
	Taxes   TaxConfig     `json:"taxes,omitempty" yaml:"taxes,omitempty"`
	Logging LoggingConfig `json:"-" yaml:"logging,omitempty"`
	Output  OutputConfig  `json:"-" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// TaxConfig overrides the default IGV and income tax percentages.
type TaxConfig struct {
	IGV       *float64 `json:"igv,omitempty" yaml:"igv,omitempty"`
	IncomeTax *float64 `json:"incomeTax,omitempty" yaml:"incomeTax,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// TaxRates returns the configured taxes as fractions, falling back to the
// Peruvian defaults.
func (c *Configuration) TaxRates() leasing.Taxes {
	taxes := leasing.DefaultTaxes()
	if c.Taxes.IGV != nil {
		taxes.IGV = percent(*c.Taxes.IGV)
	}
	if c.Taxes.IncomeTax != nil {
		taxes.IncomeTax = percent(*c.Taxes.IncomeTax)
	}
	return taxes
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	terms, err := c.Leasing.ToTerms()
	if err != nil {
		return []string{err.Error()}
	}

	warnings := leasing.Warnings(terms)

	periods, err := leasing.PeriodCount(terms.LeasingYears, terms.PaymentFrequencyDays)
	given := len(c.Leasing.GracePeriods)
	if err == nil && given > 0 && given < periods-1 {
		warnings = append(warnings, fmt.Sprintf(
			"%d grace periods given for %d periods; the remaining periods have no grace",
			given, periods))
	}

	return warnings
}
