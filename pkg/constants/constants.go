// Package constants provides shared constants for the leasing-calc application.
package constants

// Financial constants
const (
	// DaysPerYear is the commercial year used to size periods and annualize rates.
	DaysPerYear = 360

	// DecimalPlaces is the number of decimals kept for currency amounts.
	DecimalPlaces = 2

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// MinPeriodCount is the smallest schedule the generator accepts.
	MinPeriodCount = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Peruvian tax defaults, expressed as fractions.
const (
	// DefaultIGV is the value-added tax rate.
	DefaultIGV = 0.18

	// DefaultIncomeTax is the corporate income tax rate driving the tax shield.
	DefaultIncomeTax = 0.30
)

// Root finding
const (
	// IRRGuess is the per-period seed for the internal rate of return search.
	IRRGuess = 0.01

	// IRRMaxIterations bounds both the Newton and the bisection phases.
	IRRMaxIterations = 200

	// IRRTolerance is the step size under which the search is considered converged.
	IRRTolerance = 1e-10
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Currency codes
const (
	CurrencyPEN = "PEN"
	CurrencyUSD = "USD"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultDatabasePath is the SQLite file holding saved leasing contracts.
	DefaultDatabasePath = "leasings.db"

	// DefaultCacheTTLSeconds is how long computed reports stay in the cache.
	DefaultCacheTTLSeconds = 3600

	// DefaultListLimit and MaxListLimit bound paginated leasing listings.
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
