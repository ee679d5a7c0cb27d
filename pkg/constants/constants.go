// Package constants provides shared constants for the wealth-math application.
package constants

// DateLayout is the format expected for dates in config files and API
// payloads, and is also the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerJulianYear is the day count used for elapsed-time computations
	DaysPerJulianYear = 365.25

	// DecimalPrecision is the number of decimal places used for currency rounding
	DecimalPrecision = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxLoanTermYears is the longest loan term an amortization schedule is built for
	MaxLoanTermYears = 100
)

// Profile defaults
const (
	// DefaultCurrency is the currency code used when none is configured
	DefaultCurrency = "USD"

	// DefaultRetirementAge is the retirement age used when none is configured
	DefaultRetirementAge = 65

	// LateRetirementAge is the retirement age used when none is configured and
	// the user is already DefaultRetirementAge or older
	LateRetirementAge = 80

	// DefaultInflationRate is the annual inflation rate (percent) used when none is configured
	DefaultInflationRate = 3.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultServiceName identifies the server in traces and metrics
	DefaultServiceName = "wealth-math"
)
