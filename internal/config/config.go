// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating the config.
package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/iwvelando/wealth-math/internal/logging"
	"github.com/iwvelando/wealth-math/internal/portfolio"
	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for wealth-math.
type Configuration struct {
	Profile     Profile            `yaml:"profile" json:"profile"`
	Instruments []InstrumentConfig `yaml:"instruments" json:"instruments" validate:"dive"`
	Logging     LoggingConfig      `yaml:"logging,omitempty" json:"-"`
	Output      OutputConfig       `yaml:"output,omitempty" json:"-"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig = logging.Config

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Profile describes the person whose wealth is projected.
type Profile struct {
	Currency    string `yaml:"currency,omitempty" json:"currency,omitempty" validate:"omitempty,iso4217"`
	DateOfBirth string `yaml:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty" validate:"omitempty,isodate"`
	// RetirementAge of 0 picks a default from the current age.
	RetirementAge int `yaml:"retirementAge,omitempty" json:"retirementAge,omitempty" validate:"gte=0,lte=150"`
	// YearsToRetirement overrides the horizon derived from DateOfBirth.
	YearsToRetirement *float64 `yaml:"yearsToRetirement,omitempty" json:"yearsToRetirement,omitempty" validate:"omitempty,gte=0"`
	InflationRate     *float64 `yaml:"inflationRate,omitempty" json:"inflationRate,omitempty" validate:"omitempty,gte=0"`
}

// InstrumentConfig is the flat record an instrument is entered as. Which
// fields apply depends on Type.
type InstrumentConfig struct {
	ID   string `yaml:"id,omitempty" json:"id,omitempty"`
	Type string `yaml:"type" json:"type" validate:"required,instrument_type"`
	Name string `yaml:"name" json:"name" validate:"required"`
	Date string `yaml:"date,omitempty" json:"date,omitempty" validate:"omitempty,isodate"`

	// Portfolio and gold
	Amount float64  `yaml:"amount,omitempty" json:"amount,omitempty" validate:"gte=0"`
	CAGR   *float64 `yaml:"cagr,omitempty" json:"cagr,omitempty"`

	// Real estate
	Downpayment        float64 `yaml:"downpayment,omitempty" json:"downpayment,omitempty" validate:"gte=0"`
	HouseCost          float64 `yaml:"houseCost,omitempty" json:"houseCost,omitempty" validate:"gte=0"`
	LoanTerm           float64 `yaml:"loanTerm,omitempty" json:"loanTerm,omitempty" validate:"gte=0"`
	AnnualInterestRate float64 `yaml:"annualInterestRate,omitempty" json:"annualInterestRate,omitempty" validate:"gte=0"`

	// Loan and car loan
	LoanAmount       float64 `yaml:"loanAmount,omitempty" json:"loanAmount,omitempty" validate:"gte=0"`
	LoanInterestRate float64 `yaml:"loanInterestRate,omitempty" json:"loanInterestRate,omitempty" validate:"gte=0"`
	LoanTermYears    float64 `yaml:"loanTermYears,omitempty" json:"loanTermYears,omitempty" validate:"gte=0"`

	// Car loan
	PurchaseValue    float64 `yaml:"purchaseValue,omitempty" json:"purchaseValue,omitempty" validate:"gte=0"`
	DepreciationRate float64 `yaml:"depreciationRate,omitempty" json:"depreciationRate,omitempty" validate:"gte=0"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timeToDateStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// timeToDateStringHook turns YAML timestamps back into YYYY-MM-DD strings so
// that quoted and unquoted dates decode the same way.
func timeToDateStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.String {
			return data, nil
		}
		if t, ok := data.(time.Time); ok {
			return t.Format(DateLayout), nil
		}
		return data, nil
	}
}

// ApplyDefaults fills in the profile defaults and normalizes instrument types.
func (c *Configuration) ApplyDefaults() {
	c.Profile.Currency = strings.ToUpper(strings.TrimSpace(c.Profile.Currency))
	if c.Profile.Currency == "" {
		c.Profile.Currency = constants.DefaultCurrency
	}
	if c.Profile.InflationRate == nil {
		rate := constants.DefaultInflationRate
		c.Profile.InflationRate = &rate
	}

	for i := range c.Instruments {
		c.Instruments[i].Type = strings.ToLower(strings.TrimSpace(c.Instruments[i].Type))
		if c.Instruments[i].CAGR == nil && portfolio.Kind(c.Instruments[i].Type) == portfolio.KindRealEstate {
			appreciation := defaultAppreciationRate
			c.Instruments[i].CAGR = &appreciation
		}
	}
}

// defaultAppreciationRate is the yearly appreciation (percent) assumed for real
// estate when none is configured.
const defaultAppreciationRate = 5.0

// InflationRatePercent returns the configured inflation rate, or the default.
func (p Profile) InflationRatePercent() float64 {
	if p.InflationRate == nil {
		return constants.DefaultInflationRate
	}
	return *p.InflationRate
}
