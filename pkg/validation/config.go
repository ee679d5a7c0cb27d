// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/datetime"
)

// ValidateMaturity checks whether a loan starting at startDate is still
// outstanding after yearsToRetirement years from now.
func ValidateMaturity(name, startDate string, termYears float64, now time.Time, yearsToRetirement float64) (string, error) {
	start, err := datetime.ParseDate(startDate)
	if err != nil {
		return "", err
	}

	yearsAtRetirement := datetime.YearsBetween(start, now) + yearsToRetirement
	if yearsAtRetirement < termYears {
		return fmt.Sprintf("%s is still outstanding at retirement (%.1f of %.1f years repaid)",
			name, maxFloat(0, yearsAtRetirement), termYears), nil
	}

	return "", nil
}

// ValidateReferenceDate checks that an instrument is not dated in the future.
func ValidateReferenceDate(name, date string, now time.Time) string {
	if date == "" {
		return ""
	}
	t, err := datetime.ParseDate(date)
	if err != nil {
		return ""
	}
	if t.After(datetime.Today(now)) {
		return fmt.Sprintf("%s is dated in the future (%s > %s)", name, date, now.Format(datetime.DateLayout))
	}
	return ""
}

// ValidateDepreciationRate flags rates that wipe out the asset immediately.
func ValidateDepreciationRate(name string, rate float64) string {
	if rate >= constants.PercentageMultiplier {
		return fmt.Sprintf("%s has a depreciation rate of %.0f%%, its value is treated as 0", name, rate)
	}
	return ""
}

// ConfigValidator gathers the facts needed to warn about a configuration.
type ConfigValidator struct {
	Now time.Time
	// YearsToRetirement is nil while no horizon is known.
	YearsToRetirement *float64
	Instruments       []InstrumentInfo
}

// InstrumentInfo is the validation view of a configured instrument.
type InstrumentInfo struct {
	Name             string
	Type             string
	Date             string
	TermYears        float64
	Financed         bool
	DepreciationRate float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	for _, inst := range cv.Instruments {
		label := fmt.Sprintf("%s '%s'", inst.Type, inst.Name)

		if warning := ValidateReferenceDate(label, inst.Date, cv.Now); warning != "" {
			warnings = append(warnings, warning)
		}

		if inst.Financed && inst.TermYears > 0 && cv.YearsToRetirement != nil {
			warning, err := ValidateMaturity(label, inst.Date, inst.TermYears, cv.Now, *cv.YearsToRetirement)
			if err == nil && warning != "" {
				warnings = append(warnings, warning)
			}
		}

		if warning := ValidateDepreciationRate(label, inst.DepreciationRate); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
