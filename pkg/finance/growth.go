// Package finance provides the valuation primitives used by projections:
// compound growth, inflation discounting, real-estate equity and
// depreciation.
package finance

import (
	"math"

	"github.com/iwvelando/wealth-math/pkg/mathutil"
)

// FutureValue compounds amount at cagrPercent per year for the given number of
// years. Years may be fractional or negative; the result is not floored.
func FutureValue(amount, cagrPercent, years float64) float64 {
	return amount * math.Pow(1+mathutil.PercentToFraction(cagrPercent), years)
}

// InflationAdjusted discounts a nominal amount received after the given number
// of years into present-day purchasing power.
func InflationAdjusted(nominal, inflationRatePercent, years float64) float64 {
	return nominal / math.Pow(1+mathutil.PercentToFraction(inflationRatePercent), years)
}
