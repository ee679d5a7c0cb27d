package finance

import (
	"math"

	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/mathutil"
)

// DepreciatedValue returns the value of an asset losing depreciationRatePercent
// of its value per year, compounded, after yearsElapsed years. A rate of 100%
// or more wipes the value out immediately.
func DepreciatedValue(originalValue, depreciationRatePercent, yearsElapsed float64) float64 {
	if depreciationRatePercent >= constants.PercentageMultiplier {
		return 0
	}
	value := originalValue * math.Pow(1-mathutil.PercentToFraction(depreciationRatePercent), yearsElapsed)
	return mathutil.FloorZero(value)
}
