package finance

import (
	"math"

	"github.com/iwvelando/wealth-math/pkg/loans"
)

// EquityProjection is the projected state of a mortgaged property.
type EquityProjection struct {
	FutureValue       float64
	RemainingMortgage float64
	// Equity is FutureValue less RemainingMortgage, never below 0.
	Equity float64
}

// ProjectRealEstate projects a mortgaged property yearsAtHorizon years after
// its purchase. The mortgage principal is purchaseCost less downpayment and
// the property appreciates from its purchase cost.
func ProjectRealEstate(purchaseCost, downpayment, appreciationPercent, mortgageRatePercent, loanTermYears, yearsAtHorizon float64) EquityProjection {
	futureValue := FutureValue(purchaseCost, appreciationPercent, yearsAtHorizon)
	remaining := loans.RemainingBalance(purchaseCost-downpayment, mortgageRatePercent, loanTermYears, yearsAtHorizon)

	return EquityProjection{
		FutureValue:       futureValue,
		RemainingMortgage: remaining,
		Equity:            math.Max(0, futureValue-remaining),
	}
}
