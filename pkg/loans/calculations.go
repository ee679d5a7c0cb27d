// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the aggregated values for one year of a loan schedule.
type Payment struct {
	Year               int     `json:"year"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Terms describes a fixed-rate amortizing loan.
type Terms struct {
	Name              string
	Principal         float64
	AnnualRatePercent float64
	TermYears         float64
}

func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// MonthlyPayment calculates the monthly payment for a loan using the standard
// amortization formula.
func MonthlyPayment(principal, annualRatePercent, termYears float64) float64 {
	if termYears <= 0 {
		return 0
	}
	totalMonths := termYears * constants.MonthsPerYear
	if annualRatePercent == 0 {
		// For zero interest, simply divide the principal by term
		return principal / totalMonths
	}

	r := monthlyRate(annualRatePercent)
	power := math.Pow(1+r, totalMonths)
	return principal * r * power / (power - 1)
}

// InterestPayment calculates the interest portion of a monthly payment.
func InterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * monthlyRate(annualRatePercent)
}

// RemainingBalance returns the outstanding principal of a fixed-rate loan
// after elapsedYears. Elapsed time may be fractional and may be negative for a
// loan that has not been originated yet. The result is never negative.
func RemainingBalance(principal, annualRatePercent, termYears, elapsedYears float64) float64 {
	if termYears <= 0 || elapsedYears >= termYears {
		return 0
	}
	if annualRatePercent == 0 {
		return mathutil.FloorZero(principal * (1 - elapsedYears/termYears))
	}

	r := monthlyRate(annualRatePercent)
	monthsElapsed := elapsedYears * constants.MonthsPerYear
	payment := MonthlyPayment(principal, annualRatePercent, termYears)

	growth := math.Pow(1+r, monthsElapsed)
	remaining := principal*growth - payment*(growth-1)/r

	// Overshoot near full payoff is machine error.
	return mathutil.FloorZero(remaining)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a yearly amortization schedule for a loan. Each row
// sums the monthly payments made during that loan year. A partial final year
// is emitted for terms that are not a whole number of years.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan Terms) ([]Payment, error) {
	if !isFinite(loan.TermYears) || !isFinite(loan.Principal) || !isFinite(loan.AnnualRatePercent) {
		return nil, fmt.Errorf("loan %s: terms must be finite numbers", loan.Name)
	}
	if loan.TermYears <= 0 {
		return nil, fmt.Errorf("loan %s: term must be positive, got %.2f", loan.Name, loan.TermYears)
	}
	if loan.TermYears > constants.MaxLoanTermYears {
		return nil, fmt.Errorf("loan %s: term cannot exceed %d years, got %.2f", loan.Name, constants.MaxLoanTermYears, loan.TermYears)
	}
	if loan.Principal < 0 {
		return nil, fmt.Errorf("loan %s: principal cannot be negative", loan.Name)
	}
	if loan.AnnualRatePercent < 0 {
		return nil, fmt.Errorf("loan %s: interest rate cannot be negative", loan.Name)
	}

	totalMonths := int(math.Ceil(loan.TermYears * constants.MonthsPerYear))
	monthlyPayment := MonthlyPayment(loan.Principal, loan.AnnualRatePercent, loan.TermYears)

	g.logger.Debug(fmt.Sprintf("generating schedule for loan %s with monthly payment %.2f over %d months",
		loan.Name, monthlyPayment, totalMonths),
		zap.String("op", "loans.GenerateSchedule"),
	)

	schedule := make([]Payment, 0, totalMonths/constants.MonthsPerYear+1)
	remaining := loan.Principal
	var current Payment

	for month := 1; month <= totalMonths; month++ {
		interest := InterestPayment(remaining, loan.AnnualRatePercent)
		principal := monthlyPayment - interest
		if month == totalMonths || principal > remaining {
			// Final payment clears whatever machine error is left.
			principal = remaining
		}
		remaining -= principal

		current.Payment += principal + interest
		current.Principal += principal
		current.Interest += interest
		current.RemainingPrincipal = mathutil.FloorZero(remaining)

		if month%constants.MonthsPerYear == 0 || month == totalMonths {
			current.Year = (month + constants.MonthsPerYear - 1) / constants.MonthsPerYear
			schedule = append(schedule, current)
			current = Payment{}
		}
	}

	return schedule, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
