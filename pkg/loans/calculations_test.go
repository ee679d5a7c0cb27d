package loans

import (
	"math"
	"testing"

	"github.com/iwvelando/wealth-math/pkg/constants"
	"go.uber.org/zap"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRatePercent float64
		termYears         float64
		expectedRange     []float64 // [min, max] expected range
	}{
		{
			name:              "Standard 30-year mortgage",
			principal:         240000,
			annualRatePercent: 6.0,
			termYears:         30,
			expectedRange:     []float64{1438.92, 1438.93}, // 1438.92
		},
		{
			name:              "5-year car loan",
			principal:         20000,
			annualRatePercent: 4.0,
			termYears:         5,
			expectedRange:     []float64{360, 380}, // Around $368
		},
		{
			name:              "Zero interest loan",
			principal:         10000,
			annualRatePercent: 0.0,
			termYears:         5,
			expectedRange:     []float64{166.66, 166.67}, // Exactly $166.67
		},
		{
			name:              "No principal",
			principal:         0,
			annualRatePercent: 5.0,
			termYears:         5,
			expectedRange:     []float64{0, 0},
		},
		{
			name:              "High interest loan",
			principal:         10000,
			annualRatePercent: 18.0,
			termYears:         3,
			expectedRange:     []float64{360, 380}, // Around $362
		},
		{
			name:              "Non-positive term",
			principal:         10000,
			annualRatePercent: 5.0,
			termYears:         0,
			expectedRange:     []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyPayment(tt.principal, tt.annualRatePercent, tt.termYears)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("MonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualRatePercent  float64
		expected           float64
	}{
		{
			name:               "Standard mortgage interest",
			remainingPrincipal: 200000,
			annualRatePercent:  6.0,
			expected:           1000.0, // 200000 * 0.06 / 12
		},
		{
			name:               "Car loan interest",
			remainingPrincipal: 15000,
			annualRatePercent:  4.5,
			expected:           56.25, // 15000 * 0.045 / 12
		},
		{
			name:               "Zero interest",
			remainingPrincipal: 10000,
			annualRatePercent:  0.0,
			expected:           0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InterestPayment(tt.remainingPrincipal, tt.annualRatePercent)

			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("InterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestRemainingBalance(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRatePercent float64
		termYears         float64
		elapsedYears      float64
		expected          float64
	}{
		{
			name:              "30-year mortgage after 5 years",
			principal:         200000,
			annualRatePercent: 4,
			termYears:         30,
			elapsedYears:      5,
			expected:          180895.03,
		},
		{
			name:              "30-year mortgage after 10 years",
			principal:         240000,
			annualRatePercent: 6,
			termYears:         30,
			elapsedYears:      10,
			expected:          200845.74,
		},
		{
			name:              "Fractional elapsed months",
			principal:         20000,
			annualRatePercent: 5,
			termYears:         5,
			elapsedYears:      2.5,
			expected:          10622.89,
		},
		{
			name:              "Zero rate is linear",
			principal:         12000,
			annualRatePercent: 0,
			termYears:         4,
			elapsedYears:      1,
			expected:          9000,
		},
		{
			name:              "Paid off exactly at term",
			principal:         200000,
			annualRatePercent: 4,
			termYears:         30,
			elapsedYears:      30,
			expected:          0,
		},
		{
			name:              "Paid off past term",
			principal:         50000,
			annualRatePercent: 7,
			termYears:         10,
			elapsedYears:      25,
			expected:          0,
		},
		{
			name:              "Zero rate past term",
			principal:         12000,
			annualRatePercent: 0,
			termYears:         4,
			elapsedYears:      6,
			expected:          0,
		},
		{
			name:              "Non-positive term",
			principal:         12000,
			annualRatePercent: 5,
			termYears:         0,
			elapsedYears:      -1,
			expected:          0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RemainingBalance(tt.principal, tt.annualRatePercent, tt.termYears, tt.elapsedYears)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("RemainingBalance() = %.4f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestRemainingBalanceAtOrigination(t *testing.T) {
	cases := []struct {
		principal, rate, term float64
	}{
		{200000, 4, 30},
		{15000, 0, 3},
		{5000, 24, 2},
		{1, 0.5, 0.25},
	}

	for _, c := range cases {
		got := RemainingBalance(c.principal, c.rate, c.term, 0)
		if math.Abs(got-c.principal) > 1e-6*math.Max(1, c.principal) {
			t.Errorf("RemainingBalance(%v, %v, %v, 0) = %v, expected principal", c.principal, c.rate, c.term, got)
		}
		if end := RemainingBalance(c.principal, c.rate, c.term, c.term); end != 0 {
			t.Errorf("RemainingBalance(%v, %v, %v, term) = %v, expected 0", c.principal, c.rate, c.term, end)
		}
	}
}

func TestRemainingBalanceNonIncreasing(t *testing.T) {
	for _, rate := range []float64{0, 3.5, 12} {
		previous := math.Inf(1)
		for elapsed := -2.0; elapsed <= 17; elapsed += 1.0 / 12 {
			balance := RemainingBalance(100000, rate, 15, elapsed)
			if balance > previous+1e-9 {
				t.Fatalf("rate %.1f: balance increased at %.3f years (%.4f > %.4f)", rate, elapsed, balance, previous)
			}
			if balance < 0 {
				t.Fatalf("rate %.1f: negative balance %.4f at %.3f years", rate, balance, elapsed)
			}
			previous = balance
		}
	}
}

func TestRemainingBalanceZeroRateExact(t *testing.T) {
	principal, term := 36000.0, 6.0
	for _, elapsed := range []float64{0, 0.5, 1.75, 3, 5.99} {
		got := RemainingBalance(principal, 0, term, elapsed)
		want := principal * (1 - elapsed/term)
		if got != want {
			t.Errorf("RemainingBalance(zero rate, %v) = %v, expected exactly %v", elapsed, got, want)
		}
	}
}

func TestRemainingBalanceBeforeOrigination(t *testing.T) {
	got := RemainingBalance(100000, 5, 10, -1)
	if got <= 100000 {
		t.Errorf("expected balance above principal before origination, got %.2f", got)
	}
}

func TestGenerateSchedule(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	schedule, err := generator.GenerateSchedule(Terms{
		Name:              "mortgage",
		Principal:         240000,
		AnnualRatePercent: 6,
		TermYears:         30,
	})
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 30 {
		t.Fatalf("expected 30 yearly rows, got %d", len(schedule))
	}

	principalPaid := 0.0
	for i, row := range schedule {
		if row.Year != i+1 {
			t.Errorf("row %d has year %d", i, row.Year)
		}
		principalPaid += row.Principal
	}
	if math.Abs(principalPaid-240000) > 0.01 {
		t.Errorf("principal paid = %.2f, expected 240000.00", principalPaid)
	}
	if schedule[29].RemainingPrincipal != 0 {
		t.Errorf("final remaining principal = %.4f, expected 0", schedule[29].RemainingPrincipal)
	}

	// The yearly schedule agrees with the closed form at year boundaries.
	closedForm := RemainingBalance(240000, 6, 30, 10)
	if math.Abs(schedule[9].RemainingPrincipal-closedForm) > 0.01 {
		t.Errorf("year 10 remaining = %.2f, closed form = %.2f", schedule[9].RemainingPrincipal, closedForm)
	}
}

func TestGenerateSchedulePartialYear(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	schedule, err := generator.GenerateSchedule(Terms{Name: "short", Principal: 12000, AnnualRatePercent: 6, TermYears: 1.5})
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(schedule))
	}
	if schedule[1].Year != 2 {
		t.Errorf("expected partial second year, got year %d", schedule[1].Year)
	}
	if schedule[1].RemainingPrincipal != 0 {
		t.Errorf("expected loan cleared, got %.4f", schedule[1].RemainingPrincipal)
	}
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	schedule, err := generator.GenerateSchedule(Terms{Name: "family", Principal: 12000, TermYears: 2})
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(schedule))
	}
	if math.Abs(schedule[0].RemainingPrincipal-6000) > 1e-9 {
		t.Errorf("remaining after year 1 = %.2f, expected 6000", schedule[0].RemainingPrincipal)
	}
	if schedule[0].Interest != 0 {
		t.Errorf("expected no interest, got %.2f", schedule[0].Interest)
	}
}

func TestGenerateScheduleInvalidTerms(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	invalid := []Terms{
		{Name: "no term", Principal: 1000, AnnualRatePercent: 5, TermYears: 0},
		{Name: "negative principal", Principal: -1, AnnualRatePercent: 5, TermYears: 1},
		{Name: "negative rate", Principal: 1000, AnnualRatePercent: -2, TermYears: 1},
		{Name: "term past maximum", Principal: 1000, AnnualRatePercent: 5, TermYears: constants.MaxLoanTermYears + 1},
		{Name: "huge term", Principal: 1000, AnnualRatePercent: 5, TermYears: 1e300},
		{Name: "infinite term", Principal: 1000, AnnualRatePercent: 5, TermYears: math.Inf(1)},
		{Name: "NaN term", Principal: 1000, AnnualRatePercent: 5, TermYears: math.NaN()},
		{Name: "NaN principal", Principal: math.NaN(), AnnualRatePercent: 5, TermYears: 1},
	}
	for _, terms := range invalid {
		if _, err := generator.GenerateSchedule(terms); err == nil {
			t.Errorf("GenerateSchedule(%s) expected error", terms.Name)
		}
	}
}

func TestGenerateScheduleMaximumTerm(t *testing.T) {
	schedule, err := NewAmortizationScheduleGenerator(nil).GenerateSchedule(Terms{
		Name: "century", Principal: 1000, AnnualRatePercent: 5, TermYears: constants.MaxLoanTermYears,
	})
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != constants.MaxLoanTermYears {
		t.Errorf("expected %d yearly rows, got %d", constants.MaxLoanTermYears, len(schedule))
	}
}
