package projection_test

import (
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/wealth-math/internal/portfolio"
	"github.com/iwvelando/wealth-math/internal/projection"
	"github.com/iwvelando/wealth-math/pkg/loans"
	"github.com/iwvelando/wealth-math/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const delta = 0.01

var now = testutil.MustDate("2025-01-01")

func household() []portfolio.Instrument {
	return []portfolio.Instrument{
		portfolio.Portfolio{Meta: portfolio.Meta{ID: "pf", Name: "Index fund", Date: now, CAGR: 10}, Amount: 10000},
		portfolio.RealEstate{
			Meta:          portfolio.Meta{ID: "home", Name: "Home", Date: now, CAGR: 5},
			Downpayment:   60000,
			PurchaseCost:  300000,
			LoanTermYears: 30,
			MortgageRate:  6,
		},
		portfolio.CarLoan{
			Loan: portfolio.Loan{
				Meta:         portfolio.Meta{ID: "car", Name: "Car", Date: now},
				Principal:    25000,
				InterestRate: 7,
				TermYears:    5,
			},
			PurchaseValue:    30000,
			DepreciationRate: 15,
		},
	}
}

func TestProjectWithoutHorizon(t *testing.T) {
	result := projection.Project(household(), nil, 3, now)
	assert.Nil(t, result.ProjectedAssets)
	assert.Nil(t, result.InflationAdjustedAssets)
	assert.Nil(t, result.ProjectedLiabilities)
	assert.Empty(t, result.Contributions)
}

func TestProjectEmptyCollection(t *testing.T) {
	result := projection.Project(nil, projection.Years(20), 3, now)
	require.NotNil(t, result.ProjectedAssets)
	assert.Equal(t, 0.0, *result.ProjectedAssets)
	assert.Equal(t, 0.0, *result.InflationAdjustedAssets)
	assert.Equal(t, 0.0, *result.ProjectedLiabilities)
}

func TestProjectPortfolioGrowthAndInflation(t *testing.T) {
	instruments := []portfolio.Instrument{
		portfolio.Portfolio{Meta: portfolio.Meta{ID: "pf", CAGR: 10, Date: testutil.MustDate("2001-05-01")}, Amount: 10000},
	}

	result := projection.Project(instruments, projection.Years(10), 3, now)
	require.NotNil(t, result.ProjectedAssets)
	assert.InDelta(t, 25937.42, *result.ProjectedAssets, delta)
	assert.InDelta(t, 19299.88, *result.InflationAdjustedAssets, delta)
	assert.Equal(t, 0.0, *result.ProjectedLiabilities)
}

func TestProjectZeroHorizonKeepsNominalValue(t *testing.T) {
	instruments := []portfolio.Instrument{
		portfolio.Gold{Meta: portfolio.Meta{ID: "gold", CAGR: 8}, Amount: 5000},
	}

	result := projection.Project(instruments, projection.Years(0), 7, now)
	assert.Equal(t, 5000.0, *result.ProjectedAssets)
	assert.Equal(t, 5000.0, *result.InflationAdjustedAssets)
}

func TestProjectHousehold(t *testing.T) {
	result := projection.Project(household(), projection.Years(15), 3, now)

	require.NotNil(t, result.ProjectedAssets)
	assert.InDelta(t, 494933.71, *result.ProjectedAssets, delta)
	assert.InDelta(t, 317679.11, *result.InflationAdjustedAssets, delta)
	// The mortgage counts against equity and is also reported as a liability.
	assert.InDelta(t, 170517.23, *result.ProjectedLiabilities, delta)

	require.Len(t, result.Contributions, 3)
	assert.Equal(t, []string{"pf", "home", "car"}, []string{
		result.Contributions[0].ID, result.Contributions[1].ID, result.Contributions[2].ID,
	})

	home := testutil.FindContribution(result, "home")
	require.NotNil(t, home)
	assert.Equal(t, portfolio.KindRealEstate, home.Kind)
	assert.InDelta(t, 453161.23, home.Asset, delta)
	assert.InDelta(t, 170517.23, home.Liability, delta)
	assert.Nil(t, home.DepreciatedValue)

	car := testutil.FindContribution(result, "car")
	require.NotNil(t, car)
	assert.Equal(t, portfolio.KindCarLoan, car.Kind)
	assert.Equal(t, 0.0, car.Asset)
	assert.Equal(t, 0.0, car.Liability)
	require.NotNil(t, car.DepreciatedValue)
	assert.InDelta(t, 2620.63, *car.DepreciatedValue, delta)
}

func TestProjectLoanAgesFromOrigination(t *testing.T) {
	instruments := []portfolio.Instrument{
		portfolio.Loan{
			Meta:         portfolio.Meta{ID: "loan", Date: testutil.YearsBefore(now, 5)},
			Principal:    200000,
			InterestRate: 4,
			TermYears:    30,
		},
	}

	result := projection.Project(instruments, projection.Years(0), 3, now)
	assert.InDelta(t, 180895.03, *result.ProjectedLiabilities, delta)
	assert.Equal(t, 0.0, *result.ProjectedAssets)

	result = projection.Project(instruments, projection.Years(2), 3, now)
	assert.InDelta(t, 172118.94, *result.ProjectedLiabilities, delta)
	assert.InDelta(t, 180895.03, result.Contributions[0].CurrentLiability, delta,
		"the balance today does not depend on the horizon")
	assert.Nil(t, result.Contributions[0].CurrentEquity)
}

func TestProjectCurrentPosition(t *testing.T) {
	result := projection.Project(household(), projection.Years(15), 3, now)

	pf := testutil.FindContribution(result, "pf")
	require.NotNil(t, pf)
	assert.Equal(t, 0.0, pf.CurrentLiability)
	assert.Nil(t, pf.CurrentEquity)

	// Bought today: nothing repaid yet and the equity is the downpayment.
	home := testutil.FindContribution(result, "home")
	require.NotNil(t, home)
	assert.InDelta(t, 240000, home.CurrentLiability, delta)
	require.NotNil(t, home.CurrentEquity)
	assert.InDelta(t, 60000, *home.CurrentEquity, delta)

	car := testutil.FindContribution(result, "car")
	require.NotNil(t, car)
	assert.InDelta(t, 25000, car.CurrentLiability, delta)
	assert.Nil(t, car.CurrentEquity)

	// Current figures stay out of the totals.
	assert.InDelta(t, 494933.71, *result.ProjectedAssets, delta)
	assert.InDelta(t, 170517.23, *result.ProjectedLiabilities, delta)
}

func TestProjectCurrentEquityAfterPurchase(t *testing.T) {
	instruments := []portfolio.Instrument{
		portfolio.RealEstate{
			Meta:          portfolio.Meta{ID: "flat", Date: testutil.YearsBefore(now, 5), CAGR: 5},
			Downpayment:   60000,
			PurchaseCost:  300000,
			LoanTermYears: 30,
			MortgageRate:  6,
		},
	}

	result := projection.Project(instruments, projection.Years(10), 0, now)
	flat := result.Contributions[0]
	assert.InDelta(t, 223330.46, flat.CurrentLiability, delta)
	require.NotNil(t, flat.CurrentEquity)
	assert.InDelta(t, 159554.01, *flat.CurrentEquity, delta)
	assert.Less(t, flat.Liability, flat.CurrentLiability)
}

func TestProjectRepaidLoanContributesNothing(t *testing.T) {
	for _, principal := range []float64{1000, 250000, 1e7} {
		for _, rate := range []float64{0, 3.5, 18} {
			instruments := []portfolio.Instrument{
				portfolio.Loan{
					Meta:         portfolio.Meta{ID: "old", Date: testutil.MustDate("2005-01-01")},
					Principal:    principal,
					InterestRate: rate,
					TermYears:    10,
				},
			}
			result := projection.Project(instruments, projection.Years(1), 2, now)
			assert.Equal(t, 0.0, *result.ProjectedLiabilities, "principal %v rate %v", principal, rate)
		}
	}
}

func TestProjectFutureDatedLoan(t *testing.T) {
	start := testutil.YearsBefore(now, -2)
	instruments := []portfolio.Instrument{
		portfolio.Loan{Meta: portfolio.Meta{ID: "later", Date: start}, Principal: 50000, InterestRate: 5, TermYears: 10},
	}

	result := projection.Project(instruments, projection.Years(3), 0, now)
	assert.InDelta(t, loans.RemainingBalance(50000, 5, 10, 1), *result.ProjectedLiabilities, 1e-6)
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	instruments := household()
	before := household()

	projection.Project(instruments, projection.Years(12), 2.5, now)
	assert.Equal(t, before, instruments)
}

func TestProjectIsDeterministic(t *testing.T) {
	first := projection.Project(household(), projection.Years(7.5), 2.5, now)
	second := projection.Project(household(), projection.Years(7.5), 2.5, now)
	assert.Equal(t, first, second)
}

func TestProjectSkipsNilInstruments(t *testing.T) {
	instruments := append([]portfolio.Instrument{nil}, household()...)
	result := projection.Project(instruments, projection.Years(15), 3, now)
	assert.Len(t, result.Contributions, 3)
	assert.InDelta(t, 494933.71, *result.ProjectedAssets, delta)
}

func TestEngineUsesInjectedClock(t *testing.T) {
	engine := projection.NewEngine(zap.NewNop(), projection.WithClock(func() time.Time { return now }))
	assert.Equal(t, now, engine.Now())

	got := engine.Project(household(), projection.Years(15), 3)
	want := projection.Project(household(), projection.Years(15), 3, now)
	assert.Equal(t, want, got)

	assert.Nil(t, engine.Project(household(), nil, 3).ProjectedAssets)
}

func TestEngineDefaults(t *testing.T) {
	engine := projection.NewEngine(nil, projection.WithClock(nil))
	assert.WithinDuration(t, time.Now(), engine.Now(), time.Minute)
}

func TestEngineConcurrentUse(t *testing.T) {
	engine := projection.NewEngine(nil, projection.WithClock(func() time.Time { return now }))
	want := engine.Project(household(), projection.Years(15), 3)

	var wg sync.WaitGroup
	results := make([]projection.Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Project(household(), projection.Years(15), 3)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
