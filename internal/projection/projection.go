// Package projection aggregates a collection of instruments into projected
// wealth figures at a retirement horizon.
package projection

import (
	"time"

	"github.com/iwvelando/wealth-math/internal/portfolio"
	"github.com/iwvelando/wealth-math/pkg/datetime"
	"github.com/iwvelando/wealth-math/pkg/finance"
	"github.com/iwvelando/wealth-math/pkg/loans"
)

// Result holds the headline figures of a projection. The three totals are nil
// when no horizon is known.
type Result struct {
	ProjectedAssets         *float64       `json:"projectedAssets"`
	InflationAdjustedAssets *float64       `json:"inflationAdjustedAssets"`
	ProjectedLiabilities    *float64       `json:"projectedLiabilities"`
	Contributions           []Contribution `json:"contributions"`
}

// Contribution is one instrument's share of the totals. DepreciatedValue is
// only set for car loans and is never summed.
//
// CurrentLiability and CurrentEquity describe the instrument as of now rather
// than at the horizon: the outstanding balance of a loan or mortgage, and the
// equity held in real estate. Neither enters the totals.
type Contribution struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Kind             portfolio.Kind `json:"kind"`
	Asset            float64        `json:"asset"`
	Liability        float64        `json:"liability"`
	DepreciatedValue *float64       `json:"depreciatedValue,omitempty"`
	CurrentLiability float64        `json:"currentLiability"`
	CurrentEquity    *float64       `json:"currentEquity,omitempty"`
}

// Years returns a pointer to the given horizon.
func Years(v float64) *float64 {
	return &v
}

// Project values every instrument yearsToRetirement years from now. Loans and
// mortgages are aged from their own dates, so elapsed time since origination
// is added to the horizon. Real estate contributes its equity to assets and
// its outstanding mortgage to liabilities.
func Project(instruments []portfolio.Instrument, yearsToRetirement *float64, inflationRatePercent float64, now time.Time) Result {
	if yearsToRetirement == nil {
		return Result{}
	}
	horizon := *yearsToRetirement

	c := &contributor{horizon: horizon, now: now}
	contributions := make([]Contribution, 0, len(instruments))
	var assets, liabilities float64
	for _, inst := range instruments {
		if inst == nil {
			continue
		}
		meta := inst.Metadata()
		c.current = Contribution{ID: meta.ID, Name: meta.Name, Kind: inst.Kind()}
		inst.Accept(c)

		assets += c.current.Asset
		liabilities += c.current.Liability
		contributions = append(contributions, c.current)
	}

	adjusted := finance.InflationAdjusted(assets, inflationRatePercent, horizon)
	return Result{
		ProjectedAssets:         &assets,
		InflationAdjustedAssets: &adjusted,
		ProjectedLiabilities:    &liabilities,
		Contributions:           contributions,
	}
}

// contributor fills in the current contribution for each visited instrument.
type contributor struct {
	horizon float64
	now     time.Time
	current Contribution
}

func (c *contributor) yearsElapsed(m portfolio.Meta) float64 {
	return datetime.YearsBetween(m.Date, c.now)
}

func (c *contributor) yearsAtHorizon(m portfolio.Meta) float64 {
	return c.yearsElapsed(m) + c.horizon
}

func (c *contributor) VisitPortfolio(p portfolio.Portfolio) {
	c.current.Asset = finance.FutureValue(p.Amount, p.CAGR, c.horizon)
}

func (c *contributor) VisitGold(g portfolio.Gold) {
	c.current.Asset = finance.FutureValue(g.Amount, g.CAGR, c.horizon)
}

func (c *contributor) VisitRealEstate(r portfolio.RealEstate) {
	equity := finance.ProjectRealEstate(r.PurchaseCost, r.Downpayment, r.CAGR, r.MortgageRate, r.LoanTermYears, c.yearsAtHorizon(r.Meta))
	c.current.Asset = equity.Equity
	c.current.Liability = equity.RemainingMortgage

	today := finance.ProjectRealEstate(r.PurchaseCost, r.Downpayment, r.CAGR, r.MortgageRate, r.LoanTermYears, c.yearsElapsed(r.Meta))
	c.current.CurrentLiability = today.RemainingMortgage
	c.current.CurrentEquity = &today.Equity
}

func (c *contributor) VisitLoan(l portfolio.Loan) {
	c.current.Liability = loans.RemainingBalance(l.Principal, l.InterestRate, l.TermYears, c.yearsAtHorizon(l.Meta))
	c.current.CurrentLiability = loans.RemainingBalance(l.Principal, l.InterestRate, l.TermYears, c.yearsElapsed(l.Meta))
}

func (c *contributor) VisitCarLoan(cl portfolio.CarLoan) {
	years := c.yearsAtHorizon(cl.Meta)
	c.current.Liability = loans.RemainingBalance(cl.Principal, cl.InterestRate, cl.TermYears, years)
	c.current.CurrentLiability = loans.RemainingBalance(cl.Principal, cl.InterestRate, cl.TermYears, c.yearsElapsed(cl.Meta))
	value := finance.DepreciatedValue(cl.PurchaseValue, cl.DepreciationRate, years)
	c.current.DepreciatedValue = &value
}
