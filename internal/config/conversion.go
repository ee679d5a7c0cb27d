package config

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/wealth-math/internal/portfolio"
	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/datetime"
	"github.com/iwvelando/wealth-math/pkg/validation"
)

// Age returns the calendar age at now, or nil when no date of birth is set.
func (p Profile) Age(now time.Time) (*int, error) {
	if p.DateOfBirth == "" {
		return nil, nil
	}
	birth, err := datetime.ParseDate(p.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("profile date of birth: %w", err)
	}
	age := datetime.AgeOn(birth, now)
	return &age, nil
}

// RetirementAgeAt returns the configured retirement age, or the default for
// someone of the given age: DefaultRetirementAge until that age is reached,
// LateRetirementAge afterwards, and never less than the current age. The
// configured value is returned unchanged when set or when age is nil.
func (p Profile) RetirementAgeAt(age *int) int {
	if p.RetirementAge != 0 || age == nil {
		return p.RetirementAge
	}
	retirementAge := constants.DefaultRetirementAge
	if *age >= constants.DefaultRetirementAge {
		retirementAge = constants.LateRetirementAge
	}
	if *age > retirementAge {
		retirementAge = *age
	}
	return retirementAge
}

// HorizonYears returns the number of years until retirement. An explicit
// YearsToRetirement wins; otherwise it is derived from the calendar age and
// the retirement age (see RetirementAgeAt) and never drops below zero. The
// horizon is nil while no date of birth is known.
func (p Profile) HorizonYears(now time.Time) (*float64, error) {
	if p.YearsToRetirement != nil {
		years := *p.YearsToRetirement
		return &years, nil
	}
	if p.RetirementAge < 0 {
		return nil, nil
	}

	age, err := p.Age(now)
	if err != nil || age == nil {
		return nil, err
	}
	years := math.Max(0, float64(p.RetirementAgeAt(age)-*age))
	return &years, nil
}

// ToInstrument converts the flat record into its typed instrument. Portfolio
// and gold entries without a date are dated now.
func (ic InstrumentConfig) ToInstrument(now time.Time) (portfolio.Instrument, error) {
	meta := portfolio.Meta{ID: ic.ID, Name: ic.Name, Date: datetime.Today(now)}
	if ic.Date != "" {
		date, err := datetime.ParseDate(ic.Date)
		if err != nil {
			return nil, fmt.Errorf("instrument %q: %w", ic.Name, err)
		}
		meta.Date = date
	}
	if ic.CAGR != nil {
		meta.CAGR = *ic.CAGR
	}

	switch portfolio.Kind(ic.Type) {
	case portfolio.KindPortfolio:
		return portfolio.Portfolio{Meta: meta, Amount: ic.Amount}, nil
	case portfolio.KindGold:
		return portfolio.Gold{Meta: meta, Amount: ic.Amount}, nil
	case portfolio.KindRealEstate:
		return portfolio.RealEstate{
			Meta:          meta,
			Downpayment:   ic.Downpayment,
			PurchaseCost:  ic.HouseCost,
			LoanTermYears: ic.LoanTerm,
			MortgageRate:  ic.AnnualInterestRate,
		}, nil
	case portfolio.KindLoan, portfolio.KindCarLoan:
		// Liabilities do not grow.
		meta.CAGR = 0
		loan := portfolio.Loan{
			Meta:         meta,
			Principal:    ic.LoanAmount,
			InterestRate: ic.LoanInterestRate,
			TermYears:    ic.LoanTermYears,
		}
		if portfolio.Kind(ic.Type) == portfolio.KindLoan {
			return loan, nil
		}
		return portfolio.CarLoan{Loan: loan, PurchaseValue: ic.PurchaseValue, DepreciationRate: ic.DepreciationRate}, nil
	default:
		return nil, fmt.Errorf("instrument %q: unknown type %q", ic.Name, ic.Type)
	}
}

// ToCollection converts every configured instrument, assigning ids to those
// that have none.
func (c *Configuration) ToCollection(now time.Time) (*portfolio.Collection, error) {
	collection, err := portfolio.NewCollection()
	if err != nil {
		return nil, err
	}
	for _, ic := range c.Instruments {
		inst, err := ic.ToInstrument(now)
		if err != nil {
			return nil, err
		}
		if _, err := collection.Add(inst); err != nil {
			return nil, fmt.Errorf("instrument %q: %w", ic.Name, err)
		}
	}
	return collection, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for conditions that do not prevent a projection.
func (c *Configuration) ValidateConfiguration(now time.Time) []string {
	var instruments []validation.InstrumentInfo
	for _, ic := range c.Instruments {
		info := validation.InstrumentInfo{
			Name:             ic.Name,
			Type:             ic.Type,
			Date:             ic.Date,
			DepreciationRate: ic.DepreciationRate,
		}
		switch portfolio.Kind(ic.Type) {
		case portfolio.KindRealEstate:
			info.TermYears = ic.LoanTerm
			info.Financed = ic.HouseCost > ic.Downpayment
		case portfolio.KindLoan, portfolio.KindCarLoan:
			info.TermYears = ic.LoanTermYears
			info.Financed = ic.LoanAmount > 0
		}
		instruments = append(instruments, info)
	}

	var horizon *float64
	if h, err := c.Profile.HorizonYears(now); err == nil {
		horizon = h
	}

	validator := validation.ConfigValidator{
		Now:               now,
		YearsToRetirement: horizon,
		Instruments:       instruments,
	}
	return validator.ValidateAll()
}
