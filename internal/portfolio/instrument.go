// Package portfolio defines the financial instruments a user records and the
// ordered collection that holds them.
package portfolio

import "time"

// Kind discriminates the instrument union.
type Kind string

const (
	KindPortfolio  Kind = "portfolio"
	KindGold       Kind = "gold"
	KindRealEstate Kind = "real-estate"
	KindLoan       Kind = "loan"
	KindCarLoan    Kind = "car-loan"
)

// Kinds lists every instrument kind in display order.
func Kinds() []Kind {
	return []Kind{KindPortfolio, KindGold, KindRealEstate, KindLoan, KindCarLoan}
}

// Meta holds the fields shared by every instrument.
type Meta struct {
	ID   string
	Name string
	// Date is the acquisition or origination date.
	Date time.Time
	// CAGR is the nominal growth rate in percent per year. Real estate uses
	// it as the appreciation rate; liability-only kinds leave it at 0.
	CAGR float64
}

// Metadata returns the shared fields.
func (m Meta) Metadata() Meta {
	return m
}

// Instrument is one of Portfolio, Gold, RealEstate, Loan or CarLoan. The set is
// closed: consumers dispatch through Visitor.
type Instrument interface {
	Metadata() Meta
	Kind() Kind
	Accept(v Visitor)
	withMeta(m Meta) Instrument
}

// Visitor handles each instrument kind. Adding a kind adds a method here, so
// every consumer must handle it before the code compiles again.
type Visitor interface {
	VisitPortfolio(p Portfolio)
	VisitGold(g Gold)
	VisitRealEstate(r RealEstate)
	VisitLoan(l Loan)
	VisitCarLoan(c CarLoan)
}

// Portfolio is a market holding that grows at its CAGR.
type Portfolio struct {
	Meta
	Amount float64
}

func (Portfolio) Kind() Kind {
	return KindPortfolio
}

func (p Portfolio) Accept(v Visitor) {
	v.VisitPortfolio(p)
}

func (p Portfolio) withMeta(m Meta) Instrument {
	p.Meta = m
	return p
}

// Gold is an asset-only holding that grows at its CAGR.
type Gold struct {
	Meta
	Amount float64
}

func (Gold) Kind() Kind {
	return KindGold
}

func (g Gold) Accept(v Visitor) {
	v.VisitGold(g)
}

func (g Gold) withMeta(m Meta) Instrument {
	g.Meta = m
	return g
}

// RealEstate is a property bought with a downpayment and a fixed-rate
// mortgage. Meta.Date is the purchase date and Meta.CAGR the appreciation
// rate.
type RealEstate struct {
	Meta
	Downpayment   float64
	PurchaseCost  float64
	LoanTermYears float64
	// MortgageRate is the annual interest rate in percent.
	MortgageRate float64
}

// LoanPrincipal is the amount financed by the mortgage.
func (r RealEstate) LoanPrincipal() float64 {
	return r.PurchaseCost - r.Downpayment
}

func (RealEstate) Kind() Kind {
	return KindRealEstate
}

func (r RealEstate) Accept(v Visitor) {
	v.VisitRealEstate(r)
}

func (r RealEstate) withMeta(m Meta) Instrument {
	r.Meta = m
	return r
}

// Loan is a fixed-rate amortizing personal loan. Meta.Date is the origination
// date.
type Loan struct {
	Meta
	Principal float64
	// InterestRate is the annual interest rate in percent.
	InterestRate float64
	TermYears    float64
}

func (Loan) Kind() Kind {
	return KindLoan
}

func (l Loan) Accept(v Visitor) {
	v.VisitLoan(l)
}

func (l Loan) withMeta(m Meta) Instrument {
	l.Meta = m
	return l
}

// CarLoan is a Loan financing a vehicle. The vehicle's depreciation is
// informational and does not feed asset or liability totals.
type CarLoan struct {
	Loan
	PurchaseValue float64
	// DepreciationRate is the yearly loss of value in percent.
	DepreciationRate float64
}

func (CarLoan) Kind() Kind {
	return KindCarLoan
}

func (c CarLoan) Accept(v Visitor) {
	v.VisitCarLoan(c)
}

func (c CarLoan) withMeta(m Meta) Instrument {
	c.Meta = m
	return c
}
