package domain

import (
	"github.com/shopspring/decimal"
)

// EconomicState tracks the macro side of a simulated year. GDP and debt are
// in EUR billions. GrowthMultiplier is the cumulative real-growth factor
// relative to the reference base year and scales wage-dependent costs.
type EconomicState struct {
	GDP              decimal.Decimal `json:"gdp"`
	GrowthMultiplier decimal.Decimal `json:"growthMultiplier"`
	Debt             decimal.Decimal `json:"debt"`
	InterestRate     decimal.Decimal `json:"interestRate"`
}

// SimulationState is the full state for one simulated year. One instance
// exists per year; it is never mutated after creation. The orchestrator
// builds year t+1 from year t and the scenario.
type SimulationState struct {
	Year       int              `json:"year"`
	Population *PopulationState `json:"population"`
	Economy    EconomicState    `json:"economy"`
	Historical bool             `json:"historical"`
}

// RevenueBreakdown splits annual public revenue by source, in EUR millions.
type RevenueBreakdown struct {
	IncomeTax       decimal.Decimal `json:"incomeTax"`
	SocialInsurance decimal.Decimal `json:"socialInsurance"`
	VAT             decimal.Decimal `json:"vat"`
}

// Total sums all revenue sources.
func (r RevenueBreakdown) Total() decimal.Decimal {
	return r.IncomeTax.Add(r.SocialInsurance).Add(r.VAT)
}

// CostBreakdown splits annual public cost by category, in EUR millions.
// Interest is carried separately because it is layered in by the
// orchestrator after the economy step, not by the fiscal aggregation.
type CostBreakdown struct {
	Education  decimal.Decimal `json:"education"`
	Healthcare decimal.Decimal `json:"healthcare"`
	Pensions   decimal.Decimal `json:"pensions"`
	Benefits   decimal.Decimal `json:"benefits"`
	Interest   decimal.Decimal `json:"interest"`
}

// Total sums all cost categories including interest.
func (c CostBreakdown) Total() decimal.Decimal {
	return c.Education.Add(c.Healthcare).Add(c.Pensions).Add(c.Benefits).Add(c.Interest)
}

// AnnualFiscalFlows is the money-flow snapshot derived from one year's
// population. It has no identity across years; every year recomputes it from
// scratch. All amounts are EUR millions.
type AnnualFiscalFlows struct {
	Children   float64 `json:"children"`
	WorkingAge float64 `json:"workingAge"`
	Elderly    float64 `json:"elderly"`

	DependencyRatio float64 `json:"dependencyRatio"`

	Revenue RevenueBreakdown `json:"revenue"`
	Costs   CostBreakdown    `json:"costs"`

	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	Balance      decimal.Decimal `json:"balance"`

	// NativeBalance and ImmigrantBalance attribute the balance across
	// population groups. Growth adjustment scales them by the revenue factor
	// only, so in adjusted flows they are approximate and need not sum to
	// Balance.
	NativeBalance    decimal.Decimal                   `json:"nativeBalance"`
	ImmigrantBalance map[ImmigrantType]decimal.Decimal `json:"immigrantBalance"`
}

// Recompute refreshes the totals and balance from the breakdowns.
func (f *AnnualFiscalFlows) Recompute() {
	f.TotalRevenue = f.Revenue.Total()
	f.TotalCost = f.Costs.Total()
	f.Balance = f.TotalRevenue.Sub(f.TotalCost)
}

// WithInterest returns a copy of the flows with interest expense added to
// costs and the balance restated. The original is left untouched.
func (f AnnualFiscalFlows) WithInterest(interest decimal.Decimal) AnnualFiscalFlows {
	restated := f
	restated.ImmigrantBalance = make(map[ImmigrantType]decimal.Decimal, len(f.ImmigrantBalance))
	for t, b := range f.ImmigrantBalance {
		restated.ImmigrantBalance[t] = b
	}
	restated.Costs.Interest = restated.Costs.Interest.Add(interest)
	restated.Recompute()
	return restated
}
