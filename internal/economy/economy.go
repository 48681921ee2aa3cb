// Package economy projects GDP, government debt and interest for one year.
package economy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
)

// Engine projects the macro-economic layer. Historical years read the
// recorded series; projected years compound forward from the previous state.
type Engine struct {
	ref *refdata.Store
}

// New creates an economy engine over a loaded reference store.
func New(ref *refdata.Store) *Engine {
	return &Engine{ref: ref}
}

// StepResult is the output of one economy step. InterestExpense is in EUR
// billions; the government metrics computed here are pre-interest and must
// be recomputed by the orchestrator from the restated fiscal totals.
type StepResult struct {
	State           domain.EconomicState
	GrowthRate      decimal.Decimal
	InterestExpense decimal.Decimal
	Historical      bool
}

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
	two      = decimal.NewFromInt(2)
	one      = decimal.NewFromInt(1)
)

// Step projects the economic state for a year. The fiscal balance is the
// pre-interest balance in EUR millions; a surplus reduces debt, a deficit
// grows it, and debt is floored at zero. Interest accrues on the average of
// the previous and new debt stock.
func (e *Engine) Step(prev domain.EconomicState, year int, scenario *domain.Scenario, currentWorkingAge, previousWorkingAge float64, fiscalBalance decimal.Decimal) (StepResult, error) {
	if year <= e.ref.HistoricalCutoff() {
		return e.historicalStep(prev, year)
	}

	rate, err := e.growthRate(scenario, currentWorkingAge, previousWorkingAge)
	if err != nil {
		return StepResult{}, err
	}

	growth := one.Add(rate)
	gdp := prev.GDP.Mul(growth)
	multiplier := prev.GrowthMultiplier.Mul(growth)

	balanceBillions := fiscalBalance.Div(thousand)
	debt := prev.Debt.Sub(balanceBillions)
	if debt.IsNegative() {
		debt = decimal.Zero
	}

	interest := prev.Debt.Add(debt).Div(two).Mul(scenario.Interest.Rate)

	return StepResult{
		State: domain.EconomicState{
			GDP:              gdp,
			GrowthMultiplier: multiplier,
			Debt:             debt,
			InterestRate:     scenario.Interest.Rate,
		},
		GrowthRate:      rate,
		InterestExpense: interest,
	}, nil
}

// historicalStep reads GDP, debt and the effective rate from the reference
// series. Missing points fall back to carrying the previous state forward.
func (e *Engine) historicalStep(prev domain.EconomicState, year int) (StepResult, error) {
	res := StepResult{Historical: true}

	gdp, ok := e.ref.GDP(year)
	if !ok {
		gdp = prev.GDP
	}
	debt, ok := e.ref.Debt(year)
	if !ok {
		debt = prev.Debt
	}
	rate, ok := e.ref.InterestRate(year)
	if !ok {
		rate = prev.InterestRate
	}

	growthRate := decimal.Zero
	if prev.GDP.IsPositive() {
		growthRate = gdp.Div(prev.GDP).Sub(one)
	}

	res.State = domain.EconomicState{
		GDP:              gdp,
		GrowthMultiplier: one, // wage-dependent costs are base-year priced in history
		Debt:             debt,
		InterestRate:     rate,
	}
	res.GrowthRate = growthRate
	res.InterestExpense = prev.Debt.Add(debt).Div(two).Mul(rate)
	return res, nil
}

// growthRate dispatches on the closed GDP scenario family.
func (e *Engine) growthRate(scenario *domain.Scenario, currentWorkingAge, previousWorkingAge float64) (decimal.Decimal, error) {
	switch scenario.GDP.Kind {
	case domain.GDPFixedRate:
		return scenario.GDP.Rate, nil
	case domain.GDPWorkforceAdjusted:
		change := decimal.Zero
		if previousWorkingAge > 0 {
			change = decimal.NewFromFloat((currentWorkingAge - previousWorkingAge) / previousWorkingAge)
		}
		return scenario.GDP.Productivity.Add(change), nil
	}
	return decimal.Zero, fmt.Errorf("economy: unknown gdp scenario kind %d", scenario.GDP.Kind)
}

// DebtToGDP returns the debt stock as a percentage of GDP.
func DebtToGDP(state domain.EconomicState) decimal.Decimal {
	if !state.GDP.IsPositive() {
		return decimal.Zero
	}
	return state.Debt.Div(state.GDP).Mul(hundred)
}

// GovernmentMetrics expresses spending and deficit as percent of GDP from
// interest-inclusive fiscal totals (EUR millions) against GDP (EUR
// billions). The orchestrator calls this after interest is layered in.
func GovernmentMetrics(flows domain.AnnualFiscalFlows, gdp decimal.Decimal) (spendingShare, deficitShare decimal.Decimal) {
	if !gdp.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	gdpMillions := gdp.Mul(thousand)
	spendingShare = flows.TotalCost.Div(gdpMillions).Mul(hundred)
	deficitShare = flows.Balance.Neg().Div(gdpMillions).Mul(hundred)
	return spendingShare, deficitShare
}
