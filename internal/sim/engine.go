// Package sim composes the demographic, immigration, fiscal and economic
// steps into the year-advance operation, reconstructs starting states, and
// drives multi-decade runs.
package sim

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/demographics"
	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/economy"
	"github.com/okarvonen/vaesto/internal/fiscal"
	"github.com/okarvonen/vaesto/internal/immigration"
	"github.com/okarvonen/vaesto/internal/refdata"
	"github.com/okarvonen/vaesto/internal/spending"
	"github.com/okarvonen/vaesto/internal/tax"
)

// Engine orchestrates all per-year calculations. Construction fails when the
// reference store has not been loaded, so a missing Load surfaces before the
// first step instead of mid-run.
type Engine struct {
	Ref     *refdata.Store
	Demo    *demographics.Engine
	Imm     *immigration.Engine
	Fiscal  *fiscal.Calculator
	Econ    *economy.Engine
	Logger  *slog.Logger
	spender *spending.Projector
}

// NewEngine wires an engine over a loaded reference store. Pass a nil
// logger to discard logs.
func NewEngine(ref *refdata.Store, logger *slog.Logger) (*Engine, error) {
	if err := ref.Ready(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		Ref:    ref,
		Demo:   demographics.New(ref),
		Imm:    immigration.New(ref),
		Fiscal: fiscal.NewCalculator(tax.NewCalculator()),
		Econ:   economy.New(ref),
		Logger: logger,
	}, nil
}

// AttachSpendingProjector enables the parallel COFOG projection; each
// YearResult then carries the top-down estimate alongside the bottom-up one.
func (e *Engine) AttachSpendingProjector(p *spending.Projector) { e.spender = p }

var thousand = decimal.NewFromInt(1000)

// AdvanceYear computes the transition from year t to t+1. The step order is
// fixed: demographics, immigration, base fiscal aggregation at the previous
// year's growth multiplier, economy projection from the pre-interest
// balance, interest restatement, growth adjustment, result assembly.
// Interest is derived from the previous year's debt stock, which is what
// lets the economy step run before the interest-inclusive flows exist.
func (e *Engine) AdvanceYear(state *domain.SimulationState, scenario *domain.Scenario) (*domain.SimulationState, *domain.YearResult, error) {
	if state == nil {
		return nil, nil, fmt.Errorf("sim: nil state")
	}
	year := state.Year + 1

	// 1. Demographics against year t's population, with t+1's birth scenario.
	pop, demoRes := e.Demo.Step(state.Population, year, scenario)

	// 2. Immigration against the post-demographics population.
	pop, immRes := e.Imm.Step(pop, year, scenario)

	// 3. Base fiscal aggregation: t's cumulative growth multiplier, zero
	// interest.
	baseFlows := e.Fiscal.Aggregate(pop, year, state.Economy.GrowthMultiplier)

	// 4. Economy step from the pre-interest balance and the post-transition
	// workforce.
	econRes, err := e.Econ.Step(state.Economy, year, scenario,
		pop.WorkingAge(), state.Population.WorkingAge(), baseFlows.Balance)
	if err != nil {
		return nil, nil, fmt.Errorf("sim: year %d: %w", year, err)
	}

	// 5. Restate flows with interest expense (EUR millions).
	interestMillions := econRes.InterestExpense.Mul(thousand)
	flows := baseFlows.WithInterest(interestMillions)

	// 6. Growth adjustment on the interest-inclusive flows.
	adjusted := fiscal.AdjustForGrowth(flows, year, e.Ref.BaseYear(), econRes.State.GrowthMultiplier)

	// 7. Assemble the result. Government metrics come from the restated,
	// adjusted totals; the economy step's own pre-interest metrics are
	// discarded.
	spendingShare, deficitShare := economy.GovernmentMetrics(adjusted, econRes.State.GDP)

	result := &domain.YearResult{
		Year:       year,
		Historical: econRes.Historical,

		Births:     demoRes.Births,
		Deaths:     demoRes.Deaths,
		Arrivals:   immRes.Arrivals,
		Departures: immRes.Departures,

		TotalPopulation:     pop.Total(),
		NativePopulation:    pop.NativeTotal(),
		ImmigrantPopulation: pop.ImmigrantTotal(),
		ImmigrantsByType:    pop.ImmigrantsByType(),

		Fiscal:         flows,
		AdjustedFiscal: adjusted,

		GDP:              econRes.State.GDP,
		GDPGrowth:        econRes.GrowthRate,
		Debt:             econRes.State.Debt,
		DebtToGDP:        economy.DebtToGDP(econRes.State),
		InterestRate:     econRes.State.InterestRate,
		InterestExpense:  econRes.InterestExpense,
		SpendingShareGDP: spendingShare,
		DeficitShareGDP:  deficitShare,
	}

	if e.spender != nil {
		proj := e.spender.Project(spending.Inputs{
			Year:         year,
			Population:   pop.Total(),
			ElderlyRatio: ratio(pop.Elderly(), pop.Total()),
			ChildRatio:   ratio(pop.Children(), pop.Total()),
			WorkingRatio: ratio(pop.WorkingAge(), pop.Total()),
			GDP:          econRes.State.GDP,
			Debt:         econRes.State.Debt,
			InterestRate: econRes.State.InterestRate,
		})
		rollup := e.spender.LegacyRollup(proj)
		result.Spending = &proj
		result.SpendingLegacy = &rollup
	}

	next := &domain.SimulationState{
		Year:       year,
		Population: pop,
		Economy:    econRes.State,
		Historical: year <= e.Ref.HistoricalCutoff(),
	}
	return next, result, nil
}

func ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}
