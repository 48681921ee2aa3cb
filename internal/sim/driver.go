package sim

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
)

// SimulateRange runs the orchestrator from startYear through endYear
// inclusive, threading each year's state into the next, and returns the
// ordered timeline plus run-level summary statistics. With validateSteps
// set, every year's state and result is checked and the advisory findings
// are attached to the run; validation never aborts the run by itself.
func (e *Engine) SimulateRange(startYear, endYear int, scenario *domain.Scenario, validateSteps bool) (*domain.RunResult, error) {
	if endYear < startYear {
		return nil, fmt.Errorf("sim: end year %d before start year %d", endYear, startYear)
	}
	if scenario == nil {
		return nil, fmt.Errorf("sim: nil scenario")
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("sim: scenario %q: %w", scenario.Name, err)
	}

	state, err := e.InitializeState(startYear-1, InitOptions{}, scenario)
	if err != nil {
		return nil, err
	}

	run := &domain.RunResult{
		Scenario: scenario.Name,
		Annual:   make([]domain.YearResult, 0, endYear-startYear+1),
	}
	validation := domain.ValidationResult{Valid: true}

	e.Logger.Info("simulation started",
		"scenario", scenario.Name, "start", startYear, "end", endYear,
		"initialPopulation", state.Population.Total())

	var prev *domain.YearResult
	for year := startYear; year <= endYear; year++ {
		next, result, err := e.AdvanceYear(state, scenario)
		if err != nil {
			return nil, err
		}
		if validateSteps {
			validation.Merge(ValidateState(next))
			validation.Merge(ValidateYearResult(prev, result))
		}
		run.Annual = append(run.Annual, *result)
		state = next
		prev = result
	}

	run.FinalState = state
	run.Summary = summarize(startYear, endYear, run.Annual)
	if validateSteps {
		run.Validation = &validation
	}

	e.Logger.Info("simulation finished",
		"scenario", scenario.Name,
		"finalPopulation", state.Population.Total(),
		"finalDebtToGDP", run.Annual[len(run.Annual)-1].DebtToGDP.StringFixed(1))
	return run, nil
}

// summarize computes the run-level statistics from a completed timeline.
func summarize(startYear, endYear int, annual []domain.YearResult) domain.RunSummary {
	s := domain.RunSummary{StartYear: startYear, EndYear: endYear}
	if len(annual) == 0 {
		return s
	}

	s.StartPopulation = annual[0].TotalPopulation
	s.EndPopulation = annual[len(annual)-1].TotalPopulation

	var growthSum decimal.Decimal
	for i, r := range annual {
		balance := r.AdjustedFiscal.Balance
		if i == 0 || balance.GreaterThan(s.PeakSurplus) {
			s.PeakSurplus = balance
			s.PeakSurplusYear = r.Year
		}
		if s.FirstDeficit == 0 && balance.IsNegative() {
			s.FirstDeficit = r.Year
		}
		if i == 0 || r.DebtToGDP.GreaterThan(s.PeakDebtToGDP) {
			s.PeakDebtToGDP = r.DebtToGDP
			s.PeakDebtYear = r.Year
		}
		s.CumulativeBal = s.CumulativeBal.Add(balance)
		growthSum = growthSum.Add(r.GDPGrowth)
	}
	s.AvgGDPGrowth = growthSum.Div(decimal.NewFromInt(int64(len(annual))))
	return s
}

// CompareScenarios runs each scenario over the same year range and returns
// the runs in input order. Each run gets a fresh fiscal cache so scenarios
// cannot interfere through memoization (the cache is keyed on inputs, so
// sharing it would be correct, but isolation keeps runs independent).
func (e *Engine) CompareScenarios(startYear, endYear int, scenarios []*domain.Scenario, validateSteps bool) ([]*domain.RunResult, error) {
	runs := make([]*domain.RunResult, 0, len(scenarios))
	for _, sc := range scenarios {
		e.Fiscal.ClearCache()
		run, err := e.SimulateRange(startYear, endYear, sc, validateSteps)
		if err != nil {
			return nil, fmt.Errorf("sim: scenario %q: %w", sc.Name, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
