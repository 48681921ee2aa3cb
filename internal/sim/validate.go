package sim

import (
	"fmt"
	"math"

	"github.com/okarvonen/vaesto/internal/domain"
)

// Validation is advisory: errors mark structurally impossible results
// (non-finite population, non-positive GDP), warnings mark anomalies worth
// a look. The caller decides whether to abort.

const (
	// maxYearOverYearChange is the plausible bound on annual population
	// change.
	maxYearOverYearChange = 0.05
	// highDependencyRatio marks an unusually burdened age structure.
	highDependencyRatio = 130.0
)

// ValidateState checks a simulation state for structural impossibilities.
func ValidateState(state *domain.SimulationState) domain.ValidationResult {
	res := domain.ValidationResult{Valid: true}
	fail := func(format string, args ...any) {
		res.Valid = false
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}
	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	if state == nil {
		fail("state is nil")
		return res
	}
	if state.Population == nil {
		fail("year %d: population is nil", state.Year)
		return res
	}

	for age, count := range state.Population.Native {
		if age < 0 || age > domain.MaxAge {
			fail("year %d: native age %d out of range", state.Year, age)
		}
		if count < 0 || math.IsNaN(count) || math.IsInf(count, 0) {
			fail("year %d: native count at age %d is %v", state.Year, age, count)
		}
	}
	for key, count := range state.Population.Immigrants {
		if key.Age < 0 || key.Age > domain.MaxAge {
			fail("year %d: immigrant age %d out of range", state.Year, key.Age)
		}
		if !key.Type.Valid() {
			fail("year %d: unknown immigrant type %q", state.Year, key.Type)
		}
		if count < 0 || math.IsNaN(count) || math.IsInf(count, 0) {
			fail("year %d: immigrant count %v for %v", state.Year, count, key)
		}
	}

	total := state.Population.Total()
	if math.IsNaN(total) || math.IsInf(total, 0) {
		fail("year %d: total population is not finite", state.Year)
	} else if total <= 0 {
		fail("year %d: total population %0.f is not positive", state.Year, total)
	}

	if !state.Economy.GDP.IsPositive() {
		fail("year %d: gdp %s is not positive", state.Year, state.Economy.GDP)
	}
	if state.Economy.Debt.IsNegative() {
		warn("year %d: debt stock %s is negative", state.Year, state.Economy.Debt)
	}
	if ratio := state.Population.DependencyRatio(); ratio > highDependencyRatio {
		warn("year %d: dependency ratio %.1f is unusually high", state.Year, ratio)
	}
	return res
}

// ValidateYearResult checks a year result, optionally against its
// predecessor for year-over-year plausibility.
func ValidateYearResult(prev *domain.YearResult, cur *domain.YearResult) domain.ValidationResult {
	res := domain.ValidationResult{Valid: true}
	fail := func(format string, args ...any) {
		res.Valid = false
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}
	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	if cur == nil {
		fail("year result is nil")
		return res
	}
	for name, v := range map[string]float64{
		"total population": cur.TotalPopulation,
		"births":           cur.Births,
		"deaths":           cur.Deaths,
		"arrivals":         cur.Arrivals,
		"departures":       cur.Departures,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fail("year %d: %s is not finite", cur.Year, name)
		}
	}
	if !cur.GDP.IsPositive() {
		fail("year %d: gdp %s is not positive", cur.Year, cur.GDP)
	}
	if cur.Debt.IsNegative() {
		warn("year %d: projected debt %s is negative", cur.Year, cur.Debt)
	}

	if prev != nil && prev.TotalPopulation > 0 {
		change := math.Abs(cur.TotalPopulation-prev.TotalPopulation) / prev.TotalPopulation
		if change > maxYearOverYearChange {
			warn("year %d: population changed %.1f%% in one year", cur.Year, change*100)
		}
	}
	return res
}
