// Package demographics holds the pure per-year population transitions:
// aging, age-specific mortality and birth injection.
package demographics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
)

// MaxMortalityRate caps the per-year mortality probability. The terminal age
// bucket always uses the cap.
const MaxMortalityRate = 0.35

// ChildbearingSpan is the assumed number of childbearing years per woman.
const ChildbearingSpan = 35

// Engine derives transition rates from the reference survival and birth
// series. All methods are pure: they never mutate their input state.
type Engine struct {
	ref *refdata.Store
}

// New creates a demographics engine over a loaded reference store.
func New(ref *refdata.Store) *Engine {
	return &Engine{ref: ref}
}

// MortalityRate returns the probability of dying during the year at the
// given age, derived from the survival curve as 1 - s(age+1)/s(age) and
// clamped to [0, MaxMortalityRate].
func (e *Engine) MortalityRate(age int) float64 {
	if age >= domain.MaxAge {
		return MaxMortalityRate
	}
	if age < 0 {
		age = 0
	}
	current := e.ref.Survival(age)
	next := e.ref.Survival(age + 1)
	if current <= 0 {
		return MaxMortalityRate
	}
	rate := 1 - next/current
	if rate < 0 {
		return 0
	}
	if rate > MaxMortalityRate {
		return MaxMortalityRate
	}
	return rate
}

// ApplyMortality removes round(count x rate) from every cohort and returns
// the new state plus the total death count. Cohorts that reach zero are
// deleted rather than kept as zero entries.
func (e *Engine) ApplyMortality(pop *domain.PopulationState) (*domain.PopulationState, float64) {
	next := domain.NewPopulationState()
	var deaths float64

	for age, count := range pop.Native {
		died := math.Round(count * e.MortalityRate(age))
		if died > count {
			died = count
		}
		deaths += died
		if remaining := count - died; remaining > 0 {
			next.Native[age] = remaining
		}
	}
	for key, count := range pop.Immigrants {
		died := math.Round(count * e.MortalityRate(key.Age))
		if died > count {
			died = count
		}
		deaths += died
		if remaining := count - died; remaining > 0 {
			next.Immigrants[key] = remaining
		}
	}
	return next, deaths
}

// AgePopulation moves every cohort one year older. Cohorts colliding at the
// terminal age accumulate. Immigrant cohorts keep their type and arrival
// year; only the age component of the key advances.
func AgePopulation(pop *domain.PopulationState) *domain.PopulationState {
	next := domain.NewPopulationState()
	for age, count := range pop.Native {
		aged := age + 1
		if aged > domain.MaxAge {
			aged = domain.MaxAge
		}
		next.Native[aged] += count
	}
	for key, count := range pop.Immigrants {
		aged := key.Age + 1
		if aged > domain.MaxAge {
			aged = domain.MaxAge
		}
		next.Immigrants[domain.CohortKey{Age: aged, Type: key.Type, ArrivalYear: key.ArrivalYear}] += count
	}
	return next
}

// Births returns the birth count and the total fertility rate behind it.
// Historical years return the recorded count and its implied TFR; projected
// years interpolate the TFR from the last recorded value toward the scenario
// target until the transition year, then hold it.
func (e *Engine) Births(year int, womenOfChildbearingAge float64, scenario *domain.Scenario) (float64, decimal.Decimal) {
	if year <= e.ref.HistoricalCutoff() {
		if recorded, ok := e.ref.Births(year); ok {
			implied := decimal.Zero
			if womenOfChildbearingAge > 0 {
				implied = decimal.NewFromFloat(recorded * ChildbearingSpan / womenOfChildbearingAge)
			}
			return recorded, implied
		}
		// No recorded count for this historical year; fall through and
		// project with the starting TFR.
	}

	tfr := e.projectedTFR(year, scenario)
	births := math.Round(tfr.InexactFloat64() * womenOfChildbearingAge / ChildbearingSpan)
	if births < 0 {
		births = 0
	}
	return births, tfr
}

func (e *Engine) projectedTFR(year int, scenario *domain.Scenario) decimal.Decimal {
	start := e.ref.TFRStart()
	startYear := e.ref.HistoricalCutoff()
	if year >= scenario.TFRTransitionYear {
		return scenario.TFRTarget
	}
	if year <= startYear {
		return start
	}
	span := scenario.TFRTransitionYear - startYear
	if span <= 0 {
		return scenario.TFRTarget
	}
	frac := decimal.NewFromInt(int64(year - startYear)).Div(decimal.NewFromInt(int64(span)))
	return start.Add(scenario.TFRTarget.Sub(start).Mul(frac))
}

// InjectBirths adds newborns at age 0, accumulating with any existing age-0
// cohort.
func InjectBirths(pop *domain.PopulationState, births float64) *domain.PopulationState {
	next := pop.Clone()
	if births > 0 {
		next.Native[0] += births
	}
	return next
}

// StepResult reports the flows of one demographic step.
type StepResult struct {
	Births float64
	Deaths float64
	TFR    decimal.Decimal
}

// Step advances the population one demographic year: age, then mortality,
// then births. The childbearing-age count is taken after aging but before
// the new births land; changing this order changes results.
func (e *Engine) Step(pop *domain.PopulationState, year int, scenario *domain.Scenario) (*domain.PopulationState, StepResult) {
	aged := AgePopulation(pop)
	survived, deaths := e.ApplyMortality(aged)

	women := survived.WomenOfChildbearingAge()
	births, tfr := e.Births(year, women, scenario)
	next := InjectBirths(survived, births)

	return next, StepResult{Births: births, Deaths: deaths, TFR: tfr}
}
