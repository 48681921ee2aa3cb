package sim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/immigration"
)

// InitOptions tunes state reconstruction.
type InitOptions struct {
	// ArrivalReplayYears is how many past arrival years to replay when
	// rebuilding the immigrant stock. Zero means the default of 30.
	ArrivalReplayYears int
	// SanityTolerance is the acceptable relative deviation from the
	// reference population total before a warning is logged. Zero means the
	// default of 0.10.
	SanityTolerance float64
}

const (
	defaultReplayYears     = 30
	defaultSanityTolerance = 0.10

	// Annual compounding factors applied to replayed arrival cohorts.
	arrivalRetention       = 0.98  // ~2%/year emigrate again
	arrivalMortalityApprox = 0.995 // ~0.5%/year mortality approximation
)

// InitializeState reconstructs a SimulationState for an arbitrary year.
// Natives come from the birth-cohort history discounted by cumulative
// survival; immigrants from replaying past arrival years with retention
// decay. A sanity check against the reference population total logs a
// warning but never fails.
func (e *Engine) InitializeState(year int, opts InitOptions, scenario *domain.Scenario) (*domain.SimulationState, error) {
	if err := e.Ref.Ready(); err != nil {
		return nil, fmt.Errorf("sim: initialize %d: %w", year, err)
	}
	replay := opts.ArrivalReplayYears
	if replay <= 0 {
		replay = defaultReplayYears
	}
	tolerance := opts.SanityTolerance
	if tolerance <= 0 {
		tolerance = defaultSanityTolerance
	}
	if scenario == nil {
		return nil, fmt.Errorf("sim: initialize %d: nil scenario", year)
	}

	pop := domain.NewPopulationState()

	// Native cohorts: birth year = target year - age, discounted by the
	// cumulative survival probability to that age. Missing birth years are
	// skipped, not estimated.
	for age := 0; age <= domain.MaxAge; age++ {
		birthYear := year - age
		births, ok := e.Ref.Births(birthYear)
		if !ok {
			continue
		}
		survivors := math.Round(births * e.Ref.Survival(age))
		if survivors > 0 {
			pop.Native[age] = survivors
		}
	}

	// Immigrant stock: replay past arrival years, compound retention and
	// the mortality approximation per year in country, and age survivors
	// forward.
	for arrivalYear := year - replay + 1; arrivalYear <= year; arrivalYear++ {
		yearsIn := year - arrivalYear
		decay := math.Pow(arrivalRetention*arrivalMortalityApprox, float64(yearsIn))
		for _, t := range domain.ImmigrantTypes {
			arrivals := e.Imm.ArrivalsForYear(arrivalYear, t, scenario)
			for key, n := range immigration.PlaceArrivals(arrivals, t, arrivalYear) {
				aged := key.Age + yearsIn
				if aged > domain.MaxAge {
					aged = domain.MaxAge
				}
				survivors := n * decay
				if survivors <= 0 {
					continue
				}
				pop.Immigrants[domain.CohortKey{Age: aged, Type: t, ArrivalYear: arrivalYear}] += survivors
			}
		}
	}

	e.sanityCheck(year, pop, tolerance)

	econ, err := e.initialEconomy(year)
	if err != nil {
		return nil, err
	}

	return &domain.SimulationState{
		Year:       year,
		Population: pop,
		Economy:    econ,
		Historical: year <= e.Ref.HistoricalCutoff(),
	}, nil
}

func (e *Engine) sanityCheck(year int, pop *domain.PopulationState, tolerance float64) {
	reference, ok := e.Ref.PopulationReference(year)
	if !ok || reference <= 0 {
		return
	}
	total := pop.Total()
	deviation := math.Abs(total-reference) / reference
	if deviation > tolerance {
		e.Logger.Warn("reconstructed population outside tolerance",
			"year", year,
			"reconstructed", math.Round(total),
			"reference", reference,
			"deviation", fmt.Sprintf("%.1f%%", deviation*100))
	}
}

func (e *Engine) initialEconomy(year int) (domain.EconomicState, error) {
	gdp, ok := e.Ref.GDP(year)
	if !ok {
		// Before the GDP series starts, scale the earliest level back by a
		// rough long-run growth rate instead of failing.
		earliest := e.Ref.EarliestGDPYear()
		base, baseOK := e.Ref.GDP(earliest)
		if !baseOK {
			return domain.EconomicState{}, fmt.Errorf("sim: no gdp reference available for %d", year)
		}
		back := decimal.NewFromFloat(1.02).Pow(decimal.NewFromInt(int64(earliest - year)))
		gdp = base.Div(back)
	}
	debt, ok := e.Ref.Debt(year)
	if !ok {
		debt = decimal.Zero
	}
	rate, ok := e.Ref.InterestRate(year)
	if !ok {
		rate = decimal.NewFromFloat(0.03)
	}
	return domain.EconomicState{
		GDP:              gdp,
		GrowthMultiplier: decimal.NewFromInt(1),
		Debt:             debt,
		InterestRate:     rate,
	}, nil
}
