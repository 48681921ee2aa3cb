// Package immigration holds the immigrant cohort model: yearly arrivals, age
// placement, tenure-dependent emigration and economic integration curves.
package immigration

import (
	"math"
	"math/rand"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
)

// Profile describes one immigrant type: where arrivals land on the age axis,
// how fast the cohort emigrates again, and how employment, income and
// welfare dependency converge toward long-run targets.
type Profile struct {
	Type domain.ImmigrantType

	// Truncated-normal age distribution of arrivals.
	MeanAge   float64
	StdDevAge float64
	MinAge    int
	MaxAge    int

	// BaseEmigrationRate is the annual emigration probability at arrival.
	BaseEmigrationRate float64

	// IntegrationYears is how long employment and income take to reach their
	// targets.
	IntegrationYears int

	InitialEmployment float64
	TargetEmployment  float64

	InitialDecile int
	TargetDecile  int

	// InitialWelfare is the welfare-dependency level in the arrival year; it
	// decays toward max(0.05, initial*0.2) over a fixed ten-year horizon.
	InitialWelfare float64
}

// welfareHorizon is the fixed decay horizon for welfare dependency.
const welfareHorizon = 10

var profiles = map[domain.ImmigrantType]Profile{
	domain.ImmigrantWork: {
		Type:               domain.ImmigrantWork,
		MeanAge:            32, StdDevAge: 8, MinAge: 18, MaxAge: 60,
		BaseEmigrationRate: 0.060,
		IntegrationYears:   5,
		InitialEmployment:  0.75, TargetEmployment: 0.85,
		InitialDecile: 5, TargetDecile: 7,
		InitialWelfare: 0.10,
	},
	domain.ImmigrantFamily: {
		Type:               domain.ImmigrantFamily,
		MeanAge:            28, StdDevAge: 12, MinAge: 0, MaxAge: 70,
		BaseEmigrationRate: 0.035,
		IntegrationYears:   8,
		InitialEmployment:  0.45, TargetEmployment: 0.68,
		InitialDecile: 3, TargetDecile: 5,
		InitialWelfare: 0.25,
	},
	domain.ImmigrantHumanitarian: {
		Type:               domain.ImmigrantHumanitarian,
		MeanAge:            24, StdDevAge: 10, MinAge: 0, MaxAge: 65,
		BaseEmigrationRate: 0.020,
		IntegrationYears:   12,
		InitialEmployment:  0.15, TargetEmployment: 0.55,
		InitialDecile: 1, TargetDecile: 4,
		InitialWelfare: 0.55,
	},
}

// ProfileFor returns the profile of one immigrant type.
func ProfileFor(t domain.ImmigrantType) Profile { return profiles[t] }

// EmploymentRate returns the cohort employment rate after the given tenure,
// moving linearly from the initial to the target level over the integration
// years and holding at target thereafter.
func (p Profile) EmploymentRate(yearsInCountry int) float64 {
	return lerpOverYears(p.InitialEmployment, p.TargetEmployment, yearsInCountry, p.IntegrationYears)
}

// IncomeDecile returns the representative income decile after the given
// tenure, on the same linear path as employment.
func (p Profile) IncomeDecile(yearsInCountry int) int {
	d := lerpOverYears(float64(p.InitialDecile), float64(p.TargetDecile), yearsInCountry, p.IntegrationYears)
	decile := int(math.Round(d))
	if decile < 1 {
		decile = 1
	}
	if decile > 10 {
		decile = 10
	}
	return decile
}

// WelfareDependency returns the cohort welfare-dependency level after the
// given tenure: exponential-style decay from the initial level toward
// max(0.05, initial*0.2) over a fixed ten-year horizon.
func (p Profile) WelfareDependency(yearsInCountry int) float64 {
	floor := math.Max(0.05, p.InitialWelfare*0.2)
	if yearsInCountry >= welfareHorizon {
		return floor
	}
	frac := float64(yearsInCountry) / welfareHorizon
	return p.InitialWelfare + (floor-p.InitialWelfare)*frac
}

// EmigrationRate returns the annual emigration probability after the given
// tenure. Propensity falls with residence but never below 30% of the base.
func (p Profile) EmigrationRate(yearsInCountry int) float64 {
	decay := math.Max(0.3, 1-float64(yearsInCountry)*0.05)
	return p.BaseEmigrationRate * decay
}

func lerpOverYears(from, to float64, years, span int) float64 {
	if span <= 0 || years >= span {
		return to
	}
	if years <= 0 {
		return from
	}
	return from + (to-from)*float64(years)/float64(span)
}

// Engine applies the per-year immigration transition.
type Engine struct {
	ref *refdata.Store
}

// New creates an immigration engine over a loaded reference store.
func New(ref *refdata.Store) *Engine {
	return &Engine{ref: ref}
}

// preHistoryDecay scales pre-record arrivals down per year of distance from
// the earliest recorded year, floored at 10% of the baseline.
const preHistoryDecay = 0.025

// ArrivalsForYear determines how many people of one type arrive in a year.
// Recorded years use the reference series; years before the earliest record
// use a linearly reduced estimate of the earliest recorded level; projected
// years use the scenario volumes.
func (e *Engine) ArrivalsForYear(year int, t domain.ImmigrantType, scenario *domain.Scenario) float64 {
	if year > e.ref.HistoricalCutoff() {
		return scenario.Immigration.ByType(t)
	}
	if n, ok := e.ref.Arrivals(year, t); ok {
		return n
	}
	earliest := e.ref.EarliestArrivalYear()
	if year < earliest {
		baseline, ok := e.ref.Arrivals(earliest, t)
		if !ok {
			return 0
		}
		factor := math.Max(0.1, 1-preHistoryDecay*float64(earliest-year))
		return baseline * factor
	}
	return 0
}

// PlaceArrivals distributes an arrival count over ages using the expected
// (deterministic) discretization of the type's truncated normal. Buckets are
// rounded to whole people and the rounding remainder is reconciled at the
// mean age, so the placed total equals the arrival count exactly.
func PlaceArrivals(count float64, t domain.ImmigrantType, arrivalYear int) map[domain.CohortKey]float64 {
	placed := make(map[domain.CohortKey]float64)
	if count <= 0 {
		return placed
	}
	p := profiles[t]

	densities := make(map[int]float64, p.MaxAge-p.MinAge+1)
	var total float64
	for age := p.MinAge; age <= p.MaxAge; age++ {
		d := normalDensity(float64(age), p.MeanAge, p.StdDevAge)
		densities[age] = d
		total += d
	}

	meanAge := int(math.Round(p.MeanAge))
	var placedTotal float64
	for age := p.MinAge; age <= p.MaxAge; age++ {
		n := math.Round(count * densities[age] / total)
		if n <= 0 {
			continue
		}
		placed[domain.CohortKey{Age: age, Type: t, ArrivalYear: arrivalYear}] += n
		placedTotal += n
	}

	// Reconcile rounding drift at the mean-age bucket.
	if remainder := count - placedTotal; remainder != 0 {
		key := domain.CohortKey{Age: meanAge, Type: t, ArrivalYear: arrivalYear}
		placed[key] += remainder
		if placed[key] <= 0 {
			delete(placed, key)
		}
	}
	return placed
}

// PlaceArrivalsSampled distributes arrivals by sampling one age per person
// from the truncated normal (Box-Muller with rejection outside the age
// bounds). Used only for illustrative small-scale pyramids; pass a seed for
// reproducibility.
func PlaceArrivalsSampled(count int, t domain.ImmigrantType, arrivalYear int, seed int64) map[domain.CohortKey]float64 {
	placed := make(map[domain.CohortKey]float64)
	if count <= 0 {
		return placed
	}
	p := profiles[t]
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < count; i++ {
		age := sampleTruncatedNormal(rng, p.MeanAge, p.StdDevAge, p.MinAge, p.MaxAge)
		placed[domain.CohortKey{Age: age, Type: t, ArrivalYear: arrivalYear}]++
	}
	return placed
}

func sampleTruncatedNormal(rng *rand.Rand, mean, stddev float64, min, max int) int {
	for i := 0; i < 1000; i++ {
		u1 := rng.Float64()
		u2 := rng.Float64()
		if u1 == 0 {
			continue
		}
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		age := int(math.Round(mean + z*stddev))
		if age >= min && age <= max {
			return age
		}
	}
	return int(math.Round(mean))
}

func normalDensity(x, mean, stddev float64) float64 {
	z := (x - mean) / stddev
	return math.Exp(-0.5*z*z) / (stddev * math.Sqrt(2*math.Pi))
}

// ApplyEmigration removes the tenure-decayed emigration share from every
// immigrant cohort. Natives are never touched. Returns the new state and the
// departure count.
func (e *Engine) ApplyEmigration(pop *domain.PopulationState, year int) (*domain.PopulationState, float64) {
	next := pop.Clone()
	var departures float64
	for key, count := range pop.Immigrants {
		rate := profiles[key.Type].EmigrationRate(key.YearsInCountry(year))
		left := count * rate
		if left >= count {
			left = count
		}
		departures += left
		if remaining := count - left; remaining > 0 {
			next.Immigrants[key] = remaining
		} else {
			delete(next.Immigrants, key)
		}
	}
	return next, departures
}

// StepResult reports the flows of one immigration step.
type StepResult struct {
	Arrivals      float64
	Departures    float64
	ArrivalByType map[domain.ImmigrantType]float64
}

// Step adds the year's arrivals (placed by age) and then applies emigration
// to the post-arrival stock, so new cohorts carry arrival-year emigration
// risk too.
func (e *Engine) Step(pop *domain.PopulationState, year int, scenario *domain.Scenario) (*domain.PopulationState, StepResult) {
	next := pop.Clone()
	res := StepResult{ArrivalByType: make(map[domain.ImmigrantType]float64, len(domain.ImmigrantTypes))}

	for _, t := range domain.ImmigrantTypes {
		count := e.ArrivalsForYear(year, t, scenario)
		res.ArrivalByType[t] = count
		res.Arrivals += count
		for key, n := range PlaceArrivals(count, t, year) {
			next.Immigrants[key] += n
		}
	}

	next, departures := e.ApplyEmigration(next, year)
	res.Departures = departures
	return next, res
}
