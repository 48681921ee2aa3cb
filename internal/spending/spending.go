// Package spending is the parallel, coarser costing engine: it projects
// government expenditure per COFOG division from its declared driver and
// rolls the result up for cross-checking against the bottom-up fiscal
// aggregation.
package spending

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
)

// Driver declares what moves a spending group over time.
type Driver uint8

const (
	// DriverDemographicElderly scales with the elderly population ratio.
	DriverDemographicElderly Driver = iota
	// DriverDemographicChildren scales with the child population ratio.
	DriverDemographicChildren
	// DriverPopulation holds per-capita spending constant.
	DriverPopulation
	// DriverGDP holds the GDP share constant.
	DriverGDP
	// DriverDiscretionary compounds a fixed real growth rate.
	DriverDiscretionary
	// DriverMixed splits government operations into an administrative
	// portion following GDP and a debt-service portion following the debt
	// stock and interest rate.
	DriverMixed
)

func driverFromString(s string) (Driver, error) {
	switch s {
	case "demographic-elderly":
		return DriverDemographicElderly, nil
	case "demographic-children":
		return DriverDemographicChildren, nil
	case "population":
		return DriverPopulation, nil
	case "gdp":
		return DriverGDP, nil
	case "discretionary":
		return DriverDiscretionary, nil
	case "mixed":
		return DriverMixed, nil
	}
	return 0, fmt.Errorf("spending: unknown driver %q", s)
}

// Group is one COFOG division with its base-year level in EUR billions.
type Group struct {
	Code   string
	Name   string
	Driver Driver
	Base   decimal.Decimal
}

// Baseline fixes the base-year context every projection is relative to.
type Baseline struct {
	Population   float64
	ElderlyRatio float64 // elderly / total
	ChildRatio   float64 // children / total
	WorkingRatio float64 // working-age / total
	GDP          decimal.Decimal
	Debt         decimal.Decimal
	InterestRate decimal.Decimal
}

// BaselineFromState derives the base-year context from a simulation state,
// typically the reconstructed state the run starts from.
func BaselineFromState(state *domain.SimulationState) Baseline {
	b := Baseline{
		Population:   state.Population.Total(),
		GDP:          state.Economy.GDP,
		Debt:         state.Economy.Debt,
		InterestRate: state.Economy.InterestRate,
	}
	if b.Population > 0 {
		b.ElderlyRatio = state.Population.Elderly() / b.Population
		b.ChildRatio = state.Population.Children() / b.Population
		b.WorkingRatio = state.Population.WorkingAge() / b.Population
	}
	return b
}

// Inputs carries the current-year context for a projection.
type Inputs struct {
	Year         int
	Population   float64
	ElderlyRatio float64
	ChildRatio   float64
	WorkingRatio float64
	GDP          decimal.Decimal
	Debt         decimal.Decimal
	InterestRate decimal.Decimal
}

// Share of social protection treated as pensions in the legacy rollup.
var pensionShareOfSocial = decimal.NewFromFloat(0.6)

// Mixed-driver split of government operations.
var (
	adminShare = decimal.NewFromFloat(0.6)
	debtShare  = decimal.NewFromFloat(0.4)
)

const discretionaryGrowth = 0.01
const optimisticDebtServiceDecay = 0.98

// Projector projects COFOG expenditure forward from a base year.
type Projector struct {
	groups   []Group
	baseYear int
	baseline Baseline
	scenario domain.SpendingScenario
}

// NewProjector builds a projector from the reference spending table and the
// base-year context.
func NewProjector(ref *refdata.Store, baseline Baseline, scenario domain.SpendingScenario) (*Projector, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	data := ref.SpendingBase()
	if data == nil {
		return nil, refdata.ErrNotLoaded
	}
	groups := make([]Group, 0, len(data))
	for _, g := range data {
		driver, err := driverFromString(g.Driver)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Code, err)
		}
		groups = append(groups, Group{
			Code:   g.Code,
			Name:   g.Name,
			Driver: driver,
			Base:   decimal.NewFromFloat(g.Base),
		})
	}
	return &Projector{
		groups:   groups,
		baseYear: ref.BaseYear(),
		baseline: baseline,
		scenario: scenario,
	}, nil
}

// Project computes the expenditure level of every group for a year. Years at
// or before the base year return the base levels unchanged.
func (p *Projector) Project(in Inputs) domain.SpendingProjection {
	proj := domain.SpendingProjection{Year: in.Year, Groups: make([]domain.GroupSpending, 0, len(p.groups))}
	years := in.Year - p.baseYear
	for _, g := range p.groups {
		amount := g.Base
		if years > 0 {
			amount = p.projectGroup(g, in, years)
		}
		proj.Groups = append(proj.Groups, domain.GroupSpending{Code: g.Code, Name: g.Name, Amount: amount})
		proj.Total = proj.Total.Add(amount)
	}
	return proj
}

func (p *Projector) projectGroup(g Group, in Inputs, years int) decimal.Decimal {
	switch g.Driver {
	case DriverDemographicElderly:
		return g.Base.Mul(p.demographicFactor(in, 0.7, 0.1)).Mul(p.scenarioFactor(years))
	case DriverDemographicChildren:
		return g.Base.Mul(p.demographicFactor(in, 0.1, 0.7)).Mul(p.scenarioFactor(years))
	case DriverPopulation:
		if p.baseline.Population <= 0 {
			return g.Base
		}
		return g.Base.Mul(decimal.NewFromFloat(in.Population / p.baseline.Population))
	case DriverGDP:
		if !p.baseline.GDP.IsPositive() {
			return g.Base
		}
		return g.Base.Mul(in.GDP.Div(p.baseline.GDP))
	case DriverDiscretionary:
		return g.Base.Mul(compound(discretionaryGrowth, years))
	case DriverMixed:
		return p.projectMixed(g, in, years)
	}
	return g.Base
}

// demographicFactor blends the population-structure ratios against the base
// year: the dominant band gets the given weight, the other band the residual
// small weight, and working-age always contributes 0.2.
func (p *Projector) demographicFactor(in Inputs, elderlyWeight, childWeight float64) decimal.Decimal {
	ratio := func(current, base float64) float64 {
		if base <= 0 {
			return 1
		}
		return current / base
	}
	blended := elderlyWeight*ratio(in.ElderlyRatio, p.baseline.ElderlyRatio) +
		childWeight*ratio(in.ChildRatio, p.baseline.ChildRatio) +
		0.2*ratio(in.WorkingRatio, p.baseline.WorkingRatio)
	return decimal.NewFromFloat(blended)
}

func (p *Projector) scenarioFactor(years int) decimal.Decimal {
	return p.scenario.Multiplier().Pow(decimal.NewFromInt(int64(years)))
}

// projectMixed splits government operations: the administrative portion
// follows GDP (frozen under austerity), the debt-service portion follows
// debt-stock times interest-rate ratios, or an optimistic compounding
// reduction.
func (p *Projector) projectMixed(g Group, in Inputs, years int) decimal.Decimal {
	admin := g.Base.Mul(adminShare)
	if p.scenario.Kind != domain.SpendingAusterity && p.baseline.GDP.IsPositive() {
		admin = admin.Mul(in.GDP.Div(p.baseline.GDP))
	}

	service := g.Base.Mul(debtShare)
	if p.scenario.OptimisticDebtService {
		service = service.Mul(compound(optimisticDebtServiceDecay-1, years))
	} else {
		baseService := p.baseline.Debt.Mul(p.baseline.InterestRate)
		currentService := in.Debt.Mul(in.InterestRate)
		if baseService.IsPositive() {
			service = service.Mul(currentService.Div(baseService))
		}
	}
	return admin.Add(service)
}

func compound(rate float64, years int) decimal.Decimal {
	return decimal.NewFromFloat(1 + rate).Pow(decimal.NewFromInt(int64(years)))
}

// LegacyRollup folds a projection into the legacy 4-category shape.
func (p *Projector) LegacyRollup(proj domain.SpendingProjection) domain.SpendingRollup {
	var r domain.SpendingRollup
	for _, g := range proj.Groups {
		switch g.Code {
		case "G09":
			r.Education = r.Education.Add(g.Amount)
		case "G07":
			r.Healthcare = r.Healthcare.Add(g.Amount)
		case "G10":
			pensions := g.Amount.Mul(pensionShareOfSocial)
			r.Pensions = r.Pensions.Add(pensions)
			r.Benefits = r.Benefits.Add(g.Amount.Sub(pensions))
		default:
			r.Other = r.Other.Add(g.Amount)
		}
	}
	return r
}
