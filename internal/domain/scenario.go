package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GDPScenarioKind selects how future GDP growth is determined. The set is
// closed: switches over it must handle every kind and treat anything else as
// a configuration error, never as a silent fallback.
type GDPScenarioKind uint8

const (
	// GDPFixedRate grows GDP by a constant annual rate.
	GDPFixedRate GDPScenarioKind = iota
	// GDPWorkforceAdjusted grows GDP by productivity growth plus the relative
	// change in the working-age population.
	GDPWorkforceAdjusted
)

// GDPScenario configures GDP growth for projected years. Historical years
// always use the recorded series regardless of the scenario.
type GDPScenario struct {
	Kind GDPScenarioKind `json:"kind" yaml:"kind"`
	// Rate is the annual growth rate for GDPFixedRate.
	Rate decimal.Decimal `json:"rate" yaml:"rate"`
	// Productivity is the annual productivity growth for GDPWorkforceAdjusted.
	Productivity decimal.Decimal `json:"productivity" yaml:"productivity"`
}

// Validate checks the scenario kind and bounds.
func (s GDPScenario) Validate() error {
	switch s.Kind {
	case GDPFixedRate:
		if s.Rate.LessThan(decimal.NewFromFloat(-0.10)) || s.Rate.GreaterThan(decimal.NewFromFloat(0.10)) {
			return fmt.Errorf("gdp growth rate must be between -10%% and 10%%, got %s", s.Rate)
		}
	case GDPWorkforceAdjusted:
		if s.Productivity.LessThan(decimal.NewFromFloat(-0.05)) || s.Productivity.GreaterThan(decimal.NewFromFloat(0.10)) {
			return fmt.Errorf("productivity growth must be between -5%% and 10%%, got %s", s.Productivity)
		}
	default:
		return fmt.Errorf("unknown gdp scenario kind %d", s.Kind)
	}
	return nil
}

// InterestScenario configures the interest rate applied to projected debt.
type InterestScenario struct {
	Rate decimal.Decimal `json:"rate" yaml:"rate"`
}

// Validate bounds the rate.
func (s InterestScenario) Validate() error {
	if s.Rate.IsNegative() || s.Rate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("interest rate must be between 0%% and 20%%, got %s", s.Rate)
	}
	return nil
}

// ImmigrationVolumes gives yearly arrivals per cohort type for projected
// years. Historical years use the recorded arrival series.
type ImmigrationVolumes struct {
	Work         float64 `json:"work" yaml:"work"`
	Family       float64 `json:"family" yaml:"family"`
	Humanitarian float64 `json:"humanitarian" yaml:"humanitarian"`
}

// ByType returns the configured volume for one cohort type.
func (v ImmigrationVolumes) ByType(t ImmigrantType) float64 {
	switch t {
	case ImmigrantWork:
		return v.Work
	case ImmigrantFamily:
		return v.Family
	case ImmigrantHumanitarian:
		return v.Humanitarian
	}
	return 0
}

// Total sums all types.
func (v ImmigrationVolumes) Total() float64 {
	return v.Work + v.Family + v.Humanitarian
}

// Validate checks the volumes are non-negative and plausible.
func (v ImmigrationVolumes) Validate() error {
	for _, t := range ImmigrantTypes {
		n := v.ByType(t)
		if n < 0 {
			return fmt.Errorf("%s immigration volume cannot be negative", t)
		}
		if n > 500000 {
			return fmt.Errorf("%s immigration volume %0.f is implausibly large", t, n)
		}
	}
	return nil
}

// SpendingScenarioKind selects the overall stance of the COFOG spending
// projection. Closed set, exhaustively matched.
type SpendingScenarioKind uint8

const (
	// SpendingBaseline projects every group by its declared driver unchanged.
	SpendingBaseline SpendingScenarioKind = iota
	// SpendingAusterity dampens demographic-driven groups and shrinks
	// discretionary spending in real terms.
	SpendingAusterity
	// SpendingExpansion amplifies demographic-driven groups.
	SpendingExpansion
)

// SpendingScenario configures the parallel spending projection.
type SpendingScenario struct {
	Kind SpendingScenarioKind `json:"kind" yaml:"kind"`
	// OptimisticDebtService replaces the debt-stock-driven service cost with
	// a compounding reduction.
	OptimisticDebtService bool `json:"optimisticDebtService" yaml:"optimisticDebtService"`
}

// Multiplier returns the yearly compounding multiplier applied to
// demographic-driven spending groups.
func (s SpendingScenario) Multiplier() decimal.Decimal {
	switch s.Kind {
	case SpendingAusterity:
		return decimal.NewFromFloat(0.995)
	case SpendingExpansion:
		return decimal.NewFromFloat(1.005)
	default:
		return decimal.NewFromInt(1)
	}
}

// Validate checks the scenario kind.
func (s SpendingScenario) Validate() error {
	switch s.Kind {
	case SpendingBaseline, SpendingAusterity, SpendingExpansion:
		return nil
	}
	return fmt.Errorf("unknown spending scenario kind %d", s.Kind)
}

// Scenario is the full policy configuration for one simulation run. It is
// supplied once per run and read-only thereafter.
type Scenario struct {
	Name string `json:"name" yaml:"name"`

	// TFRTarget is the total fertility rate the projection converges to by
	// TFRTransitionYear, interpolating linearly from the last recorded TFR.
	TFRTarget         decimal.Decimal `json:"tfrTarget" yaml:"tfrTarget"`
	TFRTransitionYear int             `json:"tfrTransitionYear" yaml:"tfrTransitionYear"`

	Immigration ImmigrationVolumes `json:"immigration" yaml:"immigration"`
	GDP         GDPScenario        `json:"gdp" yaml:"gdp"`
	Interest    InterestScenario   `json:"interest" yaml:"interest"`
	Spending    SpendingScenario   `json:"spending" yaml:"spending"`
}

// Validate checks every scenario family.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.TFRTarget.LessThan(decimal.NewFromFloat(0.5)) || s.TFRTarget.GreaterThan(decimal.NewFromFloat(4.0)) {
		return fmt.Errorf("tfr target must be between 0.5 and 4.0, got %s", s.TFRTarget)
	}
	if s.TFRTransitionYear < 2024 || s.TFRTransitionYear > 2150 {
		return fmt.Errorf("tfr transition year %d out of range", s.TFRTransitionYear)
	}
	if err := s.Immigration.Validate(); err != nil {
		return fmt.Errorf("immigration: %w", err)
	}
	if err := s.GDP.Validate(); err != nil {
		return fmt.Errorf("gdp: %w", err)
	}
	if err := s.Interest.Validate(); err != nil {
		return fmt.Errorf("interest: %w", err)
	}
	if err := s.Spending.Validate(); err != nil {
		return fmt.Errorf("spending: %w", err)
	}
	return nil
}
