package refdata

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
)

// Named scenario presets. Lookup is by identifier at configuration-load time
// so an unknown name fails before any simulation step runs.

// GDPPreset resolves a named GDP scenario.
func GDPPreset(name string) (domain.GDPScenario, error) {
	switch name {
	case "pessimistic":
		return domain.GDPScenario{Kind: domain.GDPFixedRate, Rate: decimal.NewFromFloat(0.005)}, nil
	case "baseline":
		return domain.GDPScenario{Kind: domain.GDPFixedRate, Rate: decimal.NewFromFloat(0.015)}, nil
	case "optimistic":
		return domain.GDPScenario{Kind: domain.GDPFixedRate, Rate: decimal.NewFromFloat(0.025)}, nil
	case "workforce":
		return domain.GDPScenario{Kind: domain.GDPWorkforceAdjusted, Productivity: decimal.NewFromFloat(0.012)}, nil
	}
	return domain.GDPScenario{}, fmt.Errorf("unknown gdp preset %q", name)
}

// InterestPreset resolves a named interest-rate scenario.
func InterestPreset(name string) (domain.InterestScenario, error) {
	switch name {
	case "low":
		return domain.InterestScenario{Rate: decimal.NewFromFloat(0.010)}, nil
	case "baseline":
		return domain.InterestScenario{Rate: decimal.NewFromFloat(0.025)}, nil
	case "high":
		return domain.InterestScenario{Rate: decimal.NewFromFloat(0.040)}, nil
	}
	return domain.InterestScenario{}, fmt.Errorf("unknown interest preset %q", name)
}

// ImmigrationPreset resolves a named immigration volume profile.
func ImmigrationPreset(name string) (domain.ImmigrationVolumes, error) {
	switch name {
	case "current":
		return domain.ImmigrationVolumes{Work: 15000, Family: 12000, Humanitarian: 8000}, nil
	case "reduced":
		return domain.ImmigrationVolumes{Work: 7500, Family: 6000, Humanitarian: 4000}, nil
	case "work-focused":
		return domain.ImmigrationVolumes{Work: 25000, Family: 8000, Humanitarian: 4000}, nil
	case "high":
		return domain.ImmigrationVolumes{Work: 30000, Family: 20000, Humanitarian: 12000}, nil
	}
	return domain.ImmigrationVolumes{}, fmt.Errorf("unknown immigration preset %q", name)
}

// SpendingPreset resolves a named spending stance.
func SpendingPreset(name string) (domain.SpendingScenario, error) {
	switch name {
	case "baseline":
		return domain.SpendingScenario{Kind: domain.SpendingBaseline}, nil
	case "austerity":
		return domain.SpendingScenario{Kind: domain.SpendingAusterity, OptimisticDebtService: true}, nil
	case "expansion":
		return domain.SpendingScenario{Kind: domain.SpendingExpansion}, nil
	}
	return domain.SpendingScenario{}, fmt.Errorf("unknown spending preset %q", name)
}

// BaselineScenario returns the default policy scenario used when a run is
// started without a scenario file.
func BaselineScenario() *domain.Scenario {
	gdp, _ := GDPPreset("baseline")
	interest, _ := InterestPreset("baseline")
	immigration, _ := ImmigrationPreset("current")
	spending, _ := SpendingPreset("baseline")
	return &domain.Scenario{
		Name:              "baseline",
		TFRTarget:         decimal.NewFromFloat(1.45),
		TFRTransitionYear: 2040,
		Immigration:       immigration,
		GDP:               gdp,
		Interest:          interest,
		Spending:          spending,
	}
}
