// Package config parses and validates simulation run files.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
)

// RunConfig is the fully resolved run description: the year range plus one
// or more policy scenarios.
type RunConfig struct {
	StartYear     int
	EndYear       int
	ValidateSteps bool
	Scenarios     []*domain.Scenario
}

// File-level YAML shapes. Presets and explicit values can be mixed; explicit
// values win over presets.
type fileConfig struct {
	Simulation simulationSpec `yaml:"simulation"`
	Scenarios  []scenarioSpec `yaml:"scenarios"`
}

type simulationSpec struct {
	StartYear     int  `yaml:"startYear"`
	EndYear       int  `yaml:"endYear"`
	ValidateSteps bool `yaml:"validateSteps"`
}

type scenarioSpec struct {
	Name              string   `yaml:"name"`
	TFRTarget         *float64 `yaml:"tfrTarget"`
	TFRTransitionYear *int     `yaml:"tfrTransitionYear"`

	ImmigrationPreset string       `yaml:"immigrationPreset"`
	Immigration       *volumesSpec `yaml:"immigration"`

	GDPPreset    string   `yaml:"gdpPreset"`
	GDPRate      *float64 `yaml:"gdpRate"`
	Productivity *float64 `yaml:"productivity"`

	InterestPreset string   `yaml:"interestPreset"`
	InterestRate   *float64 `yaml:"interestRate"`

	SpendingPreset string `yaml:"spendingPreset"`
}

type volumesSpec struct {
	Work         float64 `yaml:"work"`
	Family       float64 `yaml:"family"`
	Humanitarian float64 `yaml:"humanitarian"`
}

// InputParser handles parsing of run configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a run configuration from a YAML file, resolving named
// presets and validating the result.
func (ip *InputParser) LoadFromFile(filename string) (*RunConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse resolves and validates a run configuration from raw YAML bytes.
func (ip *InputParser) Parse(data []byte) (*RunConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg, err := ip.resolve(&fc)
	if err != nil {
		return nil, err
	}
	if err := ip.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (ip *InputParser) resolve(fc *fileConfig) (*RunConfig, error) {
	cfg := &RunConfig{
		StartYear:     fc.Simulation.StartYear,
		EndYear:       fc.Simulation.EndYear,
		ValidateSteps: fc.Simulation.ValidateSteps,
	}
	for i := range fc.Scenarios {
		scenario, err := ip.resolveScenario(&fc.Scenarios[i])
		if err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i, fc.Scenarios[i].Name, err)
		}
		cfg.Scenarios = append(cfg.Scenarios, scenario)
	}
	return cfg, nil
}

// resolveScenario starts from the baseline and layers the file's presets and
// explicit overrides on top. Unknown preset names fail here, before any
// simulation step runs.
func (ip *InputParser) resolveScenario(spec *scenarioSpec) (*domain.Scenario, error) {
	scenario := refdata.BaselineScenario()
	scenario.Name = spec.Name

	if spec.TFRTarget != nil {
		scenario.TFRTarget = decimal.NewFromFloat(*spec.TFRTarget)
	}
	if spec.TFRTransitionYear != nil {
		scenario.TFRTransitionYear = *spec.TFRTransitionYear
	}

	if spec.ImmigrationPreset != "" {
		volumes, err := refdata.ImmigrationPreset(spec.ImmigrationPreset)
		if err != nil {
			return nil, err
		}
		scenario.Immigration = volumes
	}
	if spec.Immigration != nil {
		scenario.Immigration = domain.ImmigrationVolumes{
			Work:         spec.Immigration.Work,
			Family:       spec.Immigration.Family,
			Humanitarian: spec.Immigration.Humanitarian,
		}
	}

	if spec.GDPPreset != "" {
		gdp, err := refdata.GDPPreset(spec.GDPPreset)
		if err != nil {
			return nil, err
		}
		scenario.GDP = gdp
	}
	if spec.GDPRate != nil {
		scenario.GDP = domain.GDPScenario{
			Kind: domain.GDPFixedRate,
			Rate: decimal.NewFromFloat(*spec.GDPRate),
		}
	}
	if spec.Productivity != nil {
		scenario.GDP = domain.GDPScenario{
			Kind:         domain.GDPWorkforceAdjusted,
			Productivity: decimal.NewFromFloat(*spec.Productivity),
		}
	}

	if spec.InterestPreset != "" {
		interest, err := refdata.InterestPreset(spec.InterestPreset)
		if err != nil {
			return nil, err
		}
		scenario.Interest = interest
	}
	if spec.InterestRate != nil {
		scenario.Interest = domain.InterestScenario{Rate: decimal.NewFromFloat(*spec.InterestRate)}
	}

	if spec.SpendingPreset != "" {
		spendingScenario, err := refdata.SpendingPreset(spec.SpendingPreset)
		if err != nil {
			return nil, err
		}
		scenario.Spending = spendingScenario
	}
	return scenario, nil
}

// Validate validates the resolved run configuration.
func (ip *InputParser) Validate(cfg *RunConfig) error {
	if err := ip.validateRange(cfg); err != nil {
		return err
	}
	if len(cfg.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	seen := make(map[string]bool, len(cfg.Scenarios))
	for i, scenario := range cfg.Scenarios {
		if scenario.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if err := scenario.Validate(); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = true
	}
	return nil
}

func (ip *InputParser) validateRange(cfg *RunConfig) error {
	if cfg.StartYear < 1900 || cfg.StartYear > 2150 {
		return fmt.Errorf("start year %d out of range", cfg.StartYear)
	}
	if cfg.EndYear < cfg.StartYear {
		return fmt.Errorf("end year %d before start year %d", cfg.EndYear, cfg.StartYear)
	}
	if cfg.EndYear-cfg.StartYear > 150 {
		return fmt.Errorf("year range %d-%d exceeds 150 years", cfg.StartYear, cfg.EndYear)
	}
	return nil
}
