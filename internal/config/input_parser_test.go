package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarvonen/vaesto/internal/domain"
)

const sampleConfig = `
simulation:
  startYear: 2024
  endYear: 2060
  validateSteps: true

scenarios:
  - name: baseline
  - name: austerity-low-growth
    gdpPreset: pessimistic
    interestPreset: high
    spendingPreset: austerity
    immigrationPreset: reduced
  - name: custom
    tfrTarget: 1.8
    tfrTransitionYear: 2045
    gdpRate: 0.02
    interestRate: 0.03
    immigration:
      work: 20000
      family: 10000
      humanitarian: 5000
`

func TestParseFullConfig(t *testing.T) {
	parser := NewInputParser()

	cfg, err := parser.Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 2024, cfg.StartYear)
	assert.Equal(t, 2060, cfg.EndYear)
	assert.True(t, cfg.ValidateSteps)
	require.Len(t, cfg.Scenarios, 3)

	// An entry with only a name inherits every baseline default.
	baseline := cfg.Scenarios[0]
	assert.Equal(t, "baseline", baseline.Name)
	assert.True(t, baseline.TFRTarget.Equal(decimal.NewFromFloat(1.45)))

	// Presets resolve into concrete values.
	austerity := cfg.Scenarios[1]
	assert.Equal(t, domain.SpendingAusterity, austerity.Spending.Kind)
	assert.True(t, austerity.Interest.Rate.Equal(decimal.NewFromFloat(0.040)))
	assert.Equal(t, 7500.0, austerity.Immigration.Work)

	// Explicit values override everything.
	custom := cfg.Scenarios[2]
	assert.True(t, custom.TFRTarget.Equal(decimal.NewFromFloat(1.8)))
	assert.Equal(t, 2045, custom.TFRTransitionYear)
	assert.Equal(t, domain.GDPFixedRate, custom.GDP.Kind)
	assert.True(t, custom.GDP.Rate.Equal(decimal.NewFromFloat(0.02)))
	assert.Equal(t, 20000.0, custom.Immigration.Work)
	assert.Equal(t, 5000.0, custom.Immigration.Humanitarian)
}

func TestExplicitValueWinsOverPreset(t *testing.T) {
	parser := NewInputParser()

	cfg, err := parser.Parse([]byte(`
simulation: {startYear: 2024, endYear: 2030}
scenarios:
  - name: mixed
    gdpPreset: optimistic
    gdpRate: 0.001
`))
	require.NoError(t, err)
	assert.True(t, cfg.Scenarios[0].GDP.Rate.Equal(decimal.NewFromFloat(0.001)))
}

func TestProductivitySelectsWorkforceKind(t *testing.T) {
	parser := NewInputParser()

	cfg, err := parser.Parse([]byte(`
simulation: {startYear: 2024, endYear: 2030}
scenarios:
  - name: workforce
    productivity: 0.012
`))
	require.NoError(t, err)
	assert.Equal(t, domain.GDPWorkforceAdjusted, cfg.Scenarios[0].GDP.Kind)
}

func TestParseFailures(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", `{{{{`},
		{"unknown preset", `
simulation: {startYear: 2024, endYear: 2030}
scenarios: [{name: x, gdpPreset: moonshot}]`},
		{"no scenarios", `
simulation: {startYear: 2024, endYear: 2030}
scenarios: []`},
		{"missing name", `
simulation: {startYear: 2024, endYear: 2030}
scenarios: [{tfrTarget: 1.5}]`},
		{"duplicate names", `
simulation: {startYear: 2024, endYear: 2030}
scenarios: [{name: a}, {name: a}]`},
		{"reversed years", `
simulation: {startYear: 2040, endYear: 2030}
scenarios: [{name: a}]`},
		{"range too long", `
simulation: {startYear: 1900, endYear: 2100}
scenarios: [{name: a}]`},
		{"invalid tfr", `
simulation: {startYear: 2024, endYear: 2030}
scenarios: [{name: a, tfrTarget: 7.0}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Scenarios, 3)

	_, err = parser.LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
