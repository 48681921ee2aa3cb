package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarvonen/vaesto/internal/refdata"
	"github.com/okarvonen/vaesto/internal/sim"
)

func testEngine(t *testing.T) (*sim.Engine, *refdata.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := refdata.NewStore(logger)
	require.NoError(t, store.Load(context.Background()))
	engine, err := sim.NewEngine(store, logger)
	require.NoError(t, err)
	return engine, store
}

func TestAttachSpendingAnchorsAtBaseYear(t *testing.T) {
	engine, store := testEngine(t)
	scenario := refdata.BaselineScenario()
	require.NoError(t, attachSpending(engine, scenario))

	// Cross the base year the projector is anchored to. The first projected
	// year must continue from the base-year table even for runs that start
	// decades earlier.
	state, err := engine.InitializeState(store.BaseYear(), sim.InitOptions{}, scenario)
	require.NoError(t, err)
	_, result, err := engine.AdvanceYear(state, scenario)
	require.NoError(t, err)
	require.NotNil(t, result.Spending)

	var baseTotal float64
	for _, g := range store.SpendingBase() {
		baseTotal += g.Base
	}
	assert.InEpsilon(t, baseTotal, result.Spending.Total.InexactFloat64(), 0.05,
		"one year past the base year total spending stays near the base levels")
}

func TestLoadRunConfigRespectsFileYears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
simulation: {startYear: 2000, endYear: 2010}
scenarios: [{name: a}]
`), 0o644))

	flagScenarioFile = path
	defer func() { flagScenarioFile = "" }()

	// Untouched year flags keep the file's range despite their non-zero
	// defaults.
	cfg, err := loadRunConfig(simulateCmd)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.StartYear)
	assert.Equal(t, 2010, cfg.EndYear)

	// A flag the user actually set still wins.
	require.NoError(t, simulateCmd.Flags().Set("start", "1995"))
	cfg, err = loadRunConfig(simulateCmd)
	require.NoError(t, err)
	assert.Equal(t, 1995, cfg.StartYear)
	assert.Equal(t, 2010, cfg.EndYear)
}
