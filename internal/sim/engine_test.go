package sim

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
	"github.com/okarvonen/vaesto/internal/spending"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	store := refdata.NewStore(nil)
	require.NoError(t, store.Load(context.Background()))
	engine, err := NewEngine(store, nil)
	require.NoError(t, err)
	return engine
}

func testScenario() *domain.Scenario {
	return refdata.BaselineScenario()
}

func TestNewEngineRequiresLoadedStore(t *testing.T) {
	_, err := NewEngine(refdata.NewStore(nil), nil)
	assert.ErrorIs(t, err, refdata.ErrNotLoaded)
}

func TestInitializeStateMatchesReference(t *testing.T) {
	e := testEngine(t)

	state, err := e.InitializeState(2023, InitOptions{}, testScenario())
	require.NoError(t, err)

	reference, ok := e.Ref.PopulationReference(2023)
	require.True(t, ok)
	deviation := math.Abs(state.Population.Total()-reference) / reference
	assert.Less(t, deviation, 0.10,
		"reconstructed 2023 population should land within 10%% of the record")

	assert.True(t, state.Historical)
	assert.True(t, state.Economy.GDP.IsPositive())
	assert.True(t, state.Economy.GrowthMultiplier.Equal(decimal.NewFromInt(1)))
	assert.Greater(t, state.Population.ImmigrantTotal(), 0.0,
		"arrival replay seeds an immigrant stock")
}

func TestInitializeStateDeepHistory(t *testing.T) {
	e := testEngine(t)

	state, err := e.InitializeState(1989, InitOptions{}, testScenario())
	require.NoError(t, err)

	assert.Greater(t, state.Population.Total(), 3_000_000.0)
	assert.True(t, state.Economy.GDP.IsPositive(),
		"pre-series GDP is backcast, not an error")
}

func TestAdvanceYearConservation(t *testing.T) {
	e := testEngine(t)
	scenario := testScenario()

	state, err := e.InitializeState(2029, InitOptions{}, scenario)
	require.NoError(t, err)

	next, res, err := e.AdvanceYear(state, scenario)
	require.NoError(t, err)

	assert.Equal(t, 2030, next.Year)
	assert.False(t, res.Historical)
	expected := state.Population.Total() + res.Births - res.Deaths + res.Arrivals - res.Departures
	assert.InDelta(t, expected, next.Population.Total(), 1.0,
		"population change equals the sum of flows")

	assert.True(t, res.Fiscal.TotalRevenue.IsPositive())
	assert.True(t, res.Fiscal.Costs.Interest.IsPositive(), "interest is layered into the flows")
	assert.True(t, res.AdjustedFiscal.TotalRevenue.GreaterThan(res.Fiscal.TotalRevenue),
		"growth adjustment raises projected revenue")
	assert.True(t, res.DebtToGDP.IsPositive())
	assert.True(t, res.SpendingShareGDP.IsPositive())
	assert.Nil(t, res.Spending, "no spending projection without a projector attached")
}

func TestAdvanceYearDoesNotMutateInput(t *testing.T) {
	e := testEngine(t)
	scenario := testScenario()

	state, err := e.InitializeState(2029, InitOptions{}, scenario)
	require.NoError(t, err)
	before := state.Population.Total()

	_, _, err = e.AdvanceYear(state, scenario)
	require.NoError(t, err)
	assert.Equal(t, before, state.Population.Total(), "transitions return new state")
}

func TestAdvanceYearWithSpendingProjector(t *testing.T) {
	e := testEngine(t)
	scenario := testScenario()

	state, err := e.InitializeState(2029, InitOptions{}, scenario)
	require.NoError(t, err)

	projector, err := spending.NewProjector(e.Ref, spending.BaselineFromState(state), scenario.Spending)
	require.NoError(t, err)
	e.AttachSpendingProjector(projector)

	_, res, err := e.AdvanceYear(state, scenario)
	require.NoError(t, err)
	require.NotNil(t, res.Spending)
	assert.Len(t, res.Spending.Groups, 10)
	require.NotNil(t, res.SpendingLegacy)
	assert.True(t, res.SpendingLegacy.Healthcare.IsPositive())
}

func TestSimulateRangeLongRun(t *testing.T) {
	e := testEngine(t)

	run, err := e.SimulateRange(1990, 2060, testScenario(), true)
	require.NoError(t, err)
	require.Len(t, run.Annual, 71)

	var prev *domain.YearResult
	for i := range run.Annual {
		r := &run.Annual[i]
		assert.False(t, math.IsNaN(r.TotalPopulation), "year %d", r.Year)
		assert.Greater(t, r.TotalPopulation, 0.0, "year %d", r.Year)
		assert.True(t, r.GDP.IsPositive(), "year %d", r.Year)
		if prev != nil && prev.TotalPopulation > 0 {
			change := math.Abs(r.TotalPopulation-prev.TotalPopulation) / prev.TotalPopulation
			assert.Less(t, change, 0.05, "year %d moved %.1f%% in one year", r.Year, change*100)
		}
		prev = r
	}

	assert.True(t, run.Annual[0].Historical)
	assert.False(t, run.Annual[len(run.Annual)-1].Historical)
	assert.Equal(t, 1990, run.Summary.StartYear)
	assert.NotNil(t, run.Validation)
	assert.Empty(t, run.Validation.Errors)
	assert.NotNil(t, run.FinalState)
}

func TestSimulateRangeRejectsBadArgs(t *testing.T) {
	e := testEngine(t)

	_, err := e.SimulateRange(2040, 2030, testScenario(), false)
	assert.Error(t, err)

	_, err = e.SimulateRange(2030, 2040, nil, false)
	assert.Error(t, err)

	bad := testScenario()
	bad.TFRTarget = decimal.NewFromFloat(9)
	_, err = e.SimulateRange(2030, 2040, bad, false)
	assert.Error(t, err)
}

func TestHigherFertilityMeansMorePeople(t *testing.T) {
	e := testEngine(t)

	low := testScenario()
	low.Name = "low-tfr"
	low.TFRTarget = decimal.NewFromFloat(1.2)
	high := testScenario()
	high.Name = "high-tfr"
	high.TFRTarget = decimal.NewFromFloat(1.9)

	runs, err := e.CompareScenarios(2024, 2060, []*domain.Scenario{low, high}, false)
	require.NoError(t, err)

	assert.Greater(t, runs[1].Summary.EndPopulation, runs[0].Summary.EndPopulation)
}

func TestMoreImmigrationMeansMorePeople(t *testing.T) {
	e := testEngine(t)

	closed := testScenario()
	closed.Name = "closed"
	closed.Immigration = domain.ImmigrationVolumes{}
	open := testScenario()
	open.Name = "open"
	open.Immigration = domain.ImmigrationVolumes{Work: 30000, Family: 20000, Humanitarian: 12000}

	runs, err := e.CompareScenarios(2024, 2050, []*domain.Scenario{closed, open}, false)
	require.NoError(t, err)

	assert.Greater(t, runs[1].Summary.EndPopulation, runs[0].Summary.EndPopulation)
}

func TestRunIsDeterministic(t *testing.T) {
	e := testEngine(t)

	a, err := e.SimulateRange(2024, 2040, testScenario(), false)
	require.NoError(t, err)
	e.Fiscal.ClearCache()
	b, err := e.SimulateRange(2024, 2040, testScenario(), false)
	require.NoError(t, err)

	require.Len(t, b.Annual, len(a.Annual))
	for i := range a.Annual {
		assert.Equal(t, a.Annual[i].TotalPopulation, b.Annual[i].TotalPopulation, "year %d", a.Annual[i].Year)
		assert.True(t, a.Annual[i].AdjustedFiscal.Balance.Equal(b.Annual[i].AdjustedFiscal.Balance),
			"year %d", a.Annual[i].Year)
	}
}

func TestValidateStateCatchesCorruption(t *testing.T) {
	e := testEngine(t)
	state, err := e.InitializeState(2023, InitOptions{}, testScenario())
	require.NoError(t, err)

	assert.True(t, ValidateState(state).Valid)

	state.Population.Native[40] = math.NaN()
	res := ValidateState(state)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}

func TestToLegacyResult(t *testing.T) {
	e := testEngine(t)

	run, err := e.SimulateRange(2024, 2030, testScenario(), false)
	require.NoError(t, err)

	timeline := ToLegacyTimeline(run)
	require.Len(t, timeline, len(run.Annual))

	last := timeline[len(timeline)-1]
	src := run.Annual[len(run.Annual)-1]
	assert.Equal(t, src.Year, last.Year)
	assert.Equal(t, src.TotalPopulation, last.Population)
	assert.InDelta(t, src.Arrivals-src.Departures, last.NetMigration, 1e-9)
	assert.InDelta(t, src.AdjustedFiscal.Balance.InexactFloat64(), last.Balance, 1e-6)
	assert.False(t, last.IsHistorical)
}
