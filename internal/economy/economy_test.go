package economy

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/refdata"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	store := refdata.NewStore(nil)
	require.NoError(t, store.Load(context.Background()))
	return New(store)
}

func testScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:              "test",
		TFRTarget:         decimal.NewFromFloat(1.45),
		TFRTransitionYear: 2040,
		GDP:               domain.GDPScenario{Kind: domain.GDPFixedRate, Rate: decimal.NewFromFloat(0.02)},
		Interest:          domain.InterestScenario{Rate: decimal.NewFromFloat(0.025)},
		Spending:          domain.SpendingScenario{Kind: domain.SpendingBaseline},
	}
}

func prevState() domain.EconomicState {
	return domain.EconomicState{
		GDP:              decimal.NewFromInt(280),
		GrowthMultiplier: decimal.NewFromInt(1),
		Debt:             decimal.NewFromInt(160),
		InterestRate:     decimal.NewFromFloat(0.03),
	}
}

func TestHistoricalStepReadsSeries(t *testing.T) {
	e := testEngine(t)

	res, err := e.Step(prevState(), 2020, testScenario(), 0, 0, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, res.Historical)
	recorded, _ := e.ref.GDP(2020)
	assert.True(t, res.State.GDP.Equal(recorded), "historical GDP comes from the record")
	assert.True(t, res.State.GrowthMultiplier.Equal(decimal.NewFromInt(1)),
		"no growth adjustment inside history")
	assert.True(t, res.InterestExpense.IsPositive())
}

func TestFixedRateGrowth(t *testing.T) {
	e := testEngine(t)
	prev := prevState()

	res, err := e.Step(prev, 2030, testScenario(), 0, 0, decimal.Zero)
	require.NoError(t, err)

	assert.False(t, res.Historical)
	expected := prev.GDP.Mul(decimal.NewFromFloat(1.02))
	assert.True(t, res.State.GDP.Equal(expected))
	assert.True(t, res.GrowthRate.Equal(decimal.NewFromFloat(0.02)))
	assert.True(t, res.State.GrowthMultiplier.Equal(decimal.NewFromFloat(1.02)),
		"the multiplier compounds with growth")
}

func TestWorkforceAdjustedGrowth(t *testing.T) {
	e := testEngine(t)
	scenario := testScenario()
	scenario.GDP = domain.GDPScenario{
		Kind:         domain.GDPWorkforceAdjusted,
		Productivity: decimal.NewFromFloat(0.012),
	}

	// A 1% workforce decline nets against productivity.
	res, err := e.Step(prevState(), 2030, scenario, 990_000, 1_000_000, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.GrowthRate.Sub(decimal.NewFromFloat(0.002)).Abs().LessThan(decimal.NewFromFloat(1e-9)))

	// No previous workforce means productivity alone.
	res, err = e.Step(prevState(), 2030, scenario, 990_000, 0, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.GrowthRate.Equal(decimal.NewFromFloat(0.012)))
}

func TestUnknownGrowthKindFails(t *testing.T) {
	e := testEngine(t)
	scenario := testScenario()
	scenario.GDP.Kind = domain.GDPScenarioKind(99)

	_, err := e.Step(prevState(), 2030, scenario, 0, 0, decimal.Zero)
	assert.Error(t, err, "an unknown kind is a configuration error, not a fallback")
}

func TestDebtRespondsSymmetrically(t *testing.T) {
	e := testEngine(t)
	scenario := testScenario()
	prev := prevState()

	surplus, err := e.Step(prev, 2030, scenario, 0, 0, decimal.NewFromInt(5000))
	require.NoError(t, err)
	deficit, err := e.Step(prev, 2030, scenario, 0, 0, decimal.NewFromInt(-5000))
	require.NoError(t, err)

	assert.True(t, surplus.State.Debt.Equal(decimal.NewFromInt(155)),
		"a 5B surplus pays down 5B of debt")
	assert.True(t, deficit.State.Debt.Equal(decimal.NewFromInt(165)),
		"a 5B deficit adds 5B of debt")
}

func TestDebtFloorsAtZero(t *testing.T) {
	e := testEngine(t)

	res, err := e.Step(prevState(), 2030, testScenario(), 0, 0, decimal.NewFromInt(1_000_000))
	require.NoError(t, err)
	assert.True(t, res.State.Debt.IsZero(), "debt never goes negative")
}

func TestInterestOnAverageDebt(t *testing.T) {
	e := testEngine(t)
	prev := prevState()

	res, err := e.Step(prev, 2030, testScenario(), 0, 0, decimal.NewFromInt(-10_000))
	require.NoError(t, err)

	// Debt moves 160 -> 170; interest accrues on the 165 average.
	expected := decimal.NewFromInt(165).Mul(decimal.NewFromFloat(0.025))
	assert.True(t, res.InterestExpense.Equal(expected))
}

func TestDebtToGDP(t *testing.T) {
	state := prevState()
	ratio := DebtToGDP(state)
	expected := decimal.NewFromInt(160).Div(decimal.NewFromInt(280)).Mul(decimal.NewFromInt(100))
	assert.True(t, ratio.Equal(expected))

	assert.True(t, DebtToGDP(domain.EconomicState{}).IsZero(), "zero GDP yields zero, not a division error")
}

func TestGovernmentMetrics(t *testing.T) {
	flows := domain.AnnualFiscalFlows{
		TotalCost: decimal.NewFromInt(140_000), // millions
		Balance:   decimal.NewFromInt(-8_400),
	}
	gdp := decimal.NewFromInt(280) // billions

	spendingShare, deficitShare := GovernmentMetrics(flows, gdp)
	assert.True(t, spendingShare.Equal(decimal.NewFromInt(50)))
	assert.True(t, deficitShare.Equal(decimal.NewFromInt(3)))

	spendingShare, deficitShare = GovernmentMetrics(flows, decimal.Zero)
	assert.True(t, spendingShare.IsZero())
	assert.True(t, deficitShare.IsZero())
}
