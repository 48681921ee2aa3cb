package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarvonen/vaesto/internal/domain"
)

func TestGDPPreset(t *testing.T) {
	for _, name := range []string{"pessimistic", "baseline", "optimistic"} {
		preset, err := GDPPreset(name)
		require.NoError(t, err, name)
		assert.Equal(t, domain.GDPFixedRate, preset.Kind)
		assert.NoError(t, preset.Validate())
	}

	workforce, err := GDPPreset("workforce")
	require.NoError(t, err)
	assert.Equal(t, domain.GDPWorkforceAdjusted, workforce.Kind)

	_, err = GDPPreset("booming")
	assert.Error(t, err, "unknown preset names fail")
}

func TestGDPPresetOrdering(t *testing.T) {
	pess, _ := GDPPreset("pessimistic")
	base, _ := GDPPreset("baseline")
	opt, _ := GDPPreset("optimistic")

	assert.True(t, pess.Rate.LessThan(base.Rate))
	assert.True(t, base.Rate.LessThan(opt.Rate))
}

func TestInterestPreset(t *testing.T) {
	low, err := InterestPreset("low")
	require.NoError(t, err)
	high, err := InterestPreset("high")
	require.NoError(t, err)
	assert.True(t, low.Rate.LessThan(high.Rate))

	_, err = InterestPreset("negative")
	assert.Error(t, err)
}

func TestImmigrationPreset(t *testing.T) {
	current, err := ImmigrationPreset("current")
	require.NoError(t, err)
	assert.NoError(t, current.Validate())

	reduced, err := ImmigrationPreset("reduced")
	require.NoError(t, err)
	assert.Less(t, reduced.Total(), current.Total())

	workFocused, err := ImmigrationPreset("work-focused")
	require.NoError(t, err)
	assert.Greater(t, workFocused.Work, workFocused.Humanitarian)

	_, err = ImmigrationPreset("open-borders")
	assert.Error(t, err)
}

func TestSpendingPreset(t *testing.T) {
	austerity, err := SpendingPreset("austerity")
	require.NoError(t, err)
	assert.Equal(t, domain.SpendingAusterity, austerity.Kind)
	assert.True(t, austerity.OptimisticDebtService)

	baseline, err := SpendingPreset("baseline")
	require.NoError(t, err)
	assert.False(t, baseline.OptimisticDebtService)

	_, err = SpendingPreset("stimulus")
	assert.Error(t, err)
}

func TestBaselineScenario(t *testing.T) {
	scenario := BaselineScenario()
	assert.NoError(t, scenario.Validate())
	assert.Equal(t, "baseline", scenario.Name)
}
