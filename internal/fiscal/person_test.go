package fiscal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPersonLifecycleShape(t *testing.T) {
	c := NewCalculator(nil)

	child := c.Person(10, 5, Options{})
	worker := c.Person(40, 5, Options{})
	pensioner := c.Person(75, 5, Options{})

	assert.True(t, child.Contributions().IsZero(), "children contribute nothing")
	assert.True(t, child.Education.IsPositive(), "children cost education")
	assert.True(t, child.Net().IsNegative())

	assert.True(t, worker.Contributions().IsPositive())
	assert.True(t, worker.Education.IsZero())
	assert.True(t, worker.Pension.IsZero())
	assert.True(t, worker.Net().IsPositive(), "a mid-decile worker is a net contributor")

	assert.True(t, pensioner.Contributions().IsZero(), "no earned income past retirement")
	assert.True(t, pensioner.Pension.IsPositive())
	assert.True(t, pensioner.Benefits.IsZero(), "unemployment benefits stop at retirement")
	assert.True(t, pensioner.Net().IsNegative())
}

func TestContributionsRiseWithDecile(t *testing.T) {
	c := NewCalculator(nil)

	prev := decimal.Zero
	for decile := 1; decile <= 10; decile++ {
		py := c.Person(40, decile, Options{})
		assert.True(t, py.Contributions().GreaterThan(prev),
			"decile %d should out-contribute decile %d", decile, decile-1)
		prev = py.Contributions()
	}
}

func TestDecileClamping(t *testing.T) {
	c := NewCalculator(nil)

	assert.Equal(t, c.Person(40, 1, Options{}), c.Person(40, 0, Options{}))
	assert.Equal(t, c.Person(40, 10, Options{}), c.Person(40, 15, Options{}))
}

func TestEmploymentOverride(t *testing.T) {
	c := NewCalculator(nil)

	none := 0.0
	full := 1.0
	unemployed := c.Person(40, 5, Options{EmploymentRate: &none})
	employed := c.Person(40, 5, Options{EmploymentRate: &full})

	assert.True(t, unemployed.Contributions().IsZero() || unemployed.IncomeTax.IsZero(),
		"zero employment means no earned income tax")
	assert.True(t, employed.Contributions().GreaterThan(unemployed.Contributions()))
}

func TestWelfareMultiplierScalesBenefitsOnly(t *testing.T) {
	c := NewCalculator(nil)

	base := c.Person(40, 2, Options{})
	inflated := c.Person(40, 2, Options{WelfareMultiplier: decimal.NewFromFloat(1.5)})

	assert.True(t, inflated.Benefits.GreaterThan(base.Benefits))
	assert.True(t, inflated.Healthcare.Equal(base.Healthcare), "healthcare is not welfare-scaled")
	assert.True(t, inflated.IncomeTax.Equal(base.IncomeTax))
}

func TestMinimumPensionFloor(t *testing.T) {
	c := NewCalculator(nil)

	lowest := c.Person(80, 1, Options{})
	assert.True(t, lowest.Pension.Equal(decimal.NewFromFloat(minimumPension)),
		"decile 1 accrual falls below the statutory minimum")

	top := c.Person(80, 10, Options{})
	assert.True(t, top.Pension.GreaterThan(lowest.Pension), "top decile accrues above the minimum")
}

func TestHousingAllowanceOnlyLowDeciles(t *testing.T) {
	c := NewCalculator(nil)

	// Hold unemployment exposure at zero so only the housing term remains.
	zero := decimal.New(1, -9) // effectively zero, nonzero to bypass the default
	d3 := c.Person(40, 3, Options{UnemploymentMultiplier: zero})
	d4 := c.Person(40, 4, Options{UnemploymentMultiplier: zero})

	assert.True(t, d3.Benefits.IsPositive(), "decile 3 gets housing allowance")
	assert.True(t, d4.Benefits.LessThan(d3.Benefits), "decile 4 does not")
}

func TestCacheServesIdenticalResults(t *testing.T) {
	c := NewCalculator(nil)

	first := c.Person(40, 5, Options{})
	assert.Equal(t, 1, c.CacheSize())
	second := c.Person(40, 5, Options{})
	assert.Equal(t, 1, c.CacheSize(), "identical inputs hit the cache")
	assert.Equal(t, first, second)

	c.Person(41, 5, Options{})
	assert.Equal(t, 2, c.CacheSize())
}

func TestClearCacheDoesNotChangeResults(t *testing.T) {
	c := NewCalculator(nil)

	before := c.Person(40, 5, Options{WageMultiplier: decimal.NewFromFloat(1.2)})
	c.ClearCache()
	assert.Equal(t, 0, c.CacheSize())
	after := c.Person(40, 5, Options{WageMultiplier: decimal.NewFromFloat(1.2)})

	assert.Equal(t, before, after)
}

func TestCacheBound(t *testing.T) {
	c := NewCalculator(nil)
	c.maxSize = 3

	for age := 30; age < 40; age++ {
		c.Person(age, 5, Options{})
	}
	assert.Equal(t, 3, c.CacheSize(), "cache stops retaining at the bound")

	// Entries beyond the bound still compute correctly.
	fresh := NewCalculator(nil)
	assert.Equal(t, fresh.Person(39, 5, Options{}), c.Person(39, 5, Options{}))
}
