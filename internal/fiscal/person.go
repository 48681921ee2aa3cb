// Package fiscal converts a population snapshot into annual money flows: a
// cached per-person-year calculation of contributions and state costs,
// aggregated over income deciles and immigrant cohorts.
package fiscal

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/tax"
)

// Decile parameter tables, indexed 1..10. Index 0 is unused padding.
var (
	grossMonthlyByDecile = [11]float64{0, 1150, 1750, 2150, 2500, 2850, 3250, 3700, 4300, 5200, 8200}
	employmentByDecile   = [11]float64{0, 0.42, 0.55, 0.64, 0.71, 0.76, 0.80, 0.84, 0.87, 0.90, 0.92}
	healthMultByDecile   = [11]float64{0, 1.35, 1.25, 1.18, 1.10, 1.05, 1.00, 0.95, 0.90, 0.85, 0.80}
	retirementByDecile   = [11]int{0, 63, 63, 64, 64, 65, 65, 66, 66, 67, 68}
	unemploymentByDecile = [11]float64{0, 0.22, 0.16, 0.12, 0.095, 0.08, 0.065, 0.05, 0.04, 0.03, 0.02}
)

// Annual cost parameters, EUR per person-year in base-year prices.
const (
	daycareCost   = 10300.0
	primaryCost   = 9900.0
	secondaryCost = 8600.0
	higherEdCost  = 9100.0

	secondaryEnrollment = 0.93
	higherEnrollment    = 0.42

	unemploymentBenefit = 13500.0
	housingAllowanceTop = 1300.0 // per decile step below 4

	pensionAccrualRate  = 0.015
	pensionAccrualYears = 38.0
	minimumPension      = 11000.0

	vatShareOfNet = 0.60
	vatRate       = 0.24

	workingAgeStart = 18
)

// Fallback rates used when the tax collaborator fails; the calculation
// degrades to these instead of aborting.
const (
	fallbackTaxRate    = 0.25
	fallbackSocialRate = 0.09
)

// Options parameterizes a per-person calculation beyond age and decile.
// Pointers distinguish "not set" from zero; multipliers default to one.
type Options struct {
	// EmploymentRate overrides the decile's default employment rate.
	EmploymentRate *float64
	// DecileOverride substitutes another decile's income parameters while
	// keeping the caller's decile slice weight.
	DecileOverride *int
	// WelfareMultiplier scales benefit costs (immigrant welfare dependency
	// inflates this above one).
	WelfareMultiplier decimal.Decimal
	// UnemploymentMultiplier scales unemployment exposure for macro
	// scenarios.
	UnemploymentMultiplier decimal.Decimal
	// WageMultiplier is the cumulative growth multiplier applied to
	// wage-indexed amounts (benefits, pension accrual).
	WageMultiplier decimal.Decimal
}

func (o Options) welfare() decimal.Decimal {
	if o.WelfareMultiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return o.WelfareMultiplier
}

func (o Options) unemployment() decimal.Decimal {
	if o.UnemploymentMultiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return o.UnemploymentMultiplier
}

func (o Options) wage() decimal.Decimal {
	if o.WageMultiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return o.WageMultiplier
}

// PersonYear is the fiscal footprint of one person for one year, EUR.
type PersonYear struct {
	IncomeTax       decimal.Decimal
	SocialInsurance decimal.Decimal
	VAT             decimal.Decimal

	Education  decimal.Decimal
	Healthcare decimal.Decimal
	Pension    decimal.Decimal
	Benefits   decimal.Decimal
}

// Contributions sums taxes and social insurance plus VAT.
func (p PersonYear) Contributions() decimal.Decimal {
	return p.IncomeTax.Add(p.SocialInsurance).Add(p.VAT)
}

// Costs sums the state cost categories.
func (p PersonYear) Costs() decimal.Decimal {
	return p.Education.Add(p.Healthcare).Add(p.Pension).Add(p.Benefits)
}

// Net is contributions minus costs.
func (p PersonYear) Net() decimal.Decimal {
	return p.Contributions().Sub(p.Costs())
}

// Calculator computes and memoizes per-person fiscal footprints. The cache
// is owned by the calculator instance so independent runs cannot interfere;
// it is a pure optimization and clearing it never changes results.
type Calculator struct {
	taxCalc *tax.Calculator
	cache   map[cacheKey]PersonYear
	maxSize int
}

// DefaultCacheSize bounds the memo cache. Once full, new entries are
// computed but not retained.
const DefaultCacheSize = 200000

// NewCalculator creates a fiscal calculator around a tax collaborator.
func NewCalculator(taxCalc *tax.Calculator) *Calculator {
	if taxCalc == nil {
		taxCalc = tax.NewCalculator()
	}
	return &Calculator{
		taxCalc: taxCalc,
		cache:   make(map[cacheKey]PersonYear),
		maxSize: DefaultCacheSize,
	}
}

// ClearCache drops all memoized entries. Output is unaffected, only cost.
func (c *Calculator) ClearCache() {
	c.cache = make(map[cacheKey]PersonYear)
}

// CacheSize returns the number of memoized entries.
func (c *Calculator) CacheSize() int { return len(c.cache) }

type cacheKey struct {
	age    int
	decile int
	emp    int32 // employment override in 1/1000, -1 when unset
	over   int8  // decile override, -1 when unset
	welf   int32 // multipliers rounded to 1/1000
	unemp  int32
	wage   int32
}

func keyFor(age, decile int, opts Options) cacheKey {
	k := cacheKey{
		age:    age,
		decile: decile,
		emp:    -1,
		over:   -1,
		welf:   roundMult(opts.welfare()),
		unemp:  roundMult(opts.unemployment()),
		wage:   roundMult(opts.wage()),
	}
	if opts.EmploymentRate != nil {
		k.emp = int32(math.Round(*opts.EmploymentRate * 1000))
	}
	if opts.DecileOverride != nil {
		k.over = int8(*opts.DecileOverride)
	}
	return k
}

func roundMult(d decimal.Decimal) int32 {
	return int32(d.Mul(decimal.NewFromInt(1000)).Round(0).IntPart())
}

// Person computes the fiscal footprint of one person of the given age and
// income decile. Identical (age, decile, rounded multiplier) tuples are
// served from the cache.
func (c *Calculator) Person(age, decile int, opts Options) PersonYear {
	if decile < 1 {
		decile = 1
	}
	if decile > 10 {
		decile = 10
	}
	key := keyFor(age, decile, opts)
	if cached, ok := c.cache[key]; ok {
		return cached
	}

	result := c.compute(age, decile, opts)
	if len(c.cache) < c.maxSize {
		c.cache[key] = result
	}
	return result
}

func (c *Calculator) compute(age, decile int, opts Options) PersonYear {
	incomeDecile := decile
	if opts.DecileOverride != nil {
		incomeDecile = *opts.DecileOverride
		if incomeDecile < 1 {
			incomeDecile = 1
		}
		if incomeDecile > 10 {
			incomeDecile = 10
		}
	}

	employment := employmentByDecile[incomeDecile]
	if opts.EmploymentRate != nil {
		employment = clamp01(*opts.EmploymentRate)
	}

	retirementAge := retirementByDecile[incomeDecile]

	py := PersonYear{
		Education:  educationCost(age),
		Healthcare: healthcareCost(age, incomeDecile),
		Pension:    pensionCost(age, incomeDecile, retirementAge, opts.wage()),
		Benefits:   benefitCost(age, incomeDecile, retirementAge, opts),
	}

	// No earned income before working age or past retirement.
	if age >= workingAgeStart && age < retirementAge {
		gross := decimal.NewFromFloat(grossMonthlyByDecile[incomeDecile] * employment)
		c.applyContributions(&py, gross, age)
	}
	return py
}

// applyContributions fills in tax, insurance and VAT from the tax
// collaborator. On failure it degrades to fixed approximate rates.
func (c *Calculator) applyContributions(py *PersonYear, grossMonthly decimal.Decimal, age int) {
	twelve := decimal.NewFromInt(12)
	annualGross := grossMonthly.Mul(twelve)

	breakdown, err := c.taxCalc.Calculate(grossMonthly, "", age)
	if err != nil {
		py.IncomeTax = annualGross.Mul(decimal.NewFromFloat(fallbackTaxRate))
		py.SocialInsurance = annualGross.Mul(decimal.NewFromFloat(fallbackSocialRate))
		net := annualGross.Sub(py.IncomeTax).Sub(py.SocialInsurance)
		py.VAT = net.Mul(decimal.NewFromFloat(vatShareOfNet)).Mul(decimal.NewFromFloat(vatRate))
		return
	}

	py.IncomeTax = breakdown.TotalTax().Mul(twelve)
	py.SocialInsurance = breakdown.TotalContributions().Mul(twelve)
	py.VAT = breakdown.NetMonthly.Mul(twelve).
		Mul(decimal.NewFromFloat(vatShareOfNet)).Mul(decimal.NewFromFloat(vatRate))
}

// educationCost is banded by school stage: daycare, comprehensive school,
// upper secondary or vocational, and a partial higher-education share.
func educationCost(age int) decimal.Decimal {
	switch {
	case age >= 1 && age <= 6:
		return decimal.NewFromFloat(daycareCost)
	case age >= 7 && age <= 15:
		return decimal.NewFromFloat(primaryCost)
	case age >= 16 && age <= 18:
		return decimal.NewFromFloat(secondaryCost * secondaryEnrollment)
	case age >= 19 && age <= 24:
		return decimal.NewFromFloat(higherEdCost * higherEnrollment)
	}
	return decimal.Zero
}

// healthcareCost follows a U-shaped age curve scaled by the decile health
// multiplier: expensive first year, cheap childhood and early adulthood,
// rising steeply from middle age.
func healthcareCost(age, decile int) decimal.Decimal {
	var base float64
	switch {
	case age < 1:
		base = 4200
	case age <= 5:
		base = 1600
	case age <= 39:
		base = 900
	default:
		base = 1100 * math.Exp(0.045*float64(age-40))
		if base > 26000 {
			base = 26000
		}
	}
	return decimal.NewFromFloat(base * healthMultByDecile[decile])
}

// pensionCost applies past the decile retirement age and is the greater of
// the wage-based accrual estimate and the statutory minimum. The accrual is
// wage-indexed through the cumulative growth multiplier.
func pensionCost(age, decile, retirementAge int, wageMult decimal.Decimal) decimal.Decimal {
	if age < retirementAge {
		return decimal.Zero
	}
	annualWage := decimal.NewFromFloat(grossMonthlyByDecile[decile] * 12)
	accrued := annualWage.
		Mul(decimal.NewFromFloat(pensionAccrualRate)).
		Mul(decimal.NewFromFloat(pensionAccrualYears)).
		Mul(wageMult)
	minimum := decimal.NewFromFloat(minimumPension)
	if accrued.GreaterThan(minimum) {
		return accrued
	}
	return minimum
}

// benefitCost applies during working age only: unemployment exposure scaled
// by decile, plus a housing-allowance term for the three lowest deciles.
// Benefits are wage-indexed here, so the aggregate growth adjustment leaves
// them alone.
func benefitCost(age, decile, retirementAge int, opts Options) decimal.Decimal {
	if age < workingAgeStart || age >= retirementAge {
		return decimal.Zero
	}
	exposure := decimal.NewFromFloat(unemploymentByDecile[decile]).Mul(opts.unemployment())
	benefits := exposure.Mul(decimal.NewFromFloat(unemploymentBenefit))
	if decile <= 3 {
		housing := decimal.NewFromFloat(housingAllowanceTop * float64(4-decile))
		benefits = benefits.Add(housing)
	}
	return benefits.Mul(opts.welfare()).Mul(opts.wage())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
