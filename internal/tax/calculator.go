// Package tax implements the tax-calculation collaborator contract: given a
// gross monthly income, municipality and age, return the tax and contribution
// breakdown. The population engine treats it as a pure black box.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Result is the breakdown for one gross monthly income.
type Result struct {
	GrossMonthly             decimal.Decimal `json:"grossMonthly"`
	NationalTax              decimal.Decimal `json:"nationalTax"`
	MunicipalTax             decimal.Decimal `json:"municipalTax"`
	PensionContribution      decimal.Decimal `json:"pensionContribution"`
	UnemploymentContribution decimal.Decimal `json:"unemploymentContribution"`
	HealthContribution       decimal.Decimal `json:"healthContribution"`
	NetMonthly               decimal.Decimal `json:"netMonthly"`
}

// TotalTax sums taxes proper, excluding social contributions.
func (r Result) TotalTax() decimal.Decimal {
	return r.NationalTax.Add(r.MunicipalTax)
}

// TotalContributions sums pension, unemployment and health contributions.
func (r Result) TotalContributions() decimal.Decimal {
	return r.PensionContribution.Add(r.UnemploymentContribution).Add(r.HealthContribution)
}

// Bracket is one national income tax bracket over annual income.
type Bracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// Calculator computes the statutory breakdown. Zero-value rates fall back to
// bundled defaults so a partially specified configuration still works.
type Calculator struct {
	Brackets         []Bracket
	MunicipalRates   map[string]decimal.Decimal
	DefaultMunicipal decimal.Decimal

	PensionRate       decimal.Decimal // employee earnings-related pension
	PensionRateSenior decimal.Decimal // ages 53-62 pay a higher rate
	UnemploymentRate  decimal.Decimal
	HealthRate        decimal.Decimal
}

// NewCalculator creates a calculator with the bundled 2023 parameters.
func NewCalculator() *Calculator {
	return &Calculator{
		Brackets: []Bracket{
			{decimal.Zero, decimal.NewFromInt(19900), decimal.NewFromFloat(0.1264)},
			{decimal.NewFromInt(19900), decimal.NewFromInt(29700), decimal.NewFromFloat(0.19)},
			{decimal.NewFromInt(29700), decimal.NewFromInt(49000), decimal.NewFromFloat(0.3025)},
			{decimal.NewFromInt(49000), decimal.NewFromInt(85800), decimal.NewFromFloat(0.34)},
			{decimal.NewFromInt(85800), decimal.NewFromInt(999999999), decimal.NewFromFloat(0.44)},
		},
		MunicipalRates: map[string]decimal.Decimal{
			"helsinki": decimal.NewFromFloat(0.053),
			"espoo":    decimal.NewFromFloat(0.056),
			"tampere":  decimal.NewFromFloat(0.075),
			"oulu":     decimal.NewFromFloat(0.079),
		},
		DefaultMunicipal:  decimal.NewFromFloat(0.0738),
		PensionRate:       decimal.NewFromFloat(0.0715),
		PensionRateSenior: decimal.NewFromFloat(0.0865),
		UnemploymentRate:  decimal.NewFromFloat(0.0079),
		HealthRate:        decimal.NewFromFloat(0.0136),
	}
}

// Calculate returns the breakdown for one person-month of gross income.
func (c *Calculator) Calculate(grossMonthly decimal.Decimal, municipality string, age int) (Result, error) {
	if grossMonthly.IsNegative() {
		return Result{}, fmt.Errorf("tax: gross income cannot be negative, got %s", grossMonthly)
	}
	if age < 0 || age > 120 {
		return Result{}, fmt.Errorf("tax: age %d out of range", age)
	}

	annual := grossMonthly.Mul(decimal.NewFromInt(12))

	national := c.nationalTax(annual)
	municipal := annual.Mul(c.municipalRate(municipality))

	pensionRate := c.PensionRate
	if age >= 53 && age < 63 {
		pensionRate = c.PensionRateSenior
	}
	// Contributions only accrue on earned income under statutory age limits.
	var pension, unemployment decimal.Decimal
	if age >= 17 && age < 68 {
		pension = annual.Mul(pensionRate)
	}
	if age >= 18 && age < 65 {
		unemployment = annual.Mul(c.UnemploymentRate)
	}
	health := annual.Mul(c.HealthRate)

	monthly := decimal.NewFromInt(12)
	res := Result{
		GrossMonthly:             grossMonthly,
		NationalTax:              national.Div(monthly),
		MunicipalTax:             municipal.Div(monthly),
		PensionContribution:      pension.Div(monthly),
		UnemploymentContribution: unemployment.Div(monthly),
		HealthContribution:       health.Div(monthly),
	}
	res.NetMonthly = grossMonthly.Sub(res.TotalTax()).Sub(res.TotalContributions())
	if res.NetMonthly.IsNegative() {
		res.NetMonthly = decimal.Zero
	}
	return res, nil
}

func (c *Calculator) municipalRate(municipality string) decimal.Decimal {
	if rate, ok := c.MunicipalRates[municipality]; ok {
		return rate
	}
	return c.DefaultMunicipal
}

// nationalTax walks the brackets over annual income.
func (c *Calculator) nationalTax(annual decimal.Decimal) decimal.Decimal {
	var tax decimal.Decimal
	for _, b := range c.Brackets {
		if annual.LessThanOrEqual(b.Min) {
			break
		}
		taxable := annual
		if taxable.GreaterThan(b.Max) {
			taxable = b.Max
		}
		tax = tax.Add(taxable.Sub(b.Min).Mul(b.Rate))
	}
	return tax
}
