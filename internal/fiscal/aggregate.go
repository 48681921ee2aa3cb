package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
	"github.com/okarvonen/vaesto/internal/immigration"
)

// Immigrant computes the fiscal footprint of one immigrant person-year by
// substituting the integration profile's employment rate, income decile and
// welfare dependency into the per-person routine. The cohort is priced at
// decile five with overrides, matching how cohorts are aggregated.
func (c *Calculator) Immigrant(age int, t domain.ImmigrantType, yearsInCountry int, wageMult decimal.Decimal) PersonYear {
	profile := immigration.ProfileFor(t)

	employment := profile.EmploymentRate(yearsInCountry)
	incomeDecile := profile.IncomeDecile(yearsInCountry)
	welfare := decimal.NewFromFloat(1 + profile.WelfareDependency(yearsInCountry))

	return c.Person(age, 5, Options{
		EmploymentRate:    &employment,
		DecileOverride:    &incomeDecile,
		WelfareMultiplier: welfare,
		WageMultiplier:    wageMult,
	})
}

// millions converts a EUR amount to EUR millions.
var millions = decimal.NewFromInt(1_000_000)

// Aggregate computes the annual fiscal flows for a population snapshot.
// Native cohorts are split into ten equal decile slices; immigrant cohorts
// are priced once per (age, type, arrival year) via the integration profile.
// The wage multiplier is the cumulative growth multiplier of the year being
// priced. Interest is not part of aggregation; the orchestrator layers it in
// after the economy step. All totals are converted to EUR millions once, at
// the end.
func (c *Calculator) Aggregate(pop *domain.PopulationState, year int, wageMult decimal.Decimal) domain.AnnualFiscalFlows {
	flows := domain.AnnualFiscalFlows{
		Children:         pop.Children(),
		WorkingAge:       pop.WorkingAge(),
		Elderly:          pop.Elderly(),
		DependencyRatio:  pop.DependencyRatio(),
		ImmigrantBalance: make(map[domain.ImmigrantType]decimal.Decimal, len(domain.ImmigrantTypes)),
	}
	for _, t := range domain.ImmigrantTypes {
		flows.ImmigrantBalance[t] = decimal.Zero
	}

	opts := Options{WageMultiplier: wageMult}
	tenth := decimal.NewFromFloat(0.1)

	for age, count := range pop.Native {
		slice := decimal.NewFromFloat(count).Mul(tenth)
		for decile := 1; decile <= 10; decile++ {
			py := c.Person(age, decile, opts)
			addScaled(&flows, py, slice)
			flows.NativeBalance = flows.NativeBalance.Add(py.Net().Mul(slice))
		}
	}

	for key, count := range pop.Immigrants {
		weight := decimal.NewFromFloat(count)
		py := c.Immigrant(key.Age, key.Type, key.YearsInCountry(year), wageMult)
		addScaled(&flows, py, weight)
		flows.ImmigrantBalance[key.Type] = flows.ImmigrantBalance[key.Type].Add(py.Net().Mul(weight))
	}

	toMillions(&flows)
	flows.Recompute()
	return flows
}

func addScaled(flows *domain.AnnualFiscalFlows, py PersonYear, weight decimal.Decimal) {
	flows.Revenue.IncomeTax = flows.Revenue.IncomeTax.Add(py.IncomeTax.Mul(weight))
	flows.Revenue.SocialInsurance = flows.Revenue.SocialInsurance.Add(py.SocialInsurance.Mul(weight))
	flows.Revenue.VAT = flows.Revenue.VAT.Add(py.VAT.Mul(weight))

	flows.Costs.Education = flows.Costs.Education.Add(py.Education.Mul(weight))
	flows.Costs.Healthcare = flows.Costs.Healthcare.Add(py.Healthcare.Mul(weight))
	flows.Costs.Pensions = flows.Costs.Pensions.Add(py.Pension.Mul(weight))
	flows.Costs.Benefits = flows.Costs.Benefits.Add(py.Benefits.Mul(weight))
}

func toMillions(flows *domain.AnnualFiscalFlows) {
	flows.Revenue.IncomeTax = flows.Revenue.IncomeTax.Div(millions)
	flows.Revenue.SocialInsurance = flows.Revenue.SocialInsurance.Div(millions)
	flows.Revenue.VAT = flows.Revenue.VAT.Div(millions)
	flows.Costs.Education = flows.Costs.Education.Div(millions)
	flows.Costs.Healthcare = flows.Costs.Healthcare.Div(millions)
	flows.Costs.Pensions = flows.Costs.Pensions.Div(millions)
	flows.Costs.Benefits = flows.Costs.Benefits.Div(millions)
	flows.NativeBalance = flows.NativeBalance.Div(millions)
	for t, b := range flows.ImmigrantBalance {
		flows.ImmigrantBalance[t] = b.Div(millions)
	}
}
