package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
)

// Sector-specific annual growth premiums compounded on top of the economy.
var (
	// revenueElasticityPremium captures revenue growing slightly faster than
	// the tax base as nominal brackets lag.
	revenueElasticityPremium = decimal.NewFromFloat(0.002)
	// healthcarePremium is sector cost growth above GDP (technology and
	// service intensity).
	healthcarePremium = decimal.NewFromFloat(0.006)
	// pensionPremium is indexation growth; the accrual side is already
	// wage-linked inside the per-person calculation.
	pensionPremium = decimal.NewFromFloat(0.013)
)

// AdjustForGrowth restates base-year-priced flows for projected economic
// growth. Historical years (at or before the base year) are returned
// unchanged. Benefits are untouched: they are wage-indexed during
// aggregation.
func AdjustForGrowth(flows domain.AnnualFiscalFlows, year, baseYear int, gdpMultiplier decimal.Decimal) domain.AnnualFiscalFlows {
	if year <= baseYear {
		return flows
	}
	years := int64(year - baseYear)
	one := decimal.NewFromInt(1)

	revenueFactor := gdpMultiplier.Mul(one.Add(revenueElasticityPremium).Pow(decimal.NewFromInt(years)))
	healthFactor := gdpMultiplier.Mul(one.Add(healthcarePremium).Pow(decimal.NewFromInt(years)))
	pensionFactor := one.Add(pensionPremium).Pow(decimal.NewFromInt(years))

	adjusted := flows

	// The attribution splits scale with the revenue factor alone. Their
	// embedded costs grow at the sector factors, so adjusted splits need not
	// sum to the adjusted balance.
	adjusted.ImmigrantBalance = make(map[domain.ImmigrantType]decimal.Decimal, len(flows.ImmigrantBalance))
	for t, b := range flows.ImmigrantBalance {
		adjusted.ImmigrantBalance[t] = b.Mul(revenueFactor)
	}

	adjusted.Revenue.IncomeTax = flows.Revenue.IncomeTax.Mul(revenueFactor)
	adjusted.Revenue.SocialInsurance = flows.Revenue.SocialInsurance.Mul(revenueFactor)
	adjusted.Revenue.VAT = flows.Revenue.VAT.Mul(revenueFactor)

	adjusted.Costs.Healthcare = flows.Costs.Healthcare.Mul(healthFactor)
	adjusted.Costs.Pensions = flows.Costs.Pensions.Mul(pensionFactor)
	adjusted.Costs.Education = flows.Costs.Education.Mul(gdpMultiplier)

	adjusted.NativeBalance = flows.NativeBalance.Mul(revenueFactor)

	adjusted.Recompute()
	return adjusted
}
