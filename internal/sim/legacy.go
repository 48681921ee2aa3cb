package sim

import (
	"github.com/okarvonen/vaesto/internal/domain"
)

// ToLegacyResult reshapes a YearResult into the flat shape older consumers
// expect. Money fields collapse to float64 and the adjusted,
// interest-inclusive flows are the ones exported, matching the old engine's
// single set of totals.
func ToLegacyResult(r *domain.YearResult) domain.LegacyYearResult {
	return domain.LegacyYearResult{
		Year:             r.Year,
		Population:       r.TotalPopulation,
		Births:           r.Births,
		Deaths:           r.Deaths,
		NetMigration:     r.Arrivals - r.Departures,
		Revenue:          r.AdjustedFiscal.TotalRevenue.InexactFloat64(),
		Expenditure:      r.AdjustedFiscal.TotalCost.InexactFloat64(),
		Balance:          r.AdjustedFiscal.Balance.InexactFloat64(),
		GDP:              r.GDP.InexactFloat64(),
		Debt:             r.Debt.InexactFloat64(),
		DebtToGDPPercent: r.DebtToGDP.InexactFloat64(),
		IsHistorical:     r.Historical,
	}
}

// ToLegacyTimeline converts a whole run.
func ToLegacyTimeline(run *domain.RunResult) []domain.LegacyYearResult {
	out := make([]domain.LegacyYearResult, 0, len(run.Annual))
	for i := range run.Annual {
		out = append(out, ToLegacyResult(&run.Annual[i]))
	}
	return out
}
