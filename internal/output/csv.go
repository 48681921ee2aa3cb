package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/okarvonen/vaesto/internal/domain"
)

// CSVFormatter implements the per-year timeline CSV output (one row per year).
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(run *domain.RunResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Year", "Historical",
		"Population", "Native", "Immigrant",
		"Births", "Deaths", "Arrivals", "Departures",
		"RevenueM", "CostM", "BalanceM", "InterestM",
		"GDPB", "GDPGrowth", "DebtB", "DebtToGDP",
		"SpendingShareGDP", "DeficitShareGDP",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range run.Annual {
		r := &run.Annual[i]
		row := []string{
			strconv.Itoa(r.Year),
			strconv.FormatBool(r.Historical),
			floatToString(r.TotalPopulation),
			floatToString(r.NativePopulation),
			floatToString(r.ImmigrantPopulation),
			floatToString(r.Births),
			floatToString(r.Deaths),
			floatToString(r.Arrivals),
			floatToString(r.Departures),
			r.AdjustedFiscal.TotalRevenue.StringFixed(1),
			r.AdjustedFiscal.TotalCost.StringFixed(1),
			r.AdjustedFiscal.Balance.StringFixed(1),
			r.AdjustedFiscal.Costs.Interest.StringFixed(1),
			r.GDP.StringFixed(2),
			r.GDPGrowth.StringFixed(4),
			r.Debt.StringFixed(2),
			r.DebtToGDP.StringFixed(1),
			r.SpendingShareGDP.StringFixed(1),
			r.DeficitShareGDP.StringFixed(1),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
