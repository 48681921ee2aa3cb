package output

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarvonen/vaesto/internal/domain"
)

func sampleRun() *domain.RunResult {
	year := func(y int, pop float64, balance int64) domain.YearResult {
		flows := domain.AnnualFiscalFlows{
			Revenue: domain.RevenueBreakdown{IncomeTax: decimal.NewFromInt(balance + 50000)},
			Costs:   domain.CostBreakdown{Pensions: decimal.NewFromInt(50000)},
		}
		flows.Recompute()
		return domain.YearResult{
			Year:                y,
			Historical:          y <= 2023,
			TotalPopulation:     pop,
			NativePopulation:    pop * 0.9,
			ImmigrantPopulation: pop * 0.1,
			Births:              45000,
			Deaths:              55000,
			Arrivals:            30000,
			Departures:          10000,
			Fiscal:              flows,
			AdjustedFiscal:      flows,
			GDP:                 decimal.NewFromInt(280),
			GDPGrowth:           decimal.NewFromFloat(0.015),
			Debt:                decimal.NewFromInt(160),
			DebtToGDP:           decimal.NewFromFloat(57.1),
			InterestRate:        decimal.NewFromFloat(0.025),
		}
	}
	run := &domain.RunResult{
		Scenario: "baseline",
		Annual: []domain.YearResult{
			year(2023, 5_560_000, -2000),
			year(2024, 5_570_000, 1000),
			year(2025, 5_575_000, -500),
		},
		Summary: domain.RunSummary{
			StartYear:       2023,
			EndYear:         2025,
			StartPopulation: 5_560_000,
			EndPopulation:   5_575_000,
			PeakSurplus:     decimal.NewFromInt(1000),
			PeakSurplusYear: 2024,
			FirstDeficit:    2023,
			PeakDebtToGDP:   decimal.NewFromFloat(57.1),
			PeakDebtYear:    2025,
			CumulativeBal:   decimal.NewFromInt(-1500),
			AvgGDPGrowth:    decimal.NewFromFloat(0.015),
		},
	}
	return run
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"console", "table", "csv", "json"} {
		f, err := ForFormat(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := ForFormat("xml")
	assert.Error(t, err)
}

func TestConsoleFormat(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleRun())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "baseline")
	assert.Contains(t, text, "RUN SUMMARY")
	assert.Contains(t, text, "2023")
	assert.Contains(t, text, "2025", "the final year always prints")
	assert.Contains(t, text, "First deficit year:   2023")
}

func TestCSVFormat(t *testing.T) {
	out, err := CSVFormatter{}.Format(sampleRun())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus one row per year")
	assert.Equal(t, "Year", records[0][0])
	assert.Equal(t, "2023", records[1][0])
	assert.Equal(t, "true", records[1][1])
	assert.Equal(t, "false", records[3][1])
}

func TestJSONFormat(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleRun())
	require.NoError(t, err)

	var decoded struct {
		Scenario string `json:"scenario"`
		Annual   []struct {
			Year int `json:"year"`
		} `json:"annual"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "baseline", decoded.Scenario)
	assert.Len(t, decoded.Annual, 3)
}

func TestLegacyJSON(t *testing.T) {
	timeline := []domain.LegacyYearResult{{Year: 2024, Population: 5_570_000}}
	out, err := LegacyJSON("baseline", timeline, false)
	require.NoError(t, err)

	var decoded struct {
		Scenario string                    `json:"scenario"`
		Years    []domain.LegacyYearResult `json:"years"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Years, 1)
	assert.Equal(t, 2024, decoded.Years[0].Year)
}

func TestFormatComparison(t *testing.T) {
	a := sampleRun()
	b := sampleRun()
	b.Scenario = "austerity"
	b.Summary.FirstDeficit = 0

	text := FormatComparison([]*domain.RunResult{a, b})
	assert.Contains(t, text, "baseline")
	assert.Contains(t, text, "austerity")
	assert.Contains(t, text, "none", "a run with no deficit prints none")
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "5 563 970", FormatCount(5563970))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1 000", FormatCount(1000))

	// Negative net flows round away from zero, not toward it.
	assert.Equal(t, "-1 235", FormatCount(-1234.6))
	assert.Equal(t, "-999", FormatCount(-999.4))
}
