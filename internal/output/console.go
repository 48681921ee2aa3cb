package output

import (
	"fmt"
	"strings"

	"github.com/okarvonen/vaesto/internal/domain"
)

// timelineStride keeps the console table readable over long runs: every
// Nth year plus the final one.
const timelineStride = 5

// ConsoleFormatter renders a run as a human-readable report.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(run *domain.RunResult) ([]byte, error) {
	var b strings.Builder

	rule := strings.Repeat("=", 96)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "POPULATION AND PUBLIC FINANCE PROJECTION: %s\n", run.Scenario)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	writeSummary(&b, &run.Summary)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "%-6s %-4s %12s %10s %10s %12s %12s %10s %10s\n",
		"Year", "", "Population", "Births", "NetMigr", "Balance", "GDP", "Debt/GDP", "Growth")
	fmt.Fprintln(&b, strings.Repeat("-", 96))
	for i := range run.Annual {
		r := &run.Annual[i]
		if (r.Year-run.Summary.StartYear)%timelineStride != 0 && i != len(run.Annual)-1 {
			continue
		}
		marker := ""
		if r.Historical {
			marker = "H"
		}
		fmt.Fprintf(&b, "%-6d %-4s %12s %10s %10s %12s %12s %10s %10s\n",
			r.Year, marker,
			FormatCount(r.TotalPopulation),
			FormatCount(r.Births),
			FormatCount(r.Arrivals-r.Departures),
			FormatMillions(r.AdjustedFiscal.Balance),
			FormatBillions(r.GDP),
			FormatPercent(r.DebtToGDP),
			FormatPercent(r.GDPGrowth.Mul(hundred)))
	}

	if run.Validation != nil {
		fmt.Fprintln(&b)
		writeValidation(&b, run.Validation)
	}
	return []byte(b.String()), nil
}

func writeSummary(b *strings.Builder, s *domain.RunSummary) {
	fmt.Fprintln(b, "RUN SUMMARY")
	fmt.Fprintln(b, strings.Repeat("-", 40))
	fmt.Fprintf(b, "  Years:                %d-%d\n", s.StartYear, s.EndYear)
	fmt.Fprintf(b, "  Population:           %s -> %s\n", FormatCount(s.StartPopulation), FormatCount(s.EndPopulation))
	fmt.Fprintf(b, "  Peak surplus:         %s (%d)\n", FormatMillions(s.PeakSurplus), s.PeakSurplusYear)
	if s.FirstDeficit != 0 {
		fmt.Fprintf(b, "  First deficit year:   %d\n", s.FirstDeficit)
	} else {
		fmt.Fprintf(b, "  First deficit year:   none\n")
	}
	fmt.Fprintf(b, "  Peak debt-to-GDP:     %s (%d)\n", FormatPercent(s.PeakDebtToGDP), s.PeakDebtYear)
	fmt.Fprintf(b, "  Cumulative balance:   %s\n", FormatMillions(s.CumulativeBal))
	fmt.Fprintf(b, "  Avg GDP growth:       %s\n", FormatPercent(s.AvgGDPGrowth.Mul(hundred)))
}

func writeValidation(b *strings.Builder, v *domain.ValidationResult) {
	if v.Valid && len(v.Warnings) == 0 {
		fmt.Fprintln(b, "Validation: clean")
		return
	}
	fmt.Fprintf(b, "Validation: %d error(s), %d warning(s)\n", len(v.Errors), len(v.Warnings))
	for _, e := range v.Errors {
		fmt.Fprintf(b, "  ERROR: %s\n", e)
	}
	for _, w := range v.Warnings {
		fmt.Fprintf(b, "  warn:  %s\n", w)
	}
}

// FormatComparison renders several runs side by side, one summary row each.
func FormatComparison(runs []*domain.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %14s %12s %12s %12s %14s\n",
		"Scenario", "EndPopulation", "FirstDeficit", "PeakDebt%", "AvgGrowth", "CumBalance")
	fmt.Fprintln(&b, strings.Repeat("-", 92))
	for _, run := range runs {
		s := run.Summary
		firstDeficit := "none"
		if s.FirstDeficit != 0 {
			firstDeficit = fmt.Sprintf("%d", s.FirstDeficit)
		}
		fmt.Fprintf(&b, "%-24s %14s %12s %12s %12s %14s\n",
			run.Scenario,
			FormatCount(s.EndPopulation),
			firstDeficit,
			FormatPercent(s.PeakDebtToGDP),
			FormatPercent(s.AvgGDPGrowth.Mul(hundred)),
			FormatMillions(s.CumulativeBal))
	}
	return b.String()
}
