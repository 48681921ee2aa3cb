package domain

import (
	"github.com/shopspring/decimal"
)

// YearResult is the externally visible snapshot for one simulated year.
// The driver appends one per year to an ordered timeline; results are never
// mutated after append.
type YearResult struct {
	Year       int  `json:"year"`
	Historical bool `json:"historical"`

	// Demographic flows during the year.
	Births     float64 `json:"births"`
	Deaths     float64 `json:"deaths"`
	Arrivals   float64 `json:"arrivals"`
	Departures float64 `json:"departures"`

	// Population stocks at year end.
	TotalPopulation     float64                   `json:"totalPopulation"`
	NativePopulation    float64                   `json:"nativePopulation"`
	ImmigrantPopulation float64                   `json:"immigrantPopulation"`
	ImmigrantsByType    map[ImmigrantType]float64 `json:"immigrantsByType"`

	// Fiscal holds the base-year-priced flows with interest included.
	// AdjustedFiscal restates them for projected wage and sector cost growth.
	Fiscal         AnnualFiscalFlows `json:"fiscal"`
	AdjustedFiscal AnnualFiscalFlows `json:"adjustedFiscal"`

	// Macro metrics. GDP and debt in EUR billions, rates as fractions.
	GDP              decimal.Decimal `json:"gdp"`
	GDPGrowth        decimal.Decimal `json:"gdpGrowth"`
	Debt             decimal.Decimal `json:"debt"`
	DebtToGDP        decimal.Decimal `json:"debtToGdp"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	InterestExpense  decimal.Decimal `json:"interestExpense"`
	SpendingShareGDP decimal.Decimal `json:"spendingShareGdp"`
	DeficitShareGDP  decimal.Decimal `json:"deficitShareGdp"`

	// Spending carries the parallel top-down COFOG estimate when the run
	// has a spending projector attached.
	Spending       *SpendingProjection `json:"spending,omitempty"`
	SpendingLegacy *SpendingRollup     `json:"spendingLegacy,omitempty"`
}

// GroupSpending is one projected COFOG division level in EUR billions.
type GroupSpending struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SpendingProjection is the parallel top-down expenditure estimate for one
// year, by COFOG division.
type SpendingProjection struct {
	Year   int             `json:"year"`
	Groups []GroupSpending `json:"groups"`
	Total  decimal.Decimal `json:"total"`
}

// SpendingRollup folds a spending projection into the legacy 4-category
// shape for cross-checking against the bottom-up fiscal estimate.
type SpendingRollup struct {
	Education  decimal.Decimal `json:"education"`
	Healthcare decimal.Decimal `json:"healthcare"`
	Pensions   decimal.Decimal `json:"pensions"`
	Benefits   decimal.Decimal `json:"benefits"`
	Other      decimal.Decimal `json:"other"`
}

// RunSummary holds run-level statistics over a completed year range.
type RunSummary struct {
	StartYear int `json:"startYear"`
	EndYear   int `json:"endYear"`

	PeakSurplus     decimal.Decimal `json:"peakSurplus"`
	PeakSurplusYear int             `json:"peakSurplusYear"`
	FirstDeficit    int             `json:"firstDeficitYear"` // zero when no deficit year
	PeakDebtToGDP   decimal.Decimal `json:"peakDebtToGdp"`
	PeakDebtYear    int             `json:"peakDebtYear"`
	CumulativeBal   decimal.Decimal `json:"cumulativeBalance"`

	StartPopulation float64         `json:"startPopulation"`
	EndPopulation   float64         `json:"endPopulation"`
	AvgGDPGrowth    decimal.Decimal `json:"avgGdpGrowth"`
}

// RunResult bundles everything a simulation run produces.
type RunResult struct {
	Scenario   string            `json:"scenario"`
	Annual     []YearResult      `json:"annualResults"`
	Summary    RunSummary        `json:"summary"`
	FinalState *SimulationState  `json:"-"`
	Validation *ValidationResult `json:"validation,omitempty"`
}

// ValidationResult is the advisory report of a state or result check.
// Errors mark structurally impossible values; warnings mark anomalies the
// caller may choose to tolerate. Validation never halts a run by itself.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Merge folds another result into the receiver.
func (v *ValidationResult) Merge(other ValidationResult) {
	v.Valid = v.Valid && other.Valid
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
}

// LegacyYearResult is the flat result shape consumed by pre-rewrite tooling.
// It carries only top-level totals; the structured YearResult is the source
// of truth.
type LegacyYearResult struct {
	Year             int     `json:"year"`
	Population       float64 `json:"population"`
	Births           float64 `json:"births"`
	Deaths           float64 `json:"deaths"`
	NetMigration     float64 `json:"netMigration"`
	Revenue          float64 `json:"revenue"`
	Expenditure      float64 `json:"expenditure"`
	Balance          float64 `json:"balance"`
	GDP              float64 `json:"gdp"`
	Debt             float64 `json:"debt"`
	DebtToGDPPercent float64 `json:"debtToGdpPercent"`
	IsHistorical     bool    `json:"isHistorical"`
}
