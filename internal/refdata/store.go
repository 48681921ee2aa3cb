package refdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/okarvonen/vaesto/internal/domain"
)

// ErrNotLoaded is returned when reference data is read before Load completed.
var ErrNotLoaded = errors.New("refdata: reference dataset not loaded")

// Store holds the reference tables every engine component reads. It must be
// loaded exactly once before any simulation step runs; concurrent callers
// share a single in-flight load. After Load returns, all access is
// synchronous and read-only.
type Store struct {
	once    sync.Once
	loadErr error
	loaded  bool

	ds *Dataset

	births     map[int]float64
	survival   [domain.MaxAge + 1]float64
	gdp        map[int]float64
	debt       map[int]float64
	interest   map[int]float64
	population map[int]float64
	arrivals   map[domain.ImmigrantType]map[int]float64

	earliestArrivalYear int
	earliestGDPYear     int

	logger *slog.Logger
}

// NewStore creates an unloaded store. Pass a nil logger to discard logs.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{logger: logger}
}

// Load builds the per-year tables from the bundled dataset. Safe to call from
// multiple goroutines; only the first call does work and every caller sees
// the same outcome.
func (s *Store) Load(_ context.Context) error {
	s.once.Do(func() {
		s.loadErr = s.build(DefaultDataset())
	})
	return s.loadErr
}

// LoadFromFile loads a replacement dataset from a JSON file.
func (s *Store) LoadFromFile(_ context.Context, path string) error {
	s.once.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			s.loadErr = fmt.Errorf("refdata: read %s: %w", path, err)
			return
		}
		s.loadErr = s.decode(data, path)
	})
	return s.loadErr
}

// LoadFromURL fetches a replacement dataset over HTTP. The fetch happens at
// most once for the lifetime of the store.
func (s *Store) LoadFromURL(_ context.Context, url string) error {
	s.once.Do(func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)

		if err := fasthttp.Do(req, resp); err != nil {
			s.loadErr = fmt.Errorf("refdata: fetch %s: %w", url, err)
			return
		}
		if resp.StatusCode() != fasthttp.StatusOK {
			s.loadErr = fmt.Errorf("refdata: fetch %s: status %d", url, resp.StatusCode())
			return
		}
		body := make([]byte, len(resp.Body()))
		copy(body, resp.Body())
		s.loadErr = s.decode(body, url)
	})
	return s.loadErr
}

func (s *Store) decode(data []byte, source string) error {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return fmt.Errorf("refdata: decode %s: %w", source, err)
	}
	return s.build(&ds)
}

func (s *Store) build(ds *Dataset) error {
	if err := validateDataset(ds); err != nil {
		return err
	}

	s.ds = ds
	s.births = interpolateYears(ds.Births)
	s.gdp = interpolateYears(ds.GDP)
	s.debt = interpolateYears(ds.Debt)
	s.interest = interpolateYears(ds.Interest)
	s.population = interpolateYears(ds.Population)

	s.arrivals = map[domain.ImmigrantType]map[int]float64{
		domain.ImmigrantWork:         interpolateYears(ds.ArrivalsWork),
		domain.ImmigrantFamily:       interpolateYears(ds.ArrivalsFamily),
		domain.ImmigrantHumanitarian: interpolateYears(ds.ArrivalsHumanitarian),
	}

	s.earliestArrivalYear = ds.ArrivalsWork[0].Year
	for _, anchors := range [][]Anchor{ds.ArrivalsFamily, ds.ArrivalsHumanitarian} {
		if anchors[0].Year < s.earliestArrivalYear {
			s.earliestArrivalYear = anchors[0].Year
		}
	}
	s.earliestGDPYear = ds.GDP[0].Year

	curve := interpolateAges(ds.Survival)
	for age := 0; age <= domain.MaxAge; age++ {
		s.survival[age] = curve[age]
	}

	s.loaded = true
	s.logger.Info("reference dataset loaded",
		"baseYear", ds.BaseYear,
		"historicalCutoff", ds.HistoricalCutoff,
		"birthYears", len(s.births))
	return nil
}

func validateDataset(ds *Dataset) error {
	if ds.BaseYear == 0 || ds.HistoricalCutoff == 0 {
		return errors.New("refdata: dataset missing base year or historical cutoff")
	}
	if ds.TFRStart <= 0 {
		return errors.New("refdata: dataset missing starting TFR")
	}
	for name, anchors := range map[string][]Anchor{
		"births": ds.Births, "gdp": ds.GDP, "debt": ds.Debt,
		"interest": ds.Interest, "population": ds.Population,
		"arrivalsWork": ds.ArrivalsWork, "arrivalsFamily": ds.ArrivalsFamily,
		"arrivalsHumanitarian": ds.ArrivalsHumanitarian,
	} {
		if len(anchors) < 2 {
			return fmt.Errorf("refdata: series %s needs at least two anchors", name)
		}
		if !sort.SliceIsSorted(anchors, func(i, j int) bool { return anchors[i].Year < anchors[j].Year }) {
			return fmt.Errorf("refdata: series %s anchors not sorted by year", name)
		}
	}
	if len(ds.Survival) < 2 || ds.Survival[0].Age != 0 {
		return errors.New("refdata: survival curve must start at age 0")
	}
	if len(ds.Spending) == 0 {
		return errors.New("refdata: spending base table is empty")
	}
	return nil
}

// interpolateYears expands anchors into a dense per-year map over the anchor
// span. Values outside the span are absent, not extrapolated.
func interpolateYears(anchors []Anchor) map[int]float64 {
	out := make(map[int]float64)
	for i := 0; i < len(anchors)-1; i++ {
		a, b := anchors[i], anchors[i+1]
		span := b.Year - a.Year
		for y := a.Year; y < b.Year; y++ {
			frac := float64(y-a.Year) / float64(span)
			out[y] = a.Value + (b.Value-a.Value)*frac
		}
	}
	last := anchors[len(anchors)-1]
	out[last.Year] = last.Value
	return out
}

func interpolateAges(anchors []AgeAnchor) map[int]float64 {
	out := make(map[int]float64)
	for i := 0; i < len(anchors)-1; i++ {
		a, b := anchors[i], anchors[i+1]
		span := b.Age - a.Age
		for age := a.Age; age < b.Age; age++ {
			frac := float64(age-a.Age) / float64(span)
			out[age] = a.Value + (b.Value-a.Value)*frac
		}
	}
	last := anchors[len(anchors)-1]
	out[last.Age] = last.Value
	return out
}

func (s *Store) ensureLoaded() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

// BaseYear returns the fiscal pricing base year.
func (s *Store) BaseYear() int { return s.ds.BaseYear }

// HistoricalCutoff returns the last year covered by recorded series.
func (s *Store) HistoricalCutoff() int { return s.ds.HistoricalCutoff }

// TFRStart returns the last recorded total fertility rate.
func (s *Store) TFRStart() decimal.Decimal { return decimal.NewFromFloat(s.ds.TFRStart) }

// Births returns the recorded birth count for a year, if available.
func (s *Store) Births(year int) (float64, bool) {
	if err := s.ensureLoaded(); err != nil {
		return 0, false
	}
	n, ok := s.births[year]
	return n, ok
}

// Survival returns the cumulative survival probability to the given age.
// Ages outside [0, MaxAge] are clamped.
func (s *Store) Survival(age int) float64 {
	if err := s.ensureLoaded(); err != nil {
		return 0
	}
	if age < 0 {
		age = 0
	}
	if age > domain.MaxAge {
		age = domain.MaxAge
	}
	return s.survival[age]
}

// GDP returns the recorded GDP for a year in EUR billions.
func (s *Store) GDP(year int) (decimal.Decimal, bool) {
	if err := s.ensureLoaded(); err != nil {
		return decimal.Zero, false
	}
	v, ok := s.gdp[year]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}

// Debt returns the recorded government debt for a year in EUR billions.
func (s *Store) Debt(year int) (decimal.Decimal, bool) {
	if err := s.ensureLoaded(); err != nil {
		return decimal.Zero, false
	}
	v, ok := s.debt[year]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}

// InterestRate returns the recorded effective interest rate for a year.
func (s *Store) InterestRate(year int) (decimal.Decimal, bool) {
	if err := s.ensureLoaded(); err != nil {
		return decimal.Zero, false
	}
	v, ok := s.interest[year]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}

// PopulationReference returns the recorded total population for a year.
func (s *Store) PopulationReference(year int) (float64, bool) {
	if err := s.ensureLoaded(); err != nil {
		return 0, false
	}
	n, ok := s.population[year]
	return n, ok
}

// Arrivals returns the recorded arrival count for a type and year.
func (s *Store) Arrivals(year int, t domain.ImmigrantType) (float64, bool) {
	if err := s.ensureLoaded(); err != nil {
		return 0, false
	}
	series, ok := s.arrivals[t]
	if !ok {
		return 0, false
	}
	n, ok := series[year]
	return n, ok
}

// EarliestArrivalYear returns the first year with recorded arrivals.
func (s *Store) EarliestArrivalYear() int { return s.earliestArrivalYear }

// EarliestGDPYear returns the first year with a recorded GDP level.
func (s *Store) EarliestGDPYear() int { return s.earliestGDPYear }

// SpendingBase returns the base-year COFOG expenditure table.
func (s *Store) SpendingBase() []SpendingGroupData {
	if err := s.ensureLoaded(); err != nil {
		return nil
	}
	out := make([]SpendingGroupData, len(s.ds.Spending))
	copy(out, s.ds.Spending)
	return out
}

// Ready reports whether the store can serve lookups. Engine construction
// checks this so a missing Load surfaces as one clear error instead of
// zero-valued lookups mid-run.
func (s *Store) Ready() error { return s.ensureLoaded() }
