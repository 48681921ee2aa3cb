package domain

// MaxAge is the terminal age bucket. People aged 100 or older are pooled here.
const MaxAge = 100

// ImmigrantType classifies immigrant cohorts by the ground for arrival.
// Integration curves and emigration propensity differ per type.
type ImmigrantType string

const (
	ImmigrantWork         ImmigrantType = "work"
	ImmigrantFamily       ImmigrantType = "family"
	ImmigrantHumanitarian ImmigrantType = "humanitarian"
)

// ImmigrantTypes lists all cohort types in a stable order.
var ImmigrantTypes = []ImmigrantType{ImmigrantWork, ImmigrantFamily, ImmigrantHumanitarian}

// Valid reports whether t is one of the known immigrant types.
func (t ImmigrantType) Valid() bool {
	switch t {
	case ImmigrantWork, ImmigrantFamily, ImmigrantHumanitarian:
		return true
	}
	return false
}

// CohortKey identifies one immigrant cohort. The arrival year is kept for the
// lifetime of the cohort because integration and emigration depend on years
// since arrival, not calendar age.
type CohortKey struct {
	Age         int
	Type        ImmigrantType
	ArrivalYear int
}

// YearsInCountry returns the tenure of the cohort as of the given year.
func (k CohortKey) YearsInCountry(year int) int {
	years := year - k.ArrivalYear
	if years < 0 {
		return 0
	}
	return years
}

// PopulationState is the canonical representation of who is alive, split into
// a native cohort-by-age table and an immigrant cohort table. Counts are
// fractional head-counts: expected-value placement of arrivals produces
// non-integer cohorts.
//
// Transition functions never mutate a PopulationState in place; they clone it
// and return a new one.
type PopulationState struct {
	Native     map[int]float64       `json:"native"`
	Immigrants map[CohortKey]float64 `json:"-"`
}

// NewPopulationState creates an empty population.
func NewPopulationState() *PopulationState {
	return &PopulationState{
		Native:     make(map[int]float64),
		Immigrants: make(map[CohortKey]float64),
	}
}

// Clone returns a deep copy. The copy shares nothing with the receiver, so a
// transition can build the next year's state without aliasing the previous.
func (p *PopulationState) Clone() *PopulationState {
	c := &PopulationState{
		Native:     make(map[int]float64, len(p.Native)),
		Immigrants: make(map[CohortKey]float64, len(p.Immigrants)),
	}
	for age, n := range p.Native {
		c.Native[age] = n
	}
	for key, n := range p.Immigrants {
		c.Immigrants[key] = n
	}
	return c
}

// NativeTotal returns the native head-count.
func (p *PopulationState) NativeTotal() float64 {
	var total float64
	for _, n := range p.Native {
		total += n
	}
	return total
}

// ImmigrantTotal returns the immigrant head-count across all cohorts.
func (p *PopulationState) ImmigrantTotal() float64 {
	var total float64
	for _, n := range p.Immigrants {
		total += n
	}
	return total
}

// Total returns the whole population.
func (p *PopulationState) Total() float64 {
	return p.NativeTotal() + p.ImmigrantTotal()
}

// ImmigrantsByType returns the immigrant stock per cohort type.
func (p *PopulationState) ImmigrantsByType() map[ImmigrantType]float64 {
	byType := make(map[ImmigrantType]float64, len(ImmigrantTypes))
	for _, t := range ImmigrantTypes {
		byType[t] = 0
	}
	for key, n := range p.Immigrants {
		byType[key.Type] += n
	}
	return byType
}

// CountAges sums both partitions over the inclusive age range [lo, hi].
func (p *PopulationState) CountAges(lo, hi int) float64 {
	var total float64
	for age, n := range p.Native {
		if age >= lo && age <= hi {
			total += n
		}
	}
	for key, n := range p.Immigrants {
		if key.Age >= lo && key.Age <= hi {
			total += n
		}
	}
	return total
}

// Age band boundaries used for dependency ratios and workforce sizing.
const (
	childAgeMax    = 14
	workingAgeMin  = 15
	workingAgeMax  = 64
	childbearingLo = 15
	childbearingHi = 49

	// FemaleShare is the assumed female share of the childbearing ages.
	FemaleShare = 0.51
)

// Children returns the head-count aged 0-14.
func (p *PopulationState) Children() float64 { return p.CountAges(0, childAgeMax) }

// WorkingAge returns the head-count aged 15-64.
func (p *PopulationState) WorkingAge() float64 { return p.CountAges(workingAgeMin, workingAgeMax) }

// Elderly returns the head-count aged 65 and over.
func (p *PopulationState) Elderly() float64 { return p.CountAges(workingAgeMax+1, MaxAge) }

// WomenOfChildbearingAge counts women aged 15-49 across both partitions,
// applying the assumed female share.
func (p *PopulationState) WomenOfChildbearingAge() float64 {
	return p.CountAges(childbearingLo, childbearingHi) * FemaleShare
}

// DependencyRatio returns (children + elderly) / working-age * 100, or zero
// when there is no working-age population.
func (p *PopulationState) DependencyRatio() float64 {
	working := p.WorkingAge()
	if working <= 0 {
		return 0
	}
	return (p.Children() + p.Elderly()) / working * 100
}
