package refdata

// The reference dataset ships as sparse anchor series; Load interpolates them
// into dense per-year tables. Anchors keep the bundled data reviewable and
// let an external dataset override everything with the same JSON shape.

// Anchor is one (year, value) point of a sparse series.
type Anchor struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// AgeAnchor is one (age, value) point of a sparse age curve.
type AgeAnchor struct {
	Age   int     `json:"age"`
	Value float64 `json:"value"`
}

// SpendingGroupData is the base-year expenditure of one COFOG division.
type SpendingGroupData struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Driver string  `json:"driver"` // demographic-elderly, demographic-children, population, gdp, discretionary, mixed
	Base   float64 `json:"base"`   // EUR billions in the base year
}

// Dataset is the serializable reference dataset. The bundled default covers
// Finland 1900-2023; a replacement can be loaded from file or URL.
type Dataset struct {
	BaseYear         int `json:"baseYear"`
	HistoricalCutoff int `json:"historicalCutoff"`

	// TFRStart is the total fertility rate recorded in the last historical
	// year; projections interpolate from here toward the scenario target.
	TFRStart float64 `json:"tfrStart"`

	Births     []Anchor    `json:"births"`
	Survival   []AgeAnchor `json:"survival"` // cumulative survival probability to age
	GDP        []Anchor    `json:"gdp"`      // EUR billions
	Debt       []Anchor    `json:"debt"`     // EUR billions
	Interest   []Anchor    `json:"interest"` // effective rate on debt stock
	Population []Anchor    `json:"population"`

	ArrivalsWork         []Anchor `json:"arrivalsWork"`
	ArrivalsFamily       []Anchor `json:"arrivalsFamily"`
	ArrivalsHumanitarian []Anchor `json:"arrivalsHumanitarian"`

	Spending []SpendingGroupData `json:"spending"`
}

// DefaultDataset returns the bundled reference dataset.
func DefaultDataset() *Dataset {
	return &Dataset{
		BaseYear:         2023,
		HistoricalCutoff: 2023,
		TFRStart:         1.26,

		Births: []Anchor{
			{1900, 86339}, {1910, 92984}, {1920, 84714}, {1930, 75236},
			{1940, 65849}, {1945, 95758}, {1947, 108168}, {1950, 98065},
			{1955, 89740}, {1960, 82129}, {1965, 77885}, {1970, 64559},
			{1973, 56787}, {1975, 65719}, {1980, 63064}, {1985, 62796},
			{1990, 65549}, {1995, 63067}, {2000, 56742}, {2005, 57745},
			{2010, 60980}, {2015, 55472}, {2019, 45613}, {2021, 49594},
			{2023, 43383},
		},

		Survival: []AgeAnchor{
			{0, 1.0000}, {1, 0.9966}, {5, 0.9961}, {15, 0.9956},
			{25, 0.9925}, {35, 0.9890}, {45, 0.9830}, {55, 0.9690},
			{65, 0.9380}, {75, 0.8650}, {85, 0.6600}, {95, 0.2700},
			{100, 0.0600},
		},

		GDP: []Anchor{
			{1990, 92}, {1991, 87}, {1993, 85}, {1995, 98}, {2000, 136},
			{2005, 164}, {2008, 194}, {2009, 181}, {2010, 187}, {2015, 211},
			{2019, 240}, {2020, 238}, {2021, 251}, {2022, 268}, {2023, 273},
		},

		Debt: []Anchor{
			{1990, 10.5}, {1993, 45}, {1995, 57}, {2000, 63}, {2005, 60},
			{2008, 54}, {2010, 75}, {2015, 100}, {2019, 106}, {2020, 125},
			{2021, 129}, {2022, 142}, {2023, 156},
		},

		Interest: []Anchor{
			{1990, 0.105}, {1995, 0.088}, {2000, 0.055}, {2005, 0.034},
			{2010, 0.030}, {2015, 0.011}, {2019, 0.007}, {2021, 0.005},
			{2022, 0.016}, {2023, 0.031},
		},

		Population: []Anchor{
			{1990, 4998478}, {1995, 5108173}, {2000, 5181115},
			{2005, 5255580}, {2010, 5375276}, {2015, 5487308},
			{2020, 5533793}, {2023, 5563970},
		},

		ArrivalsWork: []Anchor{
			{1990, 980}, {1995, 1300}, {2000, 2100}, {2005, 3600},
			{2010, 5400}, {2015, 6300}, {2020, 10800}, {2022, 20100},
			{2023, 24500},
		},
		ArrivalsFamily: []Anchor{
			{1990, 2900}, {1995, 3300}, {2000, 4100}, {2005, 5500},
			{2010, 7600}, {2015, 8700}, {2020, 13100}, {2022, 18600},
			{2023, 20400},
		},
		ArrivalsHumanitarian: []Anchor{
			{1990, 2600}, {1995, 2700}, {2000, 2900}, {2005, 3600},
			{2010, 5200}, {2015, 6400}, {2016, 11200}, {2020, 9000},
			{2022, 11300}, {2023, 11800},
		},

		Spending: []SpendingGroupData{
			{"G01", "General public services", "mixed", 8.9},
			{"G02", "Defence", "gdp", 3.6},
			{"G03", "Public order and safety", "population", 3.1},
			{"G04", "Economic affairs", "gdp", 12.4},
			{"G05", "Environmental protection", "discretionary", 0.6},
			{"G06", "Housing and community amenities", "discretionary", 0.8},
			{"G07", "Health", "demographic-elderly", 21.2},
			{"G08", "Recreation, culture and religion", "population", 3.3},
			{"G09", "Education", "demographic-children", 15.6},
			{"G10", "Social protection", "demographic-elderly", 59.0},
		},
	}
}
