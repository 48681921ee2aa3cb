package output

import (
	"github.com/goccy/go-json"

	"github.com/okarvonen/vaesto/internal/domain"
)

// JSONFormatter serializes a run for downstream tooling. The shape is a
// stable envelope around the annual timeline; FinalState is omitted because
// it duplicates the last timeline row at much larger size.
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) Name() string { return "json" }

type jsonEnvelope struct {
	Scenario   string                   `json:"scenario"`
	Summary    domain.RunSummary        `json:"summary"`
	Annual     []domain.YearResult      `json:"annual"`
	Validation *domain.ValidationResult `json:"validation,omitempty"`
}

func (f JSONFormatter) Format(run *domain.RunResult) ([]byte, error) {
	env := jsonEnvelope{
		Scenario:   run.Scenario,
		Summary:    run.Summary,
		Annual:     run.Annual,
		Validation: run.Validation,
	}
	if f.Pretty {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}

// LegacyJSON serializes the flat legacy timeline shape.
func LegacyJSON(scenario string, timeline []domain.LegacyYearResult, pretty bool) ([]byte, error) {
	env := struct {
		Scenario string                    `json:"scenario"`
		Years    []domain.LegacyYearResult `json:"years"`
	}{Scenario: scenario, Years: timeline}
	if pretty {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}
