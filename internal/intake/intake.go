// Package intake turns raw caregiver answers into a validated
// triage.AnswerSet.
package intake

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/awmpietro/under5-screening/internal/triage"
)

//go:embed answers.schema.json
var answersSchemaJSON []byte

var answersSchema = mustSchema(answersSchemaJSON)

func mustSchema(src []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(src))
	if err != nil {
		panic(fmt.Sprintf("answers schema: %v", err))
	}
	return s
}

// SchemaError lists every way a JSON payload failed the answers schema.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "answers do not match schema: " + strings.Join(e.Violations, "; ")
}

type jsonAnswers struct {
	AgeGroup                  string          `json:"age_group"`
	CannotDrink               bool            `json:"cannot_drink"`
	VomitsEverything          bool            `json:"vomits_everything"`
	Convulsions               bool            `json:"convulsions"`
	Lethargic                 bool            `json:"lethargic"`
	Fever                     bool            `json:"fever"`
	CoughOrDifficultBreathing bool            `json:"cough_or_difficult_breathing"`
	RespiratoryRate           json.RawMessage `json:"respiratory_rate"`
	ChestIndrawing            bool            `json:"chest_indrawing"`
	Stridor                   bool            `json:"stridor"`
	MUAC                      string          `json:"muac_color"`
	Oedema                    bool            `json:"oedema"`
	NotFeedingWell            bool            `json:"not_feeding_well"`
	StimulationOnlyMovement   bool            `json:"stimulation_only_movement"`
	RDT                       string          `json:"rdt_result"`
}

// FromJSON validates data against the answers schema and maps it. The
// respiratory rate may be sent as a number or as free text.
func FromJSON(data []byte) (triage.AnswerSet, error) {
	result, err := answersSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return triage.AnswerSet{}, &SchemaError{Violations: []string{"malformed JSON: " + err.Error()}}
	}
	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return triage.AnswerSet{}, &SchemaError{Violations: violations}
	}

	var raw jsonAnswers
	if err := json.Unmarshal(data, &raw); err != nil {
		return triage.AnswerSet{}, fmt.Errorf("decode answers: %w", err)
	}

	rate, err := decodeRate(raw.RespiratoryRate)
	if err != nil {
		return triage.AnswerSet{}, err
	}

	a := triage.AnswerSet{
		CannotDrink:               raw.CannotDrink,
		VomitsEverything:          raw.VomitsEverything,
		Convulsions:               raw.Convulsions,
		Lethargic:                 raw.Lethargic,
		Fever:                     raw.Fever,
		CoughOrDifficultBreathing: raw.CoughOrDifficultBreathing,
		RespiratoryRate:           rate,
		ChestIndrawing:            raw.ChestIndrawing,
		Stridor:                   raw.Stridor,
		Oedema:                    raw.Oedema,
		NotFeedingWell:            raw.NotFeedingWell,
		StimulationOnlyMovement:   raw.StimulationOnlyMovement,
	}
	if err := parseEnums(&a, raw.AgeGroup, raw.MUAC, raw.RDT); err != nil {
		return triage.AnswerSet{}, err
	}
	return finish(a)
}

func decodeRate(raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode respiratory_rate: %w", err)
		}
		return triage.ParseRespiratoryRate(s), nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode respiratory_rate: %w", err)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil, &triage.ValidationError{Field: triage.FieldRespiratoryRate, Value: string(raw), Reason: "out of range"}
	}
	n := int(f)
	return &n, nil
}

func parseEnums(a *triage.AnswerSet, age, muac, rdt string) error {
	var err error
	if a.AgeGroup, err = triage.ParseAgeGroup(age); err != nil {
		return err
	}
	if a.MUAC, err = triage.ParseMUACColor(muac); err != nil {
		return err
	}
	if a.RDT, err = triage.ParseRDTResult(rdt); err != nil {
		return err
	}
	return nil
}

// finish clears the young-infant questions for older children, which the
// form hides, and runs the structural checks.
func finish(a triage.AnswerSet) (triage.AnswerSet, error) {
	if a.AgeGroup != triage.AgeYoungInfant {
		a.NotFeedingWell = false
		a.StimulationOnlyMovement = false
	}
	if err := a.Validate(); err != nil {
		return triage.AnswerSet{}, err
	}
	return a, nil
}

// IsInputError reports whether err came from bad caller input rather than
// from the service.
func IsInputError(err error) bool {
	var ve *triage.ValidationError
	var se *SchemaError
	return errors.As(err, &ve) || errors.As(err, &se)
}
