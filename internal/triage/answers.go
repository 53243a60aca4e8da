package triage

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	FieldAgeGroup        = "age_group"
	FieldMUAC            = "muac_color"
	FieldRDT             = "rdt_result"
	FieldRespiratoryRate = "respiratory_rate"
)

// ValidationError identifies an answer outside the structural contract.
type ValidationError struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// The short forms are the values posted by the HTML screening form.
var ageGroupAliases = map[string]AgeGroup{
	"young_infant": AgeYoungInfant,
	"0_2m":         AgeYoungInfant,
	"infant":       AgeInfant,
	"2_12m":        AgeInfant,
	"child":        AgeChild,
	"1_5y":         AgeChild,
}

func ParseAgeGroup(raw string) (AgeGroup, error) {
	if g, ok := ageGroupAliases[normalizeLiteral(raw)]; ok {
		return g, nil
	}
	return "", &ValidationError{Field: FieldAgeGroup, Value: raw, Reason: "expected one of young_infant|infant|child"}
}

func ParseMUACColor(raw string) (MUACColor, error) {
	m := MUACColor(normalizeLiteral(raw))
	if !m.Valid() {
		return "", &ValidationError{Field: FieldMUAC, Value: raw, Reason: "expected one of not_measured|green|yellow|red"}
	}
	return m, nil
}

func ParseRDTResult(raw string) (RDTResult, error) {
	r := RDTResult(normalizeLiteral(raw))
	if !r.Valid() {
		return "", &ValidationError{Field: FieldRDT, Value: raw, Reason: "expected one of not_done|negative|positive"}
	}
	return r, nil
}

// ParseRespiratoryRate is deliberately permissive: anything that is not a
// plain non-negative integer means the rate was not measured.
func ParseRespiratoryRate(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// Validate checks the enum fields and the respiratory rate. An empty enum
// is an error, never a silent default.
func (a AnswerSet) Validate() error {
	if !a.AgeGroup.Valid() {
		return &ValidationError{Field: FieldAgeGroup, Value: string(a.AgeGroup), Reason: "unknown age group"}
	}
	if !a.MUAC.Valid() {
		return &ValidationError{Field: FieldMUAC, Value: string(a.MUAC), Reason: "unknown MUAC color"}
	}
	if !a.RDT.Valid() {
		return &ValidationError{Field: FieldRDT, Value: string(a.RDT), Reason: "unknown RDT result"}
	}
	if a.RespiratoryRate != nil && *a.RespiratoryRate < 0 {
		return &ValidationError{Field: FieldRespiratoryRate, Value: strconv.Itoa(*a.RespiratoryRate), Reason: "must not be negative"}
	}
	return nil
}

func normalizeLiteral(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
