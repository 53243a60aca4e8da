// Package screendto holds the wire types shared by the HTTP and Lambda
// transports.
package screendto

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/awmpietro/under5-screening/internal/app"
	"github.com/awmpietro/under5-screening/internal/history"
	"github.com/awmpietro/under5-screening/internal/intake"
	"github.com/awmpietro/under5-screening/internal/triage"
)

const DefaultHistoryLimit = 20

// Extra form fields accepted next to the screening questions.
const (
	FormPatientRef     = "patient_ref"
	FormVillage        = "village"
	FormIncludePatient = "include_patient"
	FormIncludeVillage = "include_village"
	FormLanguage       = "lang"
	FormPhone          = "phone"
	FormDebug          = "debug"
)

type ScreenRequest struct {
	Answers        json.RawMessage `json:"answers"`
	PatientRef     string          `json:"patient_ref,omitempty"`
	Village        string          `json:"village,omitempty"`
	IncludePatient *bool           `json:"include_patient,omitempty"`
	IncludeVillage *bool           `json:"include_village,omitempty"`
	Language       string          `json:"lang,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Debug          bool            `json:"debug,omitempty"`
}

// ToApp validates the answers. acceptLanguage is used when the body does
// not name a language.
func (r ScreenRequest) ToApp(acceptLanguage string) (app.ScreenRequest, error) {
	answers, err := intake.FromJSON(r.Answers)
	if err != nil {
		return app.ScreenRequest{}, err
	}
	return app.ScreenRequest{
		Answers:        answers,
		PatientRef:     strings.TrimSpace(r.PatientRef),
		Village:        strings.TrimSpace(r.Village),
		IncludePatient: r.IncludePatient,
		IncludeVillage: r.IncludeVillage,
		Language:       pick(r.Language, acceptLanguage),
		Phone:          r.Phone,
		Debug:          r.Debug,
	}, nil
}

// FormRequest maps a posted screening form, including the optional
// identifier and presentation fields.
func FormRequest(form intake.FormValues, acceptLanguage string) (app.ScreenRequest, error) {
	answers, err := intake.FromForm(form)
	if err != nil {
		return app.ScreenRequest{}, err
	}
	includePatient, err := optionalFlag(form, FormIncludePatient)
	if err != nil {
		return app.ScreenRequest{}, err
	}
	includeVillage, err := optionalFlag(form, FormIncludeVillage)
	if err != nil {
		return app.ScreenRequest{}, err
	}
	debug, err := optionalFlag(form, FormDebug)
	if err != nil {
		return app.ScreenRequest{}, err
	}
	return app.ScreenRequest{
		Answers:        answers,
		PatientRef:     strings.TrimSpace(form.Get(FormPatientRef)),
		Village:        strings.TrimSpace(form.Get(FormVillage)),
		IncludePatient: includePatient,
		IncludeVillage: includeVillage,
		Language:       pick(form.Get(FormLanguage), acceptLanguage),
		Phone:          form.Get(FormPhone),
		Debug:          debug != nil && *debug,
	}, nil
}

type HistoryResponse struct {
	PatientRef string           `json:"patient_ref"`
	Records    []history.Record `json:"records"`
}

// HistoryLimit parses the limit query parameter. Empty means the default.
func HistoryLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, history.ErrInvalidLimit
	}
	return n, nil
}

// ErrorResponse maps a service or input error to a status and body.
func ErrorResponse(err error) (int, map[string]any) {
	var ve *triage.ValidationError
	var se *intake.SchemaError
	switch {
	case errors.As(err, &ve):
		body := map[string]any{"error": "invalid answers", "field": ve.Field, "value": ve.Value}
		if ve.Reason != "" {
			body["details"] = ve.Reason
		}
		return http.StatusBadRequest, body
	case errors.As(err, &se):
		return http.StatusBadRequest, map[string]any{"error": "invalid answers", "details": se.Violations}
	case errors.Is(err, history.ErrInvalidLimit), errors.Is(err, history.ErrMissingPatient):
		return http.StatusBadRequest, map[string]any{"error": "invalid history query", "details": err.Error()}
	case errors.Is(err, app.ErrHistoryDisabled):
		return http.StatusNotFound, map[string]any{"error": err.Error()}
	default:
		return http.StatusInternalServerError, map[string]any{"error": "screening failed"}
	}
}

func optionalFlag(form intake.FormValues, key string) (*bool, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "true", "1", "on":
		v := true
		return &v, nil
	case "no", "false", "0", "off":
		v := false
		return &v, nil
	}
	return nil, &triage.ValidationError{Field: key, Value: raw, Reason: "expected yes or no"}
}

func pick(preferred, fallback string) string {
	if s := strings.TrimSpace(preferred); s != "" {
		return s
	}
	return fallback
}
