package app

import (
	"context"

	"github.com/awmpietro/under5-screening/internal/history"
	"github.com/awmpietro/under5-screening/internal/policy"
	"github.com/awmpietro/under5-screening/internal/triage"
)

type ScreenService interface {
	Screen(ctx context.Context, req ScreenRequest) (*ScreenResponse, error)
	History(ctx context.Context, patientRef string, limit int) ([]history.Record, error)
}

// ScreenRequest carries validated answers plus presentation preferences.
// Nil Include flags fall back to the service defaults.
type ScreenRequest struct {
	Answers        triage.AnswerSet
	PatientRef     string
	Village        string
	IncludePatient *bool
	IncludeVillage *bool
	// Language is a tag or an Accept-Language header value.
	Language string
	Phone    string
	Debug    bool
}

type ScreenResponse struct {
	ScreeningID string                 `json:"screening_id"`
	Result      triage.Result          `json:"result"`
	View        View                   `json:"view"`
	Trace       *policy.ExecutionTrace `json:"trace,omitempty"`
}

// View is the result rendered in the negotiated language.
type View struct {
	Language     string        `json:"language"`
	Risk         string        `json:"risk"`
	TopCondition LabeledRank   `json:"top_condition"`
	Alternatives []LabeledRank `json:"alternatives"`
	Actions      []string      `json:"actions"`
	Tips         []string      `json:"tips"`
	Triggers     []string      `json:"triggers"`
	Disclaimer   string        `json:"disclaimer"`
	ShareText    string        `json:"share_text"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

type LabeledRank struct {
	Condition   triage.Condition `json:"condition"`
	Label       string           `json:"label"`
	Probability int              `json:"probability"`
}
