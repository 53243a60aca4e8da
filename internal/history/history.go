// Package history is the append-only screening log.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/awmpietro/under5-screening/internal/triage"
)

const MaxLimit = 500

var (
	ErrInvalidLimit   = errors.New("history: limit must be between 1 and 500")
	ErrMissingPatient = errors.New("history: patient reference is required")
)

// Record is what is kept of a screening. Answers are not stored.
type Record struct {
	ID           uuid.UUID        `json:"id"`
	PatientRef   string           `json:"patient_ref,omitempty"`
	Village      string           `json:"village,omitempty"`
	Risk         triage.RiskTier  `json:"risk"`
	TopCondition triage.Condition `json:"top_condition"`
	Probability  int              `json:"probability"`
	Triggers     []triage.Trigger `json:"triggers"`
	CreatedAt    time.Time        `json:"created_at"`
}

func NewRecord(id uuid.UUID, patientRef, village string, r triage.Result, at time.Time) Record {
	return Record{
		ID:           id,
		PatientRef:   patientRef,
		Village:      village,
		Risk:         r.Tier,
		TopCondition: r.Top.Condition,
		Probability:  r.Top.Probability,
		Triggers:     append([]triage.Trigger{}, r.Triggers...),
		CreatedAt:    at.UTC(),
	}
}

type Store interface {
	Append(ctx context.Context, rec Record) error
	// ListByPatient returns the newest records first.
	ListByPatient(ctx context.Context, patientRef string, limit int) ([]Record, error)
}

func checkListArgs(patientRef string, limit int) error {
	if patientRef == "" {
		return ErrMissingPatient
	}
	if limit < 1 || limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}
