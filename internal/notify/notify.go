// Package notify sends supervisor alerts for high-risk screenings.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/awmpietro/under5-screening/internal/triage"
)

type Alert struct {
	ScreeningID  string
	Risk         triage.RiskTier
	TopCondition triage.Condition
	Triggers     []triage.Trigger
	Village      string
	// Text is the rendered supervisor message.
	Text string
}

func (a Alert) Subject() string {
	return fmt.Sprintf("%s risk screening %s", a.Risk, a.ScreeningID)
}

type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

type Noop struct{}

func (Noop) Notify(context.Context, Alert) error { return nil }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
