// Package messaging renders screening results as plain-text messages for
// caregivers and supervisors.
package messaging

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/awmpietro/under5-screening/internal/locale"
	"github.com/awmpietro/under5-screening/internal/triage"
)

const (
	bullet          = "• "
	maxShareActions = 2
	whatsAppBase    = "https://wa.me/"
)

// ShareOptions controls which identifying details appear. A value is only
// printed when its Include flag is set and the value is not blank.
type ShareOptions struct {
	PatientRef     string
	Village        string
	IncludePatient bool
	IncludeVillage bool
}

// ShareText is the compact caregiver message: header, optional identifiers,
// risk, top condition, alternatives, and the first two actions. The urgent
// sentence is appended only when the danger trigger fired.
func ShareText(r triage.Result, opts ShareOptions, cat *locale.Catalog) string {
	if cat == nil {
		cat = locale.English()
	}
	p := cat.Phrases

	lines := []string{p.ShareHeader}
	if v := singleLine(opts.PatientRef); opts.IncludePatient && v != "" {
		lines = append(lines, p.Patient+": "+v)
	}
	if v := singleLine(opts.Village); opts.IncludeVillage && v != "" {
		lines = append(lines, p.Village+": "+v)
	}

	lines = append(lines,
		p.Risk+": "+cat.Tier(r.Tier),
		fmt.Sprintf("%s: %s (%d%%)", p.TopCondition, cat.Condition(r.Top.Condition), r.Top.Probability),
	)

	if len(r.Alternatives) > 0 {
		alts := make([]string, len(r.Alternatives))
		for i, a := range r.Alternatives {
			alts[i] = fmt.Sprintf("%s %d%%", cat.Condition(a.Condition), a.Probability)
		}
		lines = append(lines, p.Alternatives+": "+strings.Join(alts, ", "))
	}

	lines = append(lines, p.NextSteps)
	for i, a := range r.Actions {
		if i == maxShareActions {
			break
		}
		lines = append(lines, bullet+cat.Action(a))
	}

	if r.Fired(triage.TriggerDanger) {
		lines = append(lines, p.Urgent)
	}
	return strings.Join(lines, "\n")
}

// SupervisorText is ShareText prefixed with the screening ID so a
// supervisor can find the stored record.
func SupervisorText(screeningID string, r triage.Result, opts ShareOptions, cat *locale.Catalog) string {
	if cat == nil {
		cat = locale.English()
	}
	return cat.Phrases.ScreeningID + ": " + singleLine(screeningID) + "\n" + ShareText(r, opts, cat)
}

// WhatsAppLink builds a wa.me deep link. Non-digits are dropped from phone;
// an empty phone lets the user pick the recipient.
func WhatsAppLink(text, phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsAppBase + digits + "?text=" + escaped
}

// singleLine normalizes free text to NFC and folds control characters into
// spaces so a value cannot add lines to the message.
func singleLine(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
