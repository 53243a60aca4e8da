// Package locale maps triage identifiers to caregiver-facing text.
package locale

import (
	"golang.org/x/text/language"

	"github.com/awmpietro/under5-screening/internal/triage"
)

// Phrases are the fixed strings around a rendered result.
type Phrases struct {
	Title        string
	Disclaimer   string
	ShareHeader  string
	ScreeningID  string
	Patient      string
	Village      string
	Risk         string
	TopCondition string
	Alternatives string
	NextSteps    string
	Urgent       string
}

// Catalog is read-only once built.
type Catalog struct {
	Tag     language.Tag
	Phrases Phrases

	conditions map[triage.Condition]string
	tiers      map[triage.RiskTier]string
	triggers   map[triage.Trigger]string
	actions    map[triage.Action]string
	tips       map[triage.Tip]string
}

// Lookups fall back to the identifier itself so a missing entry shows up
// in the output instead of as a blank line.

func (c *Catalog) Condition(x triage.Condition) string {
	if s, ok := c.conditions[x]; ok {
		return s
	}
	return x.String()
}

func (c *Catalog) Tier(x triage.RiskTier) string {
	if s, ok := c.tiers[x]; ok {
		return s
	}
	return string(x)
}

func (c *Catalog) Trigger(x triage.Trigger) string {
	if s, ok := c.triggers[x]; ok {
		return s
	}
	return string(x)
}

func (c *Catalog) Action(x triage.Action) string {
	if s, ok := c.actions[x]; ok {
		return s
	}
	return string(x)
}

func (c *Catalog) Tip(x triage.Tip) string {
	if s, ok := c.tips[x]; ok {
		return s
	}
	return string(x)
}

func (c *Catalog) Actions(xs []triage.Action) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = c.Action(x)
	}
	return out
}

func (c *Catalog) Tips(xs []triage.Tip) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = c.Tip(x)
	}
	return out
}

func (c *Catalog) Triggers(xs []triage.Trigger) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = c.Trigger(x)
	}
	return out
}

// The first catalog is the fallback for unmatched preferences.
var catalogs = []*Catalog{english, swahili}

var matcher = language.NewMatcher(supportedTags())

func supportedTags() []language.Tag {
	tags := make([]language.Tag, len(catalogs))
	for i, c := range catalogs {
		tags[i] = c.Tag
	}
	return tags
}

func English() *Catalog { return english }

// Catalogs returns every available catalog, English first.
func Catalogs() []*Catalog {
	return append([]*Catalog(nil), catalogs...)
}

// Negotiate picks the best catalog for the given preferences. Each
// preference may be a plain tag ("sw") or a full Accept-Language header.
func Negotiate(prefs ...string) *Catalog {
	_, idx := language.MatchStrings(matcher, prefs...)
	if idx < 0 || idx >= len(catalogs) {
		return english
	}
	return catalogs[idx]
}
