package triage

import (
	_ "embed"

	"github.com/awmpietro/under5-screening/internal/policy"
)

//go:embed tier_policy.dot
var tierPolicySource string

var tierPolicy = policy.NewCompiler().MustCompile(tierPolicySource)

// TierPolicySource returns the DOT graph that orders the tier decision.
func TierPolicySource() string { return tierPolicySource }

// Triggers evaluates every high-risk trigger and returns those that fired,
// in reporting order. The result is never nil.
func Triggers(a AnswerSet) []Trigger {
	return firedTriggers(facts(a))
}

func firedTriggers(f map[string]any) []Trigger {
	fired := []Trigger{}
	for _, r := range triggerRules {
		if holds(r.when, f) {
			fired = append(fired, r.trigger)
		}
	}
	return fired
}

// DecideTier applies the triggers and then the tier policy. Any fired
// trigger forces High whatever topPct says.
func DecideTier(a AnswerSet, topPct int) (RiskTier, []Trigger) {
	tier, fired, _ := defaultScorer.decideTier(facts(a), topPct, false)
	return tier, fired
}

func (s *Scorer) decideTier(f map[string]any, topPct int, withTrace bool) (RiskTier, []Trigger, *policy.ExecutionTrace) {
	fired := firedTriggers(f)
	vars := map[string]any{
		"triggered": len(fired) > 0,
		"top_pct":   topPct,
	}

	var (
		trace *policy.ExecutionTrace
		err   error
	)
	if withTrace {
		trace, err = s.engine.RunWithTrace(tierPolicy, vars)
	} else {
		err = s.engine.Run(tierPolicy, vars)
	}

	tier, _ := vars["risk"].(string)
	if err != nil || !RiskTier(tier).Valid() {
		// A walk that cannot name a tier is treated as the most severe one.
		return RiskHigh, fired, trace
	}
	return RiskTier(tier), fired, trace
}
