package triage

import (
	"fmt"

	"github.com/awmpietro/under5-screening/internal/policy/eval"
)

// weightRule adds weight to condition whenever when holds.
type weightRule struct {
	condition Condition
	weight    float64
	when      *eval.Compiled
}

type triggerRule struct {
	trigger Trigger
	when    *eval.Compiled
}

// Rules are applied top to bottom. Young-infant-only signs are gated on
// young_infant inside the guard itself, so whatever the caller supplies for
// an older child never reaches the scores.
var weightRules = []weightRule{
	{NeonatalComplications, 2.0, eval.MustCompile(`young_infant`)},

	{Malaria, 2.5, eval.MustCompile(`fever`)},
	{NeonatalComplications, 2.0, eval.MustCompile(`fever && young_infant`)},

	{Pneumonia, 2.5, eval.MustCompile(`cough`)},

	{Pneumonia, 3.0, eval.MustCompile(`fast_breathing`)},
	{NeonatalComplications, 2.5, eval.MustCompile(`fast_breathing && young_infant`)},

	{Pneumonia, 2.5, eval.MustCompile(`chest_indrawing`)},
	{NeonatalComplications, 2.0, eval.MustCompile(`chest_indrawing && young_infant`)},

	{Pneumonia, 2.0, eval.MustCompile(`stridor`)},

	{Malaria, 6.0, eval.MustCompile(`rdt == "positive"`)},
	{Malaria, -3.0, eval.MustCompile(`rdt == "negative"`)},

	{Malnutrition, 7.0, eval.MustCompile(`oedema`)},

	{Malnutrition, 6.0, eval.MustCompile(`muac == "red"`)},
	{Malnutrition, 3.0, eval.MustCompile(`muac == "yellow"`)},

	{NeonatalComplications, 3.5, eval.MustCompile(`young_infant && not_feeding_well`)},
	{NeonatalComplications, 3.5, eval.MustCompile(`young_infant && stimulation_only`)},
}

// Trigger order is the order they are reported in.
var triggerRules = []triggerRule{
	{TriggerDanger, eval.MustCompile(`danger_sign`)},
	{TriggerSevereMalnutrition, eval.MustCompile(`oedema || muac == "red"`)},
	{TriggerSevereBreathing, eval.MustCompile(
		`(cough && (chest_indrawing || stridor)) || (cough && fast_breathing && young_infant)`)},
	{TriggerYoungInfantSevere, eval.MustCompile(
		`young_infant && (not_feeding_well || stimulation_only || fast_breathing || chest_indrawing || fever)`)},
}

// fastBreathingThreshold is the inclusive breaths-per-minute floor per age.
var fastBreathingThreshold = map[AgeGroup]int{
	AgeYoungInfant: 60,
	AgeInfant:      50,
	AgeChild:       40,
}

// FastBreathing reports whether rate meets the age-specific threshold. A nil
// rate was not measured and never counts as fast.
func FastBreathing(age AgeGroup, rate *int) bool {
	if rate == nil {
		return false
	}
	threshold, ok := fastBreathingThreshold[age]
	return ok && *rate >= threshold
}

// facts flattens a into the variables the rule guards are written against.
func facts(a AnswerSet) map[string]any {
	return map[string]any{
		"young_infant":     a.AgeGroup == AgeYoungInfant,
		"danger_sign":      a.DangerSign(),
		"fever":            a.Fever,
		"cough":            a.CoughOrDifficultBreathing,
		"fast_breathing":   FastBreathing(a.AgeGroup, a.RespiratoryRate),
		"chest_indrawing":  a.ChestIndrawing,
		"stridor":          a.Stridor,
		"oedema":           a.Oedema,
		"muac":             string(a.MUAC),
		"rdt":              string(a.RDT),
		"not_feeding_well": a.NotFeedingWell,
		"stimulation_only": a.StimulationOnlyMovement,
	}
}

func holds(c *eval.Compiled, f map[string]any) bool {
	ok, err := c.Eval(f)
	if err != nil {
		// checkRules proves every guard evaluates over facts.
		panic(fmt.Sprintf("triage rule %q: %v", c.Source, err))
	}
	return ok
}

func init() {
	if err := checkRules(); err != nil {
		panic(err)
	}
}

// checkRules dry-runs every guard so a broken table fails at start-up
// instead of mid-screening.
func checkRules() error {
	f := facts(AnswerSet{AgeGroup: AgeChild, MUAC: MUACNotMeasured, RDT: RDTNotDone})
	guards := make([]*eval.Compiled, 0, len(weightRules)+len(triggerRules))
	for _, r := range weightRules {
		guards = append(guards, r.when)
	}
	for _, r := range triggerRules {
		guards = append(guards, r.when)
	}
	for _, g := range guards {
		if _, err := g.Eval(f); err != nil {
			return fmt.Errorf("triage rule %q: %w", g.Source, err)
		}
	}
	return nil
}
