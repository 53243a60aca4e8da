package triage

// Accumulate maps answers to raw condition scores by additive rule
// application. Scores may be negative (a negative RDT lowers Malaria).
func Accumulate(a AnswerSet) Scores {
	return accumulate(facts(a))
}

func accumulate(f map[string]any) Scores {
	var s Scores
	for _, r := range weightRules {
		if holds(r.when, f) {
			s[r.condition] += r.weight
		}
	}
	return s
}
