package triage

import (
	"math"
	"sort"
)

// Normalize is a max-shifted softmax over s. It is a rank-and-spread
// heuristic, not a calibrated probability.
func Normalize(s Scores) Distribution {
	maxScore := s[0]
	for _, v := range s[1:] {
		if v > maxScore {
			maxScore = v
		}
	}

	var d Distribution
	var sum float64
	for i, v := range s {
		d[i] = math.Exp(v - maxScore)
		sum += d[i]
	}

	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for i := range d {
			d[i] = 1.0 / conditionCount
		}
		return d
	}

	for i := range d {
		d[i] /= sum
	}
	return d
}

// Rank orders conditions by descending probability. Ties keep canonical
// condition order.
func Rank(d Distribution) []Ranked {
	order := Conditions()
	sort.SliceStable(order, func(i, j int) bool {
		return d[order[i]] > d[order[j]]
	})

	out := make([]Ranked, len(order))
	for i, c := range order {
		out[i] = Ranked{Condition: c, Probability: percent(d[c])}
	}
	return out
}

func percent(p float64) int {
	return int(math.RoundToEven(p * 100))
}
