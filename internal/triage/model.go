package triage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// AgeGroup is the child's age band; it selects the fast-breathing threshold
// and the young-infant rules.
type AgeGroup string

const (
	AgeYoungInfant AgeGroup = "young_infant" // 0–2 months
	AgeInfant      AgeGroup = "infant"       // 2–12 months
	AgeChild       AgeGroup = "child"        // 1–5 years
)

func (g AgeGroup) Valid() bool {
	switch g {
	case AgeYoungInfant, AgeInfant, AgeChild:
		return true
	}
	return false
}

// MUACColor is the mid-upper arm circumference tape reading.
type MUACColor string

const (
	MUACNotMeasured MUACColor = "not_measured"
	MUACGreen       MUACColor = "green"
	MUACYellow      MUACColor = "yellow"
	MUACRed         MUACColor = "red"
)

func (m MUACColor) Valid() bool {
	switch m {
	case MUACNotMeasured, MUACGreen, MUACYellow, MUACRed:
		return true
	}
	return false
}

// RDTResult is the malaria rapid diagnostic test outcome.
type RDTResult string

const (
	RDTNotDone  RDTResult = "not_done"
	RDTNegative RDTResult = "negative"
	RDTPositive RDTResult = "positive"
)

func (r RDTResult) Valid() bool {
	switch r {
	case RDTNotDone, RDTNegative, RDTPositive:
		return true
	}
	return false
}

// Condition identifies one of the screened conditions. Display labels live
// in the locale catalogs, never here.
type Condition int

const (
	Pneumonia Condition = iota
	Malaria
	Malnutrition
	NeonatalComplications

	conditionCount = 4
)

var conditionIDs = [conditionCount]string{
	"pneumonia",
	"malaria",
	"malnutrition",
	"neonatal_complications",
}

// Conditions lists every condition in canonical order. Ranking ties keep
// this order.
func Conditions() []Condition {
	return []Condition{Pneumonia, Malaria, Malnutrition, NeonatalComplications}
}

func (c Condition) Valid() bool { return c >= 0 && c < conditionCount }

func (c Condition) String() string {
	if !c.Valid() {
		return fmt.Sprintf("condition(%d)", int(c))
	}
	return conditionIDs[c]
}

func (c Condition) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown condition %d", int(c))
	}
	return []byte(conditionIDs[c]), nil
}

func (c *Condition) UnmarshalText(b []byte) error {
	parsed, err := ParseCondition(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseCondition(raw string) (Condition, error) {
	for i, id := range conditionIDs {
		if id == raw {
			return Condition(i), nil
		}
	}
	return 0, &ValidationError{Field: "condition", Value: raw}
}

// RiskTier is the referral urgency of a screening.
type RiskTier string

const (
	RiskHigh   RiskTier = "High"
	RiskMedium RiskTier = "Medium"
	RiskLow    RiskTier = "Low"
)

func (t RiskTier) Valid() bool {
	switch t {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// Trigger names a clinical rule that forces the High tier.
type Trigger string

const (
	TriggerDanger             Trigger = "danger"
	TriggerSevereMalnutrition Trigger = "severe_malnutrition"
	TriggerSevereBreathing    Trigger = "severe_breathing"
	TriggerYoungInfantSevere  Trigger = "young_infant_severe"
)

// AnswerSet is one caregiver screening submission, already validated by the
// intake layer. RespiratoryRate is nil when breathing was not counted.
type AnswerSet struct {
	AgeGroup AgeGroup `json:"age_group"`

	CannotDrink      bool `json:"cannot_drink"`
	VomitsEverything bool `json:"vomits_everything"`
	Convulsions      bool `json:"convulsions"`
	Lethargic        bool `json:"lethargic"`

	Fever                     bool `json:"fever"`
	CoughOrDifficultBreathing bool `json:"cough_or_difficult_breathing"`
	RespiratoryRate           *int `json:"respiratory_rate,omitempty"`
	ChestIndrawing            bool `json:"chest_indrawing"`
	Stridor                   bool `json:"stridor"`

	MUAC   MUACColor `json:"muac_color"`
	Oedema bool      `json:"oedema"`

	// Only meaningful for young infants; ignored for every other age group.
	NotFeedingWell          bool `json:"not_feeding_well"`
	StimulationOnlyMovement bool `json:"stimulation_only_movement"`

	RDT RDTResult `json:"rdt_result"`
}

// DangerSign reports whether any general danger sign is present.
func (a AnswerSet) DangerSign() bool {
	return a.CannotDrink || a.VomitsEverything || a.Convulsions || a.Lethargic
}

// Fingerprint is a stable digest of the answers, used as a cache key.
func (a AnswerSet) Fingerprint() string {
	b, _ := json.Marshal(a)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Scores holds the raw additive weight per condition, indexed by Condition.
type Scores [conditionCount]float64

func (s Scores) Of(c Condition) float64 { return s[c] }

// Distribution is the normalized counterpart of Scores; entries sum to 1.
type Distribution [conditionCount]float64

func (d Distribution) Of(c Condition) float64 { return d[c] }

// Ranked is one condition with its rounded percentage.
type Ranked struct {
	Condition   Condition `json:"condition"`
	Probability int       `json:"probability"`
}

// Result is a complete screening. Ranking holds all four conditions, most
// likely first; Top and Alternatives are its first three entries.
// FastBreathing reports whether the rate met the age threshold.
type Result struct {
	Tier          RiskTier  `json:"risk"`
	Top           Ranked    `json:"top"`
	Alternatives  []Ranked  `json:"alternatives"`
	Ranking       []Ranked  `json:"ranking"`
	Actions       []Action  `json:"actions"`
	Tips          []Tip     `json:"tips"`
	Triggers      []Trigger `json:"triggers"`
	FastBreathing bool      `json:"fast_breathing"`
}

func (r Result) Fired(t Trigger) bool {
	for _, got := range r.Triggers {
		if got == t {
			return true
		}
	}
	return false
}
