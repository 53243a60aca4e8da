package triage

import (
	"github.com/awmpietro/under5-screening/internal/policy"
)

// Scorer runs screenings. It holds no per-call state and is safe for
// concurrent use.
type Scorer struct {
	engine *policy.Engine
}

type Option func(*scorerConfig)

type scorerConfig struct {
	engineOpts []policy.EngineOption
}

// WithNodeLatencyObserver reports how long each tier policy node took.
func WithNodeLatencyObserver(o policy.NodeLatencyObserver) Option {
	return func(c *scorerConfig) {
		c.engineOpts = append(c.engineOpts, policy.WithNodeLatencyObserver(o))
	}
}

// WithMaxSteps caps the tier policy walk.
func WithMaxSteps(n int) Option {
	return func(c *scorerConfig) {
		c.engineOpts = append(c.engineOpts, policy.WithMaxSteps(n))
	}
}

func NewScorer(opts ...Option) *Scorer {
	var cfg scorerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Scorer{engine: policy.NewEngine(policy.ExprEvaluator{}, cfg.engineOpts...)}
}

var defaultScorer = NewScorer()

// Screen screens a with a scorer that has no observers attached.
func Screen(a AnswerSet) (Result, error) {
	return defaultScorer.Screen(a)
}

// Screen returns a *ValidationError for malformed answers before any
// scoring takes place; otherwise it cannot fail.
func (s *Scorer) Screen(a AnswerSet) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}
	r, _ := s.screen(a, false)
	return r, nil
}

// ScreenWithTrace is Screen plus the tier policy walk.
func (s *Scorer) ScreenWithTrace(a AnswerSet) (Result, *policy.ExecutionTrace, error) {
	if err := a.Validate(); err != nil {
		return Result{}, nil, err
	}
	r, trace := s.screen(a, true)
	return r, trace, nil
}

func (s *Scorer) screen(a AnswerSet, withTrace bool) (Result, *policy.ExecutionTrace) {
	f := facts(a)
	ranking := Rank(Normalize(accumulate(f)))
	top := ranking[0]

	tier, fired, trace := s.decideTier(f, top.Probability, withTrace)
	actions, tips := ComposeGuidance(tier, top.Condition, a.RDT, a.MUAC, a.Oedema)

	return Result{
		Tier:          tier,
		Top:           top,
		Alternatives:  append([]Ranked(nil), ranking[1:3]...),
		Ranking:       ranking,
		Actions:       actions,
		Tips:          tips,
		Triggers:      fired,
		FastBreathing: f["fast_breathing"].(bool),
	}, trace
}
