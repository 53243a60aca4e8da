package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/awmpietro/under5-screening/internal/history"
	"github.com/awmpietro/under5-screening/internal/locale"
	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/messaging"
	"github.com/awmpietro/under5-screening/internal/metrics"
	"github.com/awmpietro/under5-screening/internal/notify"
	"github.com/awmpietro/under5-screening/internal/policy"
	"github.com/awmpietro/under5-screening/internal/triage"
	"github.com/awmpietro/under5-screening/internal/triage/cache"
)

var ErrHistoryDisabled = errors.New("history is not configured")

type Scorer interface {
	Screen(a triage.AnswerSet) (triage.Result, error)
	ScreenWithTrace(a triage.AnswerSet) (triage.Result, *policy.ExecutionTrace, error)
}

// ShareDefaults apply when a request does not say otherwise.
type ShareDefaults struct {
	Language       string
	IncludePatient bool
	IncludeVillage bool
}

type Service struct {
	scorer       Scorer
	cache        cache.Cache
	history      history.Store
	notifier     notify.Notifier
	log          logger.Logger
	defaults     ShareDefaults
	alertTimeout time.Duration
	now          func() time.Time
	newID        func() uuid.UUID
}

type Option func(*Service)

func WithHistory(store history.Store) Option {
	return func(s *Service) { s.history = store }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithShareDefaults(d ShareDefaults) Option {
	return func(s *Service) { s.defaults = d }
}

// WithAlertTimeout bounds each alert delivery. Zero means no bound beyond
// the request context.
func WithAlertTimeout(d time.Duration) Option {
	return func(s *Service) { s.alertTimeout = d }
}

func withClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func withIDs(newID func() uuid.UUID) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(scorer Scorer, c cache.Cache, opts ...Option) *Service {
	s := &Service{
		scorer:   scorer,
		cache:    c,
		notifier: notify.Noop{},
		log:      logger.NewNoOpLogger(),
		defaults: ShareDefaults{Language: "en"},
		now:      time.Now,
		newID:    uuid.New,
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Screen scores the answers and renders them for the caller. Only
// validation problems are returned as errors; history and alert failures
// are logged and counted.
func (s *Service) Screen(ctx context.Context, req ScreenRequest) (*ScreenResponse, error) {
	if err := req.Answers.Validate(); err != nil {
		metrics.RecordRejectedInput(err)
		return nil, err
	}

	var (
		r     triage.Result
		trace *policy.ExecutionTrace
		err   error
	)
	if req.Debug {
		r, trace, err = s.scorer.ScreenWithTrace(req.Answers)
	} else {
		r, err = s.cache.GetOrCompute(ctx, req.Answers.Fingerprint(), func() (triage.Result, error) {
			return s.scorer.Screen(req.Answers)
		})
	}
	if err != nil {
		metrics.RecordRejectedInput(err)
		return nil, err
	}

	id := s.newID()
	metrics.RecordScreening(r)

	share := s.shareOptions(req)
	s.record(ctx, id, req, r)
	if r.Tier == triage.RiskHigh {
		s.alert(ctx, id, r, share)
	}

	s.log.Info("screening completed", map[string]any{
		"screening_id":  id.String(),
		"risk":          string(r.Tier),
		"top_condition": r.Top.Condition.String(),
		"probability":   r.Top.Probability,
		"triggers":      len(r.Triggers),
		"debug":         req.Debug,
	})

	cat := locale.Negotiate(req.Language, s.defaults.Language)
	return &ScreenResponse{
		ScreeningID: id.String(),
		Result:      r,
		View:        render(r, share, req.Phone, cat),
		Trace:       trace,
	}, nil
}

func (s *Service) History(ctx context.Context, patientRef string, limit int) ([]history.Record, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.ListByPatient(ctx, patientRef, limit)
}

func (s *Service) shareOptions(req ScreenRequest) messaging.ShareOptions {
	opts := messaging.ShareOptions{
		PatientRef:     req.PatientRef,
		Village:        req.Village,
		IncludePatient: s.defaults.IncludePatient,
		IncludeVillage: s.defaults.IncludeVillage,
	}
	if req.IncludePatient != nil {
		opts.IncludePatient = *req.IncludePatient
	}
	if req.IncludeVillage != nil {
		opts.IncludeVillage = *req.IncludeVillage
	}
	return opts
}

func (s *Service) record(ctx context.Context, id uuid.UUID, req ScreenRequest, r triage.Result) {
	if s.history == nil {
		return
	}
	rec := history.NewRecord(id, req.PatientRef, req.Village, r, s.now())
	if err := s.history.Append(ctx, rec); err != nil {
		metrics.HistoryFailuresTotal.Inc()
		s.log.WithError(err).Warn("failed to append screening history", map[string]any{
			"screening_id": id.String(),
		})
	}
}

// alert always renders in the service default language; supervisors do
// not share the caregiver's preference.
func (s *Service) alert(ctx context.Context, id uuid.UUID, r triage.Result, share messaging.ShareOptions) {
	if s.alertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.alertTimeout)
		defer cancel()
	}

	cat := locale.Negotiate(s.defaults.Language)
	a := notify.Alert{
		ScreeningID:  id.String(),
		Risk:         r.Tier,
		TopCondition: r.Top.Condition,
		Triggers:     r.Triggers,
		Village:      share.Village,
		Text:         messaging.SupervisorText(id.String(), r, share, cat),
	}
	if !share.IncludeVillage {
		a.Village = ""
	}
	if err := s.notifier.Notify(ctx, a); err != nil {
		metrics.AlertFailuresTotal.Inc()
		s.log.WithError(err).Error("failed to deliver high-risk alert", map[string]any{
			"screening_id": id.String(),
		})
	}
}

func render(r triage.Result, share messaging.ShareOptions, phone string, cat *locale.Catalog) View {
	text := messaging.ShareText(r, share, cat)
	alts := make([]LabeledRank, 0, len(r.Alternatives))
	for _, a := range r.Alternatives {
		alts = append(alts, labeled(a, cat))
	}
	return View{
		Language:     cat.Tag.String(),
		Risk:         cat.Tier(r.Tier),
		TopCondition: labeled(r.Top, cat),
		Alternatives: alts,
		Actions:      cat.Actions(r.Actions),
		Tips:         cat.Tips(r.Tips),
		Triggers:     cat.Triggers(r.Triggers),
		Disclaimer:   cat.Phrases.Disclaimer,
		ShareText:    text,
		WhatsAppLink: messaging.WhatsAppLink(text, phone),
	}
}

func labeled(rk triage.Ranked, cat *locale.Catalog) LabeledRank {
	return LabeledRank{Condition: rk.Condition, Label: cat.Condition(rk.Condition), Probability: rk.Probability}
}
