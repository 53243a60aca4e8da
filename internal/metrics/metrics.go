package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/awmpietro/under5-screening/internal/intake"
	"github.com/awmpietro/under5-screening/internal/triage"
)

// SchemaField labels rejections that break the JSON schema rather than a
// single field.
const SchemaField = "schema"

var (
	ScreeningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenings_total",
			Help: "Total number of completed screenings",
		},
		[]string{"risk", "top_condition"},
	)

	ScreeningTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_triggers_total",
			Help: "Total number of high-risk triggers fired",
		},
		[]string{"trigger"},
	)

	ValidationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_validation_errors_total",
			Help: "Total number of rejected screening submissions",
		},
		[]string{"field"},
	)

	ScreeningDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screening_duration_seconds",
			Help:    "Duration of a screening request in seconds",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"transport"},
	)

	TierPolicyNodeSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tier_policy_node_seconds",
			Help:    "Time spent in each tier policy node in seconds",
			Buckets: []float64{.000001, .000005, .00001, .00005, .0001, .0005, .001},
		},
		[]string{"node"},
	)

	AlertFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screening_alert_failures_total",
			Help: "Total number of high-risk alerts that could not be delivered",
		},
	)

	HistoryFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screening_history_failures_total",
			Help: "Total number of screenings that could not be written to history",
		},
	)
)

func RecordScreening(r triage.Result) {
	ScreeningsTotal.WithLabelValues(string(r.Tier), r.Top.Condition.String()).Inc()
	for _, t := range r.Triggers {
		ScreeningTriggersTotal.WithLabelValues(string(t)).Inc()
	}
}

// RecordRejectedInput counts err against ValidationErrorsTotal when it is a
// caller input error. It reports whether it counted.
func RecordRejectedInput(err error) bool {
	var ve *triage.ValidationError
	var se *intake.SchemaError
	switch {
	case errors.As(err, &ve):
		ValidationErrorsTotal.WithLabelValues(ve.Field).Inc()
	case errors.As(err, &se):
		ValidationErrorsTotal.WithLabelValues(SchemaField).Inc()
	default:
		return false
	}
	return true
}

// NodeLatency feeds tier policy node timings into TierPolicyNodeSeconds.
type NodeLatency struct{}

func (NodeLatency) ObserveNodeLatency(nodeID string, d time.Duration) {
	TierPolicyNodeSeconds.WithLabelValues(nodeID).Observe(d.Seconds())
}
