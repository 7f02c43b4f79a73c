package grove

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeFound     = "found"
	outcomeMissing   = "missing" // optional dependency absent
	outcomeNotFound  = "not_found"
	outcomeAmbiguous = "ambiguous"

	outcomeExisting = "existing"
	outcomeCreated  = "created"
	outcomeFailed   = "failed"

	outcomeResolved = "resolved"
	outcomeTimeout  = "timeout"
	outcomeCanceled = "canceled"
)

// Metrics counts resolution outcomes for one or more scenes. All methods are
// safe on a nil *Metrics.
type Metrics struct {
	resolves *prometheus.CounterVec
	ensures  *prometheus.CounterVec
	waits    *prometheus.CounterVec
	pending  prometheus.Gauge
}

// NewMetrics creates the grove collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grove",
			Name:      "resolve_total",
			Help:      "Dependency resolutions by outcome.",
		}, []string{"outcome"}),
		ensures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grove",
			Name:      "ensure_total",
			Help:      "Ensure calls by outcome.",
		}, []string{"outcome"}),
		waits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grove",
			Name:      "wait_total",
			Help:      "Finished dependency waits by outcome.",
		}, []string{"outcome"}),
		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "grove",
			Name:      "waits_pending",
			Help:      "Dependency waits still polling.",
		}),
	}
}

func (m *Metrics) resolved(outcome string) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ensured(outcome string) {
	if m == nil {
		return
	}
	m.ensures.WithLabelValues(outcome).Inc()
}

func (m *Metrics) waited(outcome string) {
	if m == nil {
		return
	}
	m.waits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
