package autosave

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for auto-save batches.
type Metrics struct {
	Batches        *prometheus.CounterVec
	BatchDuration  prometheus.Histogram
	EntityFailures *prometheus.CounterVec
}

// NewMetrics registers auto-save metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_autosave_batches_total",
			Help: "Total number of auto-save batches by result",
		}, []string{"result"}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboarding_autosave_batch_duration_seconds",
			Help:    "Duration of auto-save batches",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		EntityFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_autosave_entity_failures_total",
			Help: "Total number of failed entity writes by entity kind",
		}, []string{"entity"}),
	}
}

func (m *Metrics) observeBatch(result string, d time.Duration) {
	m.Batches.WithLabelValues(result).Inc()
	m.BatchDuration.Observe(d.Seconds())
}

func (m *Metrics) incEntityFailure(kind EntityKind) {
	m.EntityFailures.WithLabelValues(string(kind)).Inc()
}
