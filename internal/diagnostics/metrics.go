package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for diagnostics reporting.
type Metrics struct {
	Dropped *prometheus.CounterVec
}

// NewMetrics registers diagnostics metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Dropped: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_diagnostics_dropped_total",
			Help: "Total number of diagnostic entries dropped before persistence",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncDropped(reason string) {
	m.Dropped.WithLabelValues(reason).Inc()
}
