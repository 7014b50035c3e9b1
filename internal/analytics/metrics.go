package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	StepDuration  *prometheus.HistogramVec
	WriteFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboarding_step_duration_seconds",
			Help:    "Time a session spent on a wizard step before leaving it",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"step"}),
		WriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_step_analytics_write_failures_total",
			Help: "Total number of step analytics events that could not be stored",
		}),
	}
}
