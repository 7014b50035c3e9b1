package presence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registered        prometheus.Counter
	Unregistered      prometheus.Counter
	HeartbeatFailures prometheus.Counter
	HeartbeatLoops    prometheus.Gauge
	ExpiredSwept      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registered: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_presence_registered_total",
			Help: "Total number of presence sessions registered",
		}),
		Unregistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_presence_unregistered_total",
			Help: "Total number of presence sessions explicitly unregistered",
		}),
		HeartbeatFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_presence_heartbeat_failures_total",
			Help: "Total number of failed presence heartbeats",
		}),
		HeartbeatLoops: factory.NewGauge(prometheus.GaugeOpts{
			Name: "onboarding_presence_active_sessions",
			Help: "Number of sessions with a running heartbeat loop in this process",
		}),
		ExpiredSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_presence_expired_swept_total",
			Help: "Total number of expired presence sessions deleted by the janitor",
		}),
	}
}
