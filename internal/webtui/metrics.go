package webtui

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	sessionsTotal  prometheus.Counter
	sessionsActive prometheus.Gauge
	sessionsFailed prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		sessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "draglist",
			Name:      "web_sessions_total",
			Help:      "Browser terminal sessions started.",
		}),
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "draglist",
			Name:      "web_sessions_active",
			Help:      "Browser terminal sessions currently attached.",
		}),
		sessionsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "draglist",
			Name:      "web_sessions_failed_total",
			Help:      "Browser terminal sessions whose child process failed to start.",
		}),
	}
}
