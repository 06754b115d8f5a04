package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the server's Prometheus instruments. One set per Server,
// registered against the configured registry.
type metrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	eventDuration  prometheus.Histogram
	patchesSent    prometheus.Counter
	batchesSent    prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live WebSocket sessions",
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of sessions ever started",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total client events dispatched, by status",
		}, []string{"status"}),

		eventDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Event handler execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patches_sent_total",
			Help:      "Total patches sent to clients",
		}),

		batchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patch_batches_sent_total",
			Help:      "Total patch batches sent to clients",
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "WebSocket errors by type",
		}, []string{"type"}),
	}
}
