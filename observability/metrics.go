// Package observability exposes delivery and persistence counters.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	IdentityRoutes      *prometheus.CounterVec // outcome: delivered|offline
	Dispatches          prometheus.Counter
	DispatchFailures    prometheus.Counter
	DroppedUnregistered prometheus.Counter
	PersistenceFailures prometheus.Counter
	HistoryQueueDrops   prometheus.Counter
	ActiveRegistrations prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IdentityRoutes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "realtime_identity_routes_total",
			Help: "Routing attempts to identity rooms, by outcome.",
		}, []string{"outcome"}),
		Dispatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "realtime_dispatches_total",
			Help: "Payloads written to member connections.",
		}),
		DispatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "realtime_dispatch_failures_total",
			Help: "Transport writes that failed during dispatch.",
		}),
		DroppedUnregistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "realtime_dropped_unregistered_total",
			Help: "Messages dropped because the sender was not registered.",
		}),
		PersistenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "realtime_persistence_failures_total",
			Help: "Best-effort history appends that failed.",
		}),
		HistoryQueueDrops: factory.NewCounter(prometheus.CounterOpts{
			Name: "realtime_history_queue_drops_total",
			Help: "History records dropped because the append queue was full.",
		}),
		ActiveRegistrations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_active_registrations",
			Help: "Currently registered connections.",
		}),
	}
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
