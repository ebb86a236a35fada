package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the prometheus collectors of the chat core. Everything is
// registered on the registry passed in, so tests can use a private one.
type Metrics struct {
	MessagesSent      prometheus.Counter
	EventsDelivered   prometheus.Counter
	EventsDropped     prometheus.Counter
	ActiveConnections prometheus.Gauge
	RequestDuration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatline_messages_sent_total",
			Help: "Messages durably appended to the store.",
		}),
		EventsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatline_events_delivered_total",
			Help: "Live events enqueued on a recipient connection.",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatline_events_dropped_total",
			Help: "Live events dropped after the bounded delivery wait expired.",
		}),
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chatline_active_connections",
			Help: "Users currently holding a live connection.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatline_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
