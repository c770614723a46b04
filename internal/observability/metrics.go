package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for fetching
// and delivering earthquake events.
type Metrics struct {
	FetchRequests    *prometheus.CounterVec // labels: outcome={success,unexpected_status,transport}
	FetchDuration    prometheus.Histogram
	EventsFetched    prometheus.Counter
	SubRangesPlanned prometheus.Counter

	// Periodic polling metrics.
	PollIterations *prometheus.CounterVec // labels: outcome={success,fetch_error,sink_error}
	PollerRunning  prometheus.Gauge

	// Sink delivery metrics.
	EventsDelivered *prometheus.CounterVec // labels: sink
	SinkErrors      *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.EventsFetched,
		m.SubRangesPlanned,
		m.PollIterations,
		m.PollerRunning,
		m.EventsDelivered,
		m.SinkErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Provider fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single provider fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_fetched_total",
			Help:      "Total earthquake events decoded from provider responses.",
		}),
		SubRangesPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_subranges_total",
			Help:      "Total sub-ranges generated by backfill runs.",
		}),
		PollIterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_iterations_total",
			Help:      "Periodic poll iterations by outcome.",
		}, []string{"outcome"}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "poller_running",
			Help:      "1 when the periodic poller is active, 0 when stopped.",
		}),
		EventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Events handed to each sink.",
		}, []string{"sink"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed sink deliveries.",
		}, []string{"sink"}),
	}
}
