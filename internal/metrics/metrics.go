// Package metrics exposes Prometheus collectors for draws, partitions, the roster and host sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rosterdraw"

// Metrics holds the application collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	draws           *prometheus.CounterVec
	partitions      prometheus.Counter
	namingFallbacks prometheus.Counter
	rosterSize      prometheus.Gauge
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Committed draw winners by mode.",
		}, []string{"mode"}),
		partitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_total",
			Help:      "Completed group partition runs.",
		}),
		namingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "naming_fallbacks_total",
			Help:      "Partition runs that used fallback group names.",
		}),
		rosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_size",
			Help:      "Participants currently on the roster.",
		}),
	}
	m.registry.MustRegister(
		m.draws,
		m.partitions,
		m.namingFallbacks,
		m.rosterSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSessions publishes the live host session count, read on every scrape
func (m *Metrics) ObserveSessions(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "host_sessions",
		Help:      "Unexpired host login sessions.",
	}, func() float64 { return float64(count()) }))
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// DrawCommitted counts one winner
func (m *Metrics) DrawCommitted(allowRepeat bool) {
	if m == nil {
		return
	}
	mode := "no_repeat"
	if allowRepeat {
		mode = "repeat"
	}
	m.draws.WithLabelValues(mode).Inc()
}

// PartitionCompleted counts one partition run
func (m *Metrics) PartitionCompleted(fellBack bool) {
	if m == nil {
		return
	}
	m.partitions.Inc()
	if fellBack {
		m.namingFallbacks.Inc()
	}
}

// SetRosterSize records the current roster length
func (m *Metrics) SetRosterSize(n int) {
	if m == nil {
		return
	}
	m.rosterSize.Set(float64(n))
}
