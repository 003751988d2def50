package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "chatrelay"

// Metrics holds the relay's Prometheus collectors on a private registry.
// It implements relay.Observer.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	upstreamTime   prometheus.Histogram
	upstreamErrors prometheus.Counter
	tokens         prometheus.Counter
}

// NewMetrics creates and registers the collectors. When sessions is non-nil
// a gauge reports its current session count at scrape time.
func NewMetrics(sessions SessionCounter) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chat_requests_total",
			Help:      "POST /chat requests by response status code.",
		}, []string{"code"}),
		upstreamTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_duration_seconds",
			Help:      "Latency of successful upstream chat completions.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
		}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_errors_total",
			Help:      "Upstream calls that failed or returned a non-success status.",
		}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tokens_total",
			Help:      "Total tokens reported by the upstream model.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.upstreamTime, m.upstreamErrors, m.tokens,
	)
	if sessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions",
			Help:      "Conversation sessions held in memory.",
		}, func() float64 { return float64(sessions.Sessions()) }))
	}
	return m
}

// ObserveCompletion records a successful upstream completion.
func (m *Metrics) ObserveCompletion(tokens int, latency time.Duration) {
	m.upstreamTime.Observe(latency.Seconds())
	if tokens > 0 {
		m.tokens.Add(float64(tokens))
	}
}

// ObserveUpstreamError records a failed upstream call.
func (m *Metrics) ObserveUpstreamError() {
	m.upstreamErrors.Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// countRequests counts requests by the status code finally written.
func (m *Metrics) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		m.requests.WithLabelValues(strconv.Itoa(ww.Status())).Inc()
	})
}
