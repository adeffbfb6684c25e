package observability

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/productform-backend/internal/platform/logger"
)

const metricsNamespace = "productform"

// Metrics is a prometheus.Collector for API and aggregate write metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	formEntities *prometheus.HistogramVec
	formFailing  *prometheus.CounterVec

	draftsParked *prometheus.CounterVec
}

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

// NewMetrics builds the collector on its own registry together with the Go
// runtime and process collectors.
func NewMetrics(log *logger.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "api_requests_total",
				Help:      "Total API requests by method/route/status.",
			}, []string{"method", "route", "status"},
		),
		apiLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request latency in seconds by method/route/status.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			}, []string{"method", "route", "status"},
		),
		apiInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "api_inflight_requests",
				Help:      "In-flight API requests.",
			},
		),
		aggregateOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "aggregate_operations_total",
				Help:      "Aggregate write operations by operation/status.",
			}, []string{"op", "status"},
		),
		aggregateLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "aggregate_operation_duration_seconds",
				Help:      "Aggregate write latency in seconds by operation/status.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
			}, []string{"op", "status"},
		),
		aggregateConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "aggregate_conflicts_total",
				Help:      "Aggregate writes that failed with a conflict.",
			}, []string{"op"},
		),
		aggregateRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "aggregate_retryable_total",
				Help:      "Aggregate writes that failed with a retryable error.",
			}, []string{"op"},
		),
		formEntities: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "form_entities",
				Help:      "Entities (parent plus rows) validated per submission.",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
			}, []string{"form"},
		),
		formFailing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "form_invalid_entities_total",
				Help:      "Entities that failed field validation.",
			}, []string{"form"},
		),
		draftsParked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "drafts_total",
				Help:      "Failed submissions parked for redisplay by outcome.",
			}, []string{"outcome"},
		),
	}
	m.registry.MustRegister(
		m,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if log != nil {
		log.Info("prometheus metrics initialized", "namespace", metricsNamespace)
	}
	return m
}

// Describe is part of the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.apiRequests.Describe(ch)
	m.apiLatency.Describe(ch)
	m.apiInflight.Describe(ch)
	m.aggregateOps.Describe(ch)
	m.aggregateLatency.Describe(ch)
	m.aggregateConflicts.Describe(ch)
	m.aggregateRetries.Describe(ch)
	m.formEntities.Describe(ch)
	m.formFailing.Describe(ch)
	m.draftsParked.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.apiRequests.Collect(ch)
	m.apiLatency.Collect(ch)
	m.apiInflight.Collect(ch)
	m.aggregateOps.Collect(ch)
	m.aggregateLatency.Collect(ch)
	m.aggregateConflicts.Collect(ch)
	m.aggregateRetries.Collect(ch)
	m.formEntities.Collect(ch)
	m.formFailing.Collect(ch)
	m.draftsParked.Collect(ch)
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and embedding.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateOps.WithLabelValues(op, status).Inc()
	m.aggregateLatency.WithLabelValues(op, status).Observe(dur.Seconds())
}

func (m *Metrics) ObserveFormValidation(form string, entities, failing int) {
	if m == nil {
		return
	}
	m.formEntities.WithLabelValues(form).Observe(float64(entities))
	if failing > 0 {
		m.formFailing.WithLabelValues(form).Add(float64(failing))
	}
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(op).Inc()
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) IncDraft(outcome string) {
	if m == nil {
		return
	}
	m.draftsParked.WithLabelValues(outcome).Inc()
}
