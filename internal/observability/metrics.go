package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plantdx"

// Metrics holds every collector the service exports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	classifierAttempts *prometheus.CounterVec
	classifierLatency  *prometheus.HistogramVec
	breakerState       *prometheus.GaugeVec

	diagnosesCreated *prometheus.CounterVec
	uploadsRejected  *prometheus.CounterVec
	modelServerUp    prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Requests currently being served.",
		}),
		classifierAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_attempts_total",
			Help:      "Classifier calls made by the diagnosis chain, by classifier and result.",
		}, []string{"classifier", "result"}),
		classifierLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_duration_seconds",
			Help:      "Time spent in one classifier call.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"classifier", "result"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_breaker_state",
			Help:      "Circuit breaker state per classifier (0 closed, 1 half-open, 2 open).",
		}, []string{"classifier"}),
		diagnosesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnoses_created_total",
			Help:      "Diagnoses persisted, by the classifier that produced them.",
		}, []string{"classifier", "severity"}),
		uploadsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Uploads rejected before classification, by error code.",
		}, []string{"code"}),
		modelServerUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_server_up",
			Help:      "1 when the last model server health probe succeeded.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.classifierAttempts,
		m.classifierLatency,
		m.breakerState,
		m.diagnosesCreated,
		m.uploadsRejected,
		m.modelServerUp,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
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

func (m *Metrics) ObserveClassifierAttempt(classifier, result string, dur time.Duration) {
	if m == nil {
		return
	}
	m.classifierAttempts.WithLabelValues(classifier, result).Inc()
	m.classifierLatency.WithLabelValues(classifier, result).Observe(dur.Seconds())
}

func (m *Metrics) SetBreakerState(classifier string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(classifier).Set(float64(state))
}

func (m *Metrics) IncDiagnosisCreated(classifier, severity string) {
	if m == nil {
		return
	}
	m.diagnosesCreated.WithLabelValues(classifier, severity).Inc()
}

func (m *Metrics) IncUploadRejected(code string) {
	if m == nil {
		return
	}
	m.uploadsRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) SetModelServerUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.modelServerUp.Set(1)
		return
	}
	m.modelServerUp.Set(0)
}
