// Package metrics provides Prometheus metrics for the changelog generator
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Every Record method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal     *prometheus.CounterVec
	PipelineRunDuration   prometheus.Histogram
	CommitsProcessedTotal prometheus.Counter
	RetriesTotal          *prometheus.CounterVec

	// Classifier metrics
	ClassificationsTotal *prometheus.CounterVec
	AITokensTotal        *prometheus.CounterVec
	AICostTotal          *prometheus.CounterVec

	// Database metrics
	DbOperationsTotal   *prometheus.CounterVec
	DbOperationDuration *prometheus.HistogramVec
}

// NewMetrics creates all metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "changelog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "changelog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.PipelineRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_pipeline_runs_total",
			Help: "Total number of changelog generation runs",
		},
		[]string{"status"},
	)

	m.PipelineRunDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "changelog_pipeline_run_duration_seconds",
			Help:    "Duration of changelog generation runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	m.CommitsProcessedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "changelog_commits_processed_total",
			Help: "Total number of commits classified",
		},
	)

	m.RetriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_upstream_retries_total",
			Help: "Total number of retried upstream calls",
		},
		[]string{"operation"},
	)

	m.ClassificationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_classifications_total",
			Help: "Total number of commit classifications by parse source",
		},
		[]string{"source", "category"},
	)

	m.AITokensTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_ai_tokens_total",
			Help: "Total number of AI tokens consumed",
		},
		[]string{"direction"},
	)

	m.AICostTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_ai_estimated_cost_usd_total",
			Help: "Estimated AI spend in USD, by model",
		},
		[]string{"model"},
	)

	m.DbOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_db_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	m.DbOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "changelog_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request with its status code
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordPipelineRun records one generation run
func (m *Metrics) RecordPipelineRun(status string, commits int, duration time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRunsTotal.WithLabelValues(status).Inc()
	m.PipelineRunDuration.Observe(duration.Seconds())
	m.CommitsProcessedTotal.Add(float64(commits))
}

func (m *Metrics) RecordRetry(operation string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(operation).Inc()
}

// RecordClassification records which parsing tier produced a classification
func (m *Metrics) RecordClassification(source, category string, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(source, category).Inc()
	if inputTokens > 0 {
		m.AITokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.AITokensTotal.WithLabelValues("output").Add(float64(outputTokens))
	}
}

// RecordAICost adds the estimated cost of one completion
func (m *Metrics) RecordAICost(model string, usd float64) {
	if m == nil || usd <= 0 {
		return
	}
	m.AICostTotal.WithLabelValues(model).Add(usd)
}

// RecordDbOperation records a database operation
func (m *Metrics) RecordDbOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DbOperationsTotal.WithLabelValues(operation, status).Inc()
	m.DbOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
