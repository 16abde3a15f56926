package prometheus

import (
	"strconv"
	"time"
)

var (
	DefaultHTTPDurationBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultExtractionDurationBuckets = []float64{.001, .01, .1, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultLLMDurationBuckets        = []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120}
)

// AppMetrics holds the PatentVault metrics.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Import
	ExtractionTotal    CounterVec
	ExtractionDuration HistogramVec

	// AI
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec

	// Portfolio
	PatentTotalCount GaugeVec
	DueAlerts        GaugeVec
	RemindersTotal   CounterVec

	ErrorsTotal CounterVec
}

// NewAppMetrics registers the application metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request latency", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", []float64{100, 1000, 10000, 100000, 1000000}, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.ExtractionTotal = collector.RegisterCounter("extraction_total", "Patent field extractions by method and outcome", "method", "outcome")
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_seconds", "Patent field extraction latency", DefaultExtractionDurationBuckets, "method")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "Total AI provider calls", "provider", "operation", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "AI provider call latency", DefaultLLMDurationBuckets, "provider", "operation")

	m.PatentTotalCount = collector.RegisterGauge("patents_total", "Patents in the portfolio by status", "status")
	m.DueAlerts = collector.RegisterGauge("due_alerts", "Patents whose annuity falls due inside the alert window")
	m.RemindersTotal = collector.RegisterCounter("reminders_sent_total", "Simulated reminder sends", "outcome")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, respSize int64) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// ObserveExtraction records one extraction attempt.
func (m *AppMetrics) ObserveExtraction(method, outcome string, elapsed time.Duration) {
	m.ExtractionTotal.WithLabelValues(method, outcome).Inc()
	m.ExtractionDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveLLMCall records one provider call.
func (m *AppMetrics) ObserveLLMCall(provider, operation string, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.LLMRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider, operation).Observe(elapsed.Seconds())
}

// SetPortfolio publishes the per-status patent counts and the due alert count.
func (m *AppMetrics) SetPortfolio(byStatus map[string]int, dueAlerts int) {
	for status, n := range byStatus {
		m.PatentTotalCount.WithLabelValues(status).Set(float64(n))
	}
	m.DueAlerts.WithLabelValues().Set(float64(dueAlerts))
}

// ObserveReminder records a simulated reminder send.
func (m *AppMetrics) ObserveReminder(err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.RemindersTotal.WithLabelValues(outcome).Inc()
}

// RecordError counts an error by component and code.
func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
