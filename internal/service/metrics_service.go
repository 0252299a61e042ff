package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcome labels.
const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeInvalidInput = "invalid_input"
	OutcomeStoreFailure = "store_failure"
)

// MetricsSnapshot is a lightweight view of the counters for the health endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SubmissionsAccepted      uint64    `json:"submissions_accepted"`
	SubmissionsRejected      uint64    `json:"submissions_rejected"`
	StoreFailures            uint64    `json:"store_failures"`
	StoreReadFallbacks       uint64    `json:"store_read_fallbacks"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	storeFallbacks  prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	acceptedCount        uint64
	rejectedCount        uint64
	storeFailureCount    uint64
	fallbackCount        uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_submissions_total",
		Help: "Course registration submissions by outcome and violated rule",
	}, []string{"grade_level", "outcome", "rule"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "submission_store_duration_seconds",
		Help:    "Duration of submission store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "result"})

	storeFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "submission_store_read_fallbacks_total",
		Help: "Reads that returned an empty record set because the store was unreadable",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, submissions, storeDuration, storeFallbacks, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		submissions:     submissions,
		storeDuration:   storeDuration,
		storeFallbacks:  storeFallbacks,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordSubmission counts one submission attempt.
func (m *MetricsService) RecordSubmission(grade, outcome, rule string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(grade, outcome, rule).Inc()
	switch outcome {
	case OutcomeAccepted:
		atomic.AddUint64(&m.acceptedCount, 1)
	case OutcomeRejected:
		atomic.AddUint64(&m.rejectedCount, 1)
	case OutcomeStoreFailure:
		atomic.AddUint64(&m.storeFailureCount, 1)
	}
}

// ObserveStoreOperation records the duration of a store call.
func (m *MetricsService) ObserveStoreOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// RecordStoreReadFallback counts a read that degraded to an empty record set.
func (m *MetricsService) RecordStoreReadFallback() {
	if m == nil {
		return
	}
	m.storeFallbacks.Inc()
	atomic.AddUint64(&m.fallbackCount, 1)
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		SubmissionsAccepted:      atomic.LoadUint64(&m.acceptedCount),
		SubmissionsRejected:      atomic.LoadUint64(&m.rejectedCount),
		StoreFailures:            atomic.LoadUint64(&m.storeFailureCount),
		StoreReadFallbacks:       atomic.LoadUint64(&m.fallbackCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
