// Package metrics provides Prometheus metrics for the homeval prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Buckets for predicted median house values, in $100k units (dataset scale).
var priceBuckets = []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5} //nolint:gochecknoglobals // shared histogram layout

// Manager manages all Prometheus metrics for the homeval service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Core Business Metrics - What really matters for a prediction service
	predictionsServed prometheus.Counter
	predictionLatency prometheus.Histogram
	scoringLatency    prometheus.Histogram
	predictedPrice    prometheus.Histogram

	// Validation and Model Quality Metrics
	validationFailures  *prometheus.CounterVec
	modelMismatchErrors prometheus.Counter

	// Model Metrics - Loaded artifact facts
	modelInfo         *prometheus.GaugeVec
	modelFeatureCount prometheus.Gauge

	// Persistence Metrics - Dual sink health
	sinkWrites       *prometheus.CounterVec
	sinkWriteErrors  *prometheus.CounterVec
	sinkWriteLatency *prometheus.HistogramVec
	recordsLost      prometheus.Counter

	// Store Metrics - Structured store performance
	storeInsertLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram
	storeRows          prometheus.Gauge
	storeErrors        prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "homeval",
		subsystem: "serving",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - Focus on what drives business value
	m.predictionsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_served_total",
		Help:      "Total number of predictions successfully served",
	})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "End-to-end prediction handling latency in milliseconds (validate, derive, score, record)",
		Buckets:   m.buckets,
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Model scoring latency in milliseconds (core performance metric)",
		Buckets:   m.buckets,
	})

	m.predictedPrice = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predicted_price",
		Help:      "Distribution of predicted median house values (in $100k units)",
		Buckets:   priceBuckets,
	})

	// Validation and Model Quality Metrics
	m.validationFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validation_failures_total",
			Help:      "Total number of rejected requests by offending field",
		},
		[]string{"field"},
	)

	m.modelMismatchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_mismatch_errors_total",
		Help:      "Total number of feature/model schema mismatches (deployment defect indicator)",
	})

	// Model Metrics - Loaded artifact facts
	m.modelInfo = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_info",
			Help:      "Constant gauge describing the loaded model (always 1)",
		},
		[]string{"backend", "artifact"},
	)

	m.modelFeatureCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_feature_count",
		Help:      "Number of features the loaded model expects",
	})

	// Persistence Metrics - Dual sink health
	m.sinkWrites = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sink_writes_total",
			Help:      "Total number of successful record writes by sink",
		},
		[]string{"sink"},
	)

	m.sinkWriteErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sink_write_errors_total",
			Help:      "Total number of failed record writes by sink",
		},
		[]string{"sink"},
	)

	m.sinkWriteLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sink_write_latency_milliseconds",
			Help:      "Record write latency in milliseconds by sink",
			Buckets:   m.buckets,
		},
		[]string{"sink"},
	)

	m.recordsLost = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_lost_total",
		Help:      "Total number of prediction records persisted to no sink at all",
	})

	// Store Metrics - Structured store performance
	m.storeInsertLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_insert_latency_milliseconds",
		Help:      "Store insert latency in milliseconds",
		Buckets:   m.buckets,
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Store query latency in milliseconds",
		Buckets:   m.buckets,
	})

	m.storeRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_rows",
		Help:      "Prediction rows in the store as of the last count query",
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of store operation errors",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.buckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_in_flight_requests",
		Help:      "Number of HTTP requests currently being handled",
	})

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordPredictionServed increments the served predictions counter.
func RecordPredictionServed() {
	globalManager.predictionsServed.Inc()
}

// RecordPredictionLatency records end-to-end prediction latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordScoringLatency records model scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordPredictedPrice records a served prediction value.
func RecordPredictedPrice(price float64) {
	globalManager.predictedPrice.Observe(price)
}

// RecordValidationFailure increments the validation failure counter for a field.
func RecordValidationFailure(field string) {
	globalManager.validationFailures.WithLabelValues(field).Inc()
}

// RecordModelMismatchError increments the schema mismatch counter.
func RecordModelMismatchError() {
	globalManager.modelMismatchErrors.Inc()
}

// UpdateModelInfo publishes the loaded model identity.
func UpdateModelInfo(backend, artifact string) {
	globalManager.modelInfo.WithLabelValues(backend, artifact).Set(1)
}

// UpdateModelFeatureCount sets the expected feature count of the loaded model.
func UpdateModelFeatureCount(count int) {
	globalManager.modelFeatureCount.Set(float64(count))
}

// RecordSinkWrite increments the successful write counter for a sink.
func RecordSinkWrite(sink string) {
	globalManager.sinkWrites.WithLabelValues(sink).Inc()
}

// RecordSinkWriteError increments the failed write counter for a sink.
func RecordSinkWriteError(sink string) {
	globalManager.sinkWriteErrors.WithLabelValues(sink).Inc()
}

// RecordSinkWriteLatency records write latency for a sink in milliseconds.
func RecordSinkWriteLatency(sink string, latencyMs float64) {
	globalManager.sinkWriteLatency.WithLabelValues(sink).Observe(latencyMs)
}

// RecordRecordLost increments the counter of records persisted nowhere.
func RecordRecordLost() {
	globalManager.recordsLost.Inc()
}

// RecordStoreInsertLatency records store insert latency in milliseconds.
func RecordStoreInsertLatency(latencyMs float64) {
	globalManager.storeInsertLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records store query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// UpdateStoreRows sets the row count observed by the last count query.
func UpdateStoreRows(count int64) {
	globalManager.storeRows.Set(float64(count))
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// IncHTTPInFlight increments the in-flight request gauge.
func IncHTTPInFlight() {
	globalManager.httpInFlight.Inc()
}

// DecHTTPInFlight decrements the in-flight request gauge.
func DecHTTPInFlight() {
	globalManager.httpInFlight.Dec()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
