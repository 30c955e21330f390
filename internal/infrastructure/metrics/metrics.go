package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Testimonial-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Lifecycle operation outcomes
	LifecycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "lifecycle_operations_total",
			Help:      "Testimonial lifecycle operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Compensating deletes and best-effort cleanups
	CleanupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "asset_cleanups_total",
			Help:      "Best-effort asset deletions by reason and status",
		},
		[]string{"reason", "status"},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "storage_operations_total",
			Help:      "Total asset storage operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "storage_duration_seconds",
			Help:      "Asset storage operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 60},
		},
		[]string{"backend", "operation"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "testimonial_api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded to the asset store",
		},
		[]string{"prefix"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordLifecycle records the outcome of a create/update/delete/read operation
func RecordLifecycle(operation, outcome string) {
	LifecycleTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCleanup records a compensating or superseded-asset delete
func RecordCleanup(reason, status string) {
	CleanupTotal.WithLabelValues(reason, status).Inc()
}

// RecordStorageOperation records an asset store call
func RecordStorageOperation(backend, operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	StorageDuration.WithLabelValues(backend, operation).Observe(durationSec)
}

// RecordUpload records uploaded bytes
func RecordUpload(prefix string, bytes int64) {
	UploadBytesTotal.WithLabelValues(prefix).Add(float64(bytes))
}
