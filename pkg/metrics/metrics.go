package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContextSwitches counts successful tenant context bindings.
	ContextSwitches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hse_tenant_context_switches_total",
			Help: "Total number of successful tenant context bindings",
		},
	)

	// AccessDenials counts requests rejected before a tenant context was bound.
	AccessDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hse_tenant_access_denials_total",
			Help: "Total number of requests denied during tenant resolution",
		},
		[]string{"reason"},
	)

	// BlockedOperations counts store operations that ran without an active
	// tenant context and were silently narrowed to the sentinel owner.
	BlockedOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hse_scoped_blocked_operations_total",
			Help: "Total number of store operations executed without tenant context",
		},
		[]string{"entity", "operation"},
	)

	// TenantValidations tracks verdict lookups by source.
	TenantValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hse_tenant_validations_total",
			Help: "Total number of tenant validations by verdict source",
		},
		[]string{"source"},
	)

	// ValidationDuration tracks how long tenant validation takes.
	ValidationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hse_tenant_validation_duration_seconds",
			Help:    "Duration of tenant validations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ElevatedAccess counts cross-tenant operations performed through the
	// platform administration surface.
	ElevatedAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hse_elevated_access_total",
			Help: "Total number of elevated cross-tenant operations",
		},
		[]string{"operation"},
	)

	// AccessLogDropped counts access log entries lost to storage failures.
	AccessLogDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hse_accesslog_dropped_total",
			Help: "Total number of access log entries dropped on storage failure",
		},
	)
)

// Validation sources for TenantValidations and ValidationDuration.
const (
	SourceCache     = "cache"
	SourceDirectory = "directory"
)

// RecordContextSwitch increments the successful binding counter.
func RecordContextSwitch() {
	ContextSwitches.Inc()
}

// RecordDenial increments the denial counter for the given reason.
func RecordDenial(reason string) {
	AccessDenials.WithLabelValues(reason).Inc()
}

// RecordBlockedOperation increments the blocked operation counter.
func RecordBlockedOperation(entity, operation string) {
	BlockedOperations.WithLabelValues(entity, operation).Inc()
}

// ObserveValidation records a completed tenant validation and its duration.
func ObserveValidation(source string, start time.Time) {
	TenantValidations.WithLabelValues(source).Inc()
	ValidationDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// RecordElevatedAccess increments the elevated operation counter.
func RecordElevatedAccess(operation string) {
	ElevatedAccess.WithLabelValues(operation).Inc()
}

// RecordAccessLogDrop adds dropped entries to the loss counter.
func RecordAccessLogDrop(n int) {
	AccessLogDropped.Add(float64(n))
}
