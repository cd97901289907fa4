// Package metrics exposes the Prometheus instruments for tenant isolation.
//
// Every counter and histogram is registered on the default registry at
// package initialization, so importing packages can increment them without
// any setup. The HTTP server exposes them through promhttp.
//
// The instruments fall into three groups:
//
//   - Request flow: ContextSwitches and AccessDenials track what the
//     context-setting middleware decided for each request.
//   - Data access: BlockedOperations counts store calls that ran without a
//     tenant context. These are silent for the caller, so the counter is the
//     primary signal that a code path bypassed the middleware.
//   - Infrastructure: TenantValidations, ValidationDuration, ElevatedAccess
//     and AccessLogDropped cover the validation cache, the platform
//     administration surface and the access log pipeline.
//
// # Usage
//
//	import "github.com/hsedigital/platform/pkg/metrics"
//
//	metrics.RecordDenial("unknown_tenant")
//	metrics.RecordBlockedOperation("stations", "list")
//
//	defer func(start time.Time) {
//		metrics.ObserveValidation(metrics.SourceDirectory, start)
//	}(time.Now())
package metrics
