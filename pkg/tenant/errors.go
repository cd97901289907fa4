package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant does not exist in the directory.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantSuspended is returned when a tenant exists but is suspended.
	ErrTenantSuspended = errors.New("tenant is suspended")

	// ErrTenantDisabled is returned when a tenant has been disabled permanently.
	ErrTenantDisabled = errors.New("tenant is disabled")

	// ErrNoPrincipal is returned when the middleware runs without a verified
	// principal in the request context.
	ErrNoPrincipal = errors.New("no verified principal")

	// ErrNoTenantContext is returned when no tenant could be resolved or the
	// binding is required but absent.
	ErrNoTenantContext = errors.New("no tenant context")

	// ErrInvalidStatusTransition is returned when a status change is not in
	// the allowed transition graph.
	ErrInvalidStatusTransition = errors.New("invalid tenant status transition")

	// ErrFeedClosed is returned when the invalidation subscription ends
	// unexpectedly.
	ErrFeedClosed = errors.New("invalidation feed closed")
)
