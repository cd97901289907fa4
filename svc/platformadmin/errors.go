package platformadmin

import "errors"

var (
	// ErrNotAuthorized is returned when the caller is not platform staff.
	// There is no fallback to the tenant-scoped path.
	ErrNotAuthorized = errors.New("not authorized for platform operations")

	// ErrUnknownEntity is returned when an operation names an entity
	// outside the protected registry.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrReasonRequired is returned when an emergency fetch is attempted
	// without a justification.
	ErrReasonRequired = errors.New("a reason is required for emergency access")

	// ErrNotFound is returned when the requested row does not exist in
	// any organization.
	ErrNotFound = errors.New("entity not found")

	// ErrDirectoryNotConfigured is returned when a tenant lifecycle
	// operation is attempted on a service built without a directory.
	ErrDirectoryNotConfigured = errors.New("tenant directory is not configured")
)
