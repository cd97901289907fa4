package scoped

import "errors"

var (
	// ErrMissingTenantContext is returned when a create runs without an
	// active tenant context. Reads and existing-row mutations without a
	// context stay silent instead; only creation has nothing safe to
	// fall back to.
	ErrMissingTenantContext = errors.New("no tenant context for create")

	// ErrNotFound is returned when no row matches within the caller's
	// tenant. Rows owned by other tenants produce the same error, so the
	// response does not leak their existence.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidCursor is returned for page cursors that were not issued
	// by a previous list call.
	ErrInvalidCursor = errors.New("invalid page cursor")
)
