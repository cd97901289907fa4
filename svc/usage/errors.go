package usage

import "errors"

var (
	// ErrPlanNotFound is returned when a tenant's plan id is not in the
	// loaded catalog.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrUnknownResource is returned when a plan does not define a limit
	// for the requested resource.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrNoCounter is returned when no counter is registered for a
	// limited resource.
	ErrNoCounter = errors.New("no counter registered")

	// ErrLimitExceeded is returned when creating another resource
	// instance would exceed the plan limit.
	ErrLimitExceeded = errors.New("plan limit exceeded")

	// ErrLoadPlans is returned when the plan catalog cannot be loaded.
	ErrLoadPlans = errors.New("failed to load plans")

	// ErrInvalidPlanConfig is returned when the loaded catalog is
	// malformed.
	ErrInvalidPlanConfig = errors.New("invalid plan configuration")
)
