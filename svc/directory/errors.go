package directory

import "errors"

var (
	// ErrInvalidName is returned when an organization name is blank.
	ErrInvalidName = errors.New("organization name is required")

	// ErrInvalidSubdomain is returned when a subdomain cannot be normalized
	// into a DNS-safe slug.
	ErrInvalidSubdomain = errors.New("invalid subdomain")

	// ErrSubdomainTaken is returned when another organization already owns
	// the subdomain.
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// ErrInvalidPlan is returned when a plan change omits the plan id.
	ErrInvalidPlan = errors.New("plan id is required")
)
