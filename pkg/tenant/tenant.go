package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant organization.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDisabled  Status = "disabled"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDisabled:
		return true
	}
	return false
}

// CanTransition reports whether the status may change to the target.
// Suspension is reversible; disabling is terminal.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusActive:
		return to == StatusSuspended || to == StatusDisabled
	case StatusSuspended:
		return to == StatusActive || to == StatusDisabled
	}
	return false
}

// Tenant is an organization record from the directory. Organizations are
// soft-disabled, never deleted, so historical data keeps a valid owner.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Status    Status    `json:"status"`
	PlanID    string    `json:"plan_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether requests may bind to this tenant.
func (t *Tenant) Active() bool {
	return t.Status == StatusActive
}

// Directory is the authoritative source of tenant records.
type Directory interface {
	// Lookup returns the tenant or ErrTenantNotFound.
	Lookup(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

// Verdict is a cached validation result. Negative verdicts are cached
// with the same TTL as positive ones, so probing for tenant existence
// cannot bypass the cache.
type Verdict struct {
	Exists    bool      `json:"exists"`
	Active    bool      `json:"active"`
	Status    Status    `json:"status,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
