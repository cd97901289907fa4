package accesslog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies an access decision.
type Outcome string

const (
	// OutcomeSwitched records a successful tenant context binding.
	OutcomeSwitched Outcome = "switched"

	// OutcomeDenied records a request rejected before any context was bound.
	OutcomeDenied Outcome = "denied"

	// OutcomeBlockedQuery records a read that ran without tenant context
	// and was narrowed to the sentinel owner.
	OutcomeBlockedQuery Outcome = "blocked_query"

	// OutcomeBlockedMutation records a write that ran without tenant
	// context, or a create whose explicit owner was overridden.
	OutcomeBlockedMutation Outcome = "blocked_mutation"

	// OutcomeElevatedAccess records a cross-tenant operation performed
	// through the platform administration surface.
	OutcomeElevatedAccess Outcome = "elevated_access"
)

// Valid reports whether the outcome is one of the known values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSwitched, OutcomeDenied, OutcomeBlockedQuery, OutcomeBlockedMutation, OutcomeElevatedAccess:
		return true
	}
	return false
}

// Severity marks how unusual an entry is for review tooling.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityElevated Severity = "elevated"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	return s == SeverityNormal || s == SeverityElevated
}

// Entry is a single append-only access log record.
//
// PrincipalID and TenantID are zero when the request never identified a
// principal or never bound a tenant, which is itself part of the record.
type Entry struct {
	ID          uuid.UUID      `json:"id"`
	Time        time.Time      `json:"time"`
	PrincipalID uuid.UUID      `json:"principal_id"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	Route       string         `json:"route,omitempty"`
	Operation   string         `json:"op"`
	Entity      string         `json:"entity,omitempty"`
	Outcome     Outcome        `json:"outcome"`
	Severity    Severity       `json:"severity"`
	RequestID   string         `json:"request_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	Detail      map[string]any `json:"detail,omitempty"`
	Checksum    string         `json:"checksum,omitempty"`
}

// Validate checks that the entry carries the required fields.
func (e *Entry) Validate() error {
	if e.Operation == "" {
		return fmt.Errorf("%w: operation is required", ErrInvalidEntry)
	}
	if !e.Outcome.Valid() {
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidEntry, e.Outcome)
	}
	if !e.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidEntry, e.Severity)
	}
	return nil
}
