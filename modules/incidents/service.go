// Package incidents manages reported HSE events. The reporter is
// always the authenticated principal from the tenant carrier, never a
// field of the payload.
package incidents

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/scoped"
	"github.com/hsedigital/platform/pkg/tenant"
	"github.com/hsedigital/platform/pkg/validator"
)

const maxDescriptionLength = 4000

// Service exposes incident CRUD over the scoping store.
type Service struct {
	store *scoped.Store[*Incident]
	log   *slog.Logger
	now   func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("incidents: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the incidents service. Panics on nil store.
func NewService(store *scoped.Store[*Incident], opts ...Option) *Service {
	if store == nil {
		panic("incidents: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields of a new incident report.
type CreateParams struct {
	StationID    uuid.UUID
	IncidentType string
	Severity     string
	Description  string
}

// Create records an incident for the caller's organization, attributed
// to the calling principal. New incidents open at the reported time.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Incident, error) {
	p.IncidentType = strings.TrimSpace(p.IncidentType)
	p.Description = strings.TrimSpace(p.Description)
	if err := validator.Apply(
		validator.NonNilUUID("station_id", p.StationID),
		validator.RequiredString("incident_type", p.IncidentType),
		validator.InListString("severity", p.Severity, Severities),
		validator.RequiredString("description", p.Description),
		validator.MaxLenString("description", p.Description, maxDescriptionLength),
	); err != nil {
		return nil, err
	}

	now := s.now()
	in := &Incident{
		ID:           uuid.New(),
		StationID:    p.StationID,
		IncidentType: p.IncidentType,
		Severity:     p.Severity,
		Description:  p.Description,
		Status:       StatusOpen,
		ReportedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if tc, ok := tenant.FromContext(ctx); ok {
		in.ReporterID = tc.PrincipalID
	}
	if err := s.store.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// Get returns one of the organization's incidents.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return s.store.GetByID(ctx, id)
}

// ListParams narrows and pages an incident listing.
type ListParams struct {
	StationID uuid.UUID
	Severity  string
	Status    string
	Cursor    string
	Limit     int
}

// List returns the organization's incidents newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*Incident, string, error) {
	f := scoped.Filter{}
	if p.StationID != uuid.Nil {
		f["station_id"] = p.StationID
	}
	if p.Severity != "" {
		f["severity"] = p.Severity
	}
	if p.Status != "" {
		f["status"] = p.Status
	}
	page := scoped.Page{
		Limit:  api.ClampLimit(p.Limit),
		Cursor: p.Cursor,
	}
	return s.store.List(ctx, f, page)
}

// UpdateParams carries a partial incident update; nil fields stay
// untouched.
type UpdateParams struct {
	IncidentType *string
	Severity     *string
	Description  *string
	Status       *string
}

// Update applies the changes to one of the organization's incidents.
// Moving the status to Resolved stamps the resolution time.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*Incident, error) {
	ch := scoped.Changes{}
	if p.IncidentType != nil {
		t := strings.TrimSpace(*p.IncidentType)
		if err := validator.Apply(validator.RequiredString("incident_type", t)); err != nil {
			return nil, err
		}
		ch["incident_type"] = t
	}
	if p.Severity != nil {
		if err := validator.Apply(validator.InListString("severity", *p.Severity, Severities)); err != nil {
			return nil, err
		}
		ch["severity"] = *p.Severity
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		if err := validator.Apply(
			validator.RequiredString("description", d),
			validator.MaxLenString("description", d, maxDescriptionLength),
		); err != nil {
			return nil, err
		}
		ch["description"] = d
	}
	if p.Status != nil {
		status := strings.TrimSpace(*p.Status)
		if err := validator.Apply(validator.InListString("status", status, Statuses)); err != nil {
			return nil, err
		}
		ch["status"] = status
		if status == StatusResolved {
			resolved := s.now()
			ch["resolved_at"] = &resolved
		}
	}

	if len(ch) == 0 {
		return s.store.GetByID(ctx, id)
	}
	ch["updated_at"] = s.now()

	n, err := s.store.UpdateByID(ctx, id, ch)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, scoped.ErrNotFound
	}
	return s.store.GetByID(ctx, id)
}

// Delete removes one of the organization's incidents.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return scoped.ErrNotFound
	}
	return nil
}
