// Package audits manages station inspection audits. Audit numbers are
// assigned server-side; findings are schemaless and validated only by
// the form they were captured against.
package audits

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/scoped"
	"github.com/hsedigital/platform/pkg/validator"
)

// Service exposes audit CRUD over the scoping store.
type Service struct {
	store *scoped.Store[*Audit]
	log   *slog.Logger
	now   func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("audits: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the audits service. Panics on nil store.
func NewService(store *scoped.Store[*Audit], opts ...Option) *Service {
	if store == nil {
		panic("audits: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields of a new audit.
type CreateParams struct {
	StationID     uuid.UUID
	AuditorID     uuid.UUID
	ScheduledDate time.Time
	FormID        uuid.UUID
}

// Create schedules an audit for the caller's organization. The audit
// number is assigned here, never by the client.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Audit, error) {
	if err := validator.Apply(
		validator.NonNilUUID("station_id", p.StationID),
		validator.NonNilUUID("auditor_id", p.AuditorID),
		validator.NonNilUUID("form_id", p.FormID),
		validator.RequiredComparable("scheduled_date", p.ScheduledDate),
	); err != nil {
		return nil, err
	}

	now := s.now()
	a := &Audit{
		ID:            uuid.New(),
		StationID:     p.StationID,
		AuditorID:     p.AuditorID,
		AuditNumber:   auditNumber(now),
		ScheduledDate: p.ScheduledDate,
		Status:        StatusScheduled,
		FormID:        p.FormID,
		Findings:      []map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns one of the organization's audits.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Audit, error) {
	return s.store.GetByID(ctx, id)
}

// ListParams narrows and pages an audit listing.
type ListParams struct {
	StationID uuid.UUID
	AuditorID uuid.UUID
	Status    string
	Cursor    string
	Limit     int
}

// List returns the organization's audits newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*Audit, string, error) {
	f := scoped.Filter{}
	if p.StationID != uuid.Nil {
		f["station_id"] = p.StationID
	}
	if p.AuditorID != uuid.Nil {
		f["auditor_id"] = p.AuditorID
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

// UpdateParams carries a partial audit update; nil fields stay
// untouched.
type UpdateParams struct {
	ScheduledDate *time.Time
	Status        *string
	Findings      []map[string]any
	OverallScore  *float64
}

// Update applies the changes to one of the organization's audits.
// Moving the status to Completed stamps the completion date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*Audit, error) {
	ch := scoped.Changes{}
	if p.ScheduledDate != nil {
		if err := validator.Apply(
			validator.RequiredComparable("scheduled_date", *p.ScheduledDate),
		); err != nil {
			return nil, err
		}
		ch["scheduled_date"] = *p.ScheduledDate
	}
	if p.Status != nil {
		status := strings.TrimSpace(*p.Status)
		if err := validator.Apply(
			validator.InListString("status", status, Statuses),
		); err != nil {
			return nil, err
		}
		ch["status"] = status
		if status == StatusCompleted {
			completed := s.now()
			ch["completed_date"] = &completed
		}
	}
	if p.Findings != nil {
		ch["findings"] = p.Findings
	}
	if p.OverallScore != nil {
		if err := validator.Apply(
			validator.MinNum("overall_score", *p.OverallScore, 0),
			validator.MaxNum("overall_score", *p.OverallScore, 100),
		); err != nil {
			return nil, err
		}
		ch["overall_score"] = *p.OverallScore
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

// Delete removes one of the organization's audits.
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

// auditNumber derives a human-referenceable number like
// AUD-20260823-7F3A. Uniqueness is backed by the index on the column.
func auditNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("AUD-%s-%s", now.UTC().Format("20060102"), suffix)
}
