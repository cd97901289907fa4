// Package formdefs manages custom audit form templates. Creating
// templates is a plan feature: the service consults a gate wired to the
// caller's plan before accepting new definitions.
package formdefs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/scoped"
	"github.com/hsedigital/platform/pkg/validator"
)

// ErrFeatureDisabled is returned when the caller's plan does not
// include custom forms.
var ErrFeatureDisabled = errors.New("custom forms are not included in the current plan")

// Gate decides whether the calling tenant may create form definitions.
type Gate func(ctx context.Context) error

// Service exposes form definition management over the scoping store.
type Service struct {
	store *scoped.Store[*FormDefinition]
	gate  Gate
	log   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithCreateGate installs the plan gate for creates. Panics on nil.
func WithCreateGate(gate Gate) Option {
	if gate == nil {
		panic("formdefs: gate cannot be nil")
	}
	return func(s *Service) {
		s.gate = gate
	}
}

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("formdefs: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the form definitions service. Panics on nil store.
// Without WithCreateGate every tenant may create forms.
func NewService(store *scoped.Store[*FormDefinition], opts ...Option) *Service {
	if store == nil {
		panic("formdefs: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields of a new form definition.
type CreateParams struct {
	Name   string
	Schema map[string]any
}

// Create registers a form template for the caller's organization,
// subject to the plan gate. New templates start at version 1, active.
func (s *Service) Create(ctx context.Context, p CreateParams) (*FormDefinition, error) {
	if s.gate != nil {
		if err := s.gate(ctx); err != nil {
			return nil, err
		}
	}

	p.Name = strings.TrimSpace(p.Name)
	if err := validator.Apply(
		validator.RequiredString("name", p.Name),
	); err != nil {
		return nil, err
	}
	if p.Schema == nil {
		p.Schema = map[string]any{}
	}

	now := time.Now()
	f := &FormDefinition{
		ID:        uuid.New(),
		Name:      p.Name,
		Version:   1,
		Schema:    p.Schema,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Get returns one of the organization's form definitions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*FormDefinition, error) {
	return s.store.GetByID(ctx, id)
}

// ListParams pages a form definition listing.
type ListParams struct {
	Cursor string
	Limit  int
}

// List returns the organization's form definitions newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*FormDefinition, string, error) {
	page := scoped.Page{
		Limit:  api.ClampLimit(p.Limit),
		Cursor: p.Cursor,
	}
	return s.store.List(ctx, nil, page)
}
