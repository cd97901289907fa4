// Package stations manages the fuel-station registry of an
// organization. All data access goes through the tenant-scoping store,
// so every operation is confined to the caller's organization.
package stations

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/scoped"
	"github.com/hsedigital/platform/pkg/validator"
)

const maxNameLength = 200

// Service exposes station CRUD over the scoping store.
type Service struct {
	store *scoped.Store[*Station]
	log   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("stations: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the stations service. Panics on nil store.
func NewService(store *scoped.Store[*Station], opts ...Option) *Service {
	if store == nil {
		panic("stations: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields of a new station.
type CreateParams struct {
	Name           string
	Brand          string
	Region         string
	Address        string
	RiskCategory   string
	AuditFrequency string
}

// Create registers a station for the caller's organization. New
// stations start active.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Station, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validator.Apply(
		validator.RequiredString("name", p.Name),
		validator.MaxLenString("name", p.Name, maxNameLength),
	); err != nil {
		return nil, err
	}

	now := time.Now()
	st := &Station{
		ID:             uuid.New(),
		Name:           p.Name,
		Brand:          strings.TrimSpace(p.Brand),
		Region:         strings.TrimSpace(p.Region),
		Address:        strings.TrimSpace(p.Address),
		RiskCategory:   strings.TrimSpace(p.RiskCategory),
		AuditFrequency: strings.TrimSpace(p.AuditFrequency),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Get returns one of the organization's stations.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Station, error) {
	return s.store.GetByID(ctx, id)
}

// ListParams narrows and pages a station listing.
type ListParams struct {
	Region string
	Cursor string
	Limit  int
}

// List returns the organization's stations newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*Station, string, error) {
	f := scoped.Filter{}
	if p.Region != "" {
		f["region"] = p.Region
	}
	page := scoped.Page{
		Limit:  api.ClampLimit(p.Limit),
		Cursor: p.Cursor,
	}
	return s.store.List(ctx, f, page)
}

// UpdateParams carries a partial station update; nil fields stay
// untouched.
type UpdateParams struct {
	Name           *string
	Brand          *string
	Region         *string
	Address        *string
	RiskCategory   *string
	AuditFrequency *string
	Active         *bool
}

// Update applies the changes to one of the organization's stations and
// returns the updated row.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*Station, error) {
	ch := scoped.Changes{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validator.Apply(
			validator.RequiredString("name", name),
			validator.MaxLenString("name", name, maxNameLength),
		); err != nil {
			return nil, err
		}
		ch["name"] = name
	}
	if p.Brand != nil {
		ch["brand"] = strings.TrimSpace(*p.Brand)
	}
	if p.Region != nil {
		ch["region"] = strings.TrimSpace(*p.Region)
	}
	if p.Address != nil {
		ch["address"] = strings.TrimSpace(*p.Address)
	}
	if p.RiskCategory != nil {
		ch["risk_category"] = strings.TrimSpace(*p.RiskCategory)
	}
	if p.AuditFrequency != nil {
		ch["audit_frequency"] = strings.TrimSpace(*p.AuditFrequency)
	}
	if p.Active != nil {
		ch["is_active"] = *p.Active
	}

	if len(ch) == 0 {
		return s.store.GetByID(ctx, id)
	}
	ch["updated_at"] = time.Now()

	n, err := s.store.UpdateByID(ctx, id, ch)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, scoped.ErrNotFound
	}
	return s.store.GetByID(ctx, id)
}

// Delete removes one of the organization's stations.
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
