// Package platformadmin is the cross-tenant operator surface. It never
// runs behind the tenant middleware and never falls back to the
// tenant-scoped path: operations execute on a separately-credentialed
// pool, re-check the platform role on every call, and refuse to run at
// all if the elevated access cannot be written to the audit log first.
package platformadmin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/accesslog"
	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/metrics"
	"github.com/hsedigital/platform/pkg/principal"
	"github.com/hsedigital/platform/pkg/scoped"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AccessRecorder persists elevated access entries. Writes are
// synchronous: a failed write aborts the operation.
type AccessRecorder interface {
	Record(ctx context.Context, e accesslog.Entry) error
}

// Service exposes privileged cross-tenant operations.
type Service struct {
	store     Store
	recorder  AccessRecorder
	registry  *scoped.Registry
	directory TenantDirectory
	log       *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithRegistry replaces the default protected entity set.
func WithRegistry(r *scoped.Registry) Option {
	if r == nil {
		panic("platformadmin: registry cannot be nil")
	}
	return func(s *Service) { s.registry = r }
}

// WithDirectory enables the tenant lifecycle operations.
func WithDirectory(d TenantDirectory) Option {
	if d == nil {
		panic("platformadmin: directory cannot be nil")
	}
	return func(s *Service) { s.directory = d }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("platformadmin: logger cannot be nil")
	}
	return func(s *Service) { s.log = log }
}

// NewService wires the privileged store with the audit recorder. Both
// are mandatory: unaudited elevated access must be unbuildable.
func NewService(store Store, recorder AccessRecorder, opts ...Option) *Service {
	if store == nil {
		panic("platformadmin: store is required")
	}
	if recorder == nil {
		panic("platformadmin: access recorder is required")
	}
	s := &Service{
		store:    store,
		recorder: recorder,
		registry: scoped.DefaultRegistry(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns total row counts per protected entity across all
// organizations.
func (s *Service) Overview(ctx context.Context) (map[string]int64, error) {
	p, err := s.authorize(ctx, "overview")
	if err != nil {
		return nil, err
	}
	if err := s.recordElevated(ctx, p, "overview", "", nil); err != nil {
		return nil, err
	}
	return s.store.EntityCounts(ctx, s.registry.Names())
}

// ListTenants returns organizations newest first with their per-entity
// row counts.
func (s *Service) ListTenants(ctx context.Context, limit, offset int) ([]TenantUsage, error) {
	p, err := s.authorize(ctx, "list_tenants")
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	if err := s.recordElevated(ctx, p, "list_tenants", "", nil); err != nil {
		return nil, err
	}
	return s.store.TenantsWithUsage(ctx, s.registry.Names(), limit, offset)
}

// FetchEntity returns one row by id regardless of its owner. The reason
// is mandatory and lands in the audit trail verbatim.
func (s *Service) FetchEntity(ctx context.Context, entity string, id uuid.UUID, reason string) (map[string]any, error) {
	p, err := s.authorize(ctx, "emergency_fetch")
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if !s.registry.Protected(entity) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	if err := s.recordElevated(ctx, p, "emergency_fetch", entity, map[string]any{
		"entity_id": id.String(),
		"reason":    reason,
	}); err != nil {
		return nil, err
	}
	return s.store.FetchEntity(ctx, entity, id)
}

// authorize re-checks the platform role. Rejected attempts are audited
// at elevated severity; missing principals mean the surface was mounted
// without the edge middleware, which is a deployment bug.
func (s *Service) authorize(ctx context.Context, op string) (principal.Principal, error) {
	p, ok := principal.FromContext(ctx)
	if !ok || !p.Elevated() {
		e := accesslog.Entry{
			PrincipalID: p.ID,
			Operation:   op,
			Outcome:     accesslog.OutcomeDenied,
			Severity:    accesslog.SeverityElevated,
			Error:       ErrNotAuthorized.Error(),
		}
		if err := s.recorder.Record(ctx, e); err != nil {
			s.log.ErrorContext(ctx, "platform denial could not be recorded",
				logger.Operation(op), logger.Error(err))
		}
		s.log.WarnContext(ctx, "platform operation denied",
			logger.PrincipalID(p.ID), logger.Role(p.Role), logger.Operation(op))
		return principal.Principal{}, ErrNotAuthorized
	}
	return p, nil
}

// recordElevated writes the audit entry for an elevated operation. The
// write happens before any data access and a failure aborts the
// operation.
func (s *Service) recordElevated(ctx context.Context, p principal.Principal, op, entity string, detail map[string]any) error {
	e := accesslog.Entry{
		PrincipalID: p.ID,
		Operation:   op,
		Entity:      entity,
		Outcome:     accesslog.OutcomeElevatedAccess,
		Severity:    accesslog.SeverityElevated,
		Detail:      detail,
	}
	if err := s.recorder.Record(ctx, e); err != nil {
		s.log.ErrorContext(ctx, "elevated access could not be recorded",
			logger.PrincipalID(p.ID), logger.Operation(op), logger.Error(err))
		return fmt.Errorf("record elevated access: %w", err)
	}

	metrics.RecordElevatedAccess(op)
	s.log.InfoContext(ctx, "elevated access",
		logger.PrincipalID(p.ID),
		logger.Operation(op),
		logger.Entity(entity),
		logger.Outcome(string(accesslog.OutcomeElevatedAccess)))
	return nil
}
