package scoped

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/accesslog"
	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/metrics"
	"github.com/hsedigital/platform/pkg/principal"
	"github.com/hsedigital/platform/pkg/tenant"
)

// AccessRecorder receives blocked-operation audit entries.
// *accesslog.Logger satisfies it.
type AccessRecorder interface {
	Record(ctx context.Context, e accesslog.Entry) error
}

type storeConfig struct {
	registry *Registry
	recorder AccessRecorder
	log      *slog.Logger
}

// StoreOption configures a store.
type StoreOption func(*storeConfig)

// WithAccessLog records blocked operations to the access log.
func WithAccessLog(recorder AccessRecorder) StoreOption {
	if recorder == nil {
		panic("scoped: access recorder cannot be nil")
	}
	return func(c *storeConfig) {
		c.recorder = recorder
	}
}

// WithLogger sets the logger for blocked-operation warnings.
func WithLogger(log *slog.Logger) StoreOption {
	if log == nil {
		panic("scoped: logger cannot be nil")
	}
	return func(c *storeConfig) {
		c.log = log
	}
}

// WithRegistry overrides the protected entity registry.
func WithRegistry(r *Registry) StoreOption {
	if r == nil {
		panic("scoped: registry cannot be nil")
	}
	return func(c *storeConfig) {
		c.registry = r
	}
}

// Store is the tenant-scoping interceptor for one protected entity
// type. Every operation reads the tenant binding from the context at
// execution time and applies the owner condition after all caller
// filters, so no filter or change set can widen access beyond the
// caller's tenant.
type Store[E Entity] struct {
	entity   string
	backend  Backend[E]
	recorder AccessRecorder
	log      *slog.Logger
}

// NewStore creates the interceptor for a registered entity name. It
// panics on unregistered names so a typo cannot open an unscoped path.
func NewStore[E Entity](entity string, backend Backend[E], opts ...StoreOption) *Store[E] {
	if backend == nil {
		panic("scoped: backend cannot be nil")
	}

	cfg := &storeConfig{
		registry: DefaultRegistry(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.registry.Protected(entity) {
		panic("scoped: entity is not in the protected registry: " + entity)
	}

	return &Store[E]{
		entity:   entity,
		backend:  backend,
		recorder: cfg.recorder,
		log:      cfg.log,
	}
}

// Entity returns the protected entity name this store serves.
func (s *Store[E]) Entity() string {
	return s.entity
}

// Create stamps the owner from the active tenant context and inserts
// the entity. Without a context there is nothing safe to bind the row
// to, so the create fails with ErrMissingTenantContext. An explicit
// owner in the payload naming another tenant is overridden by the
// context and the attempt is recorded.
func (s *Store[E]) Create(ctx context.Context, e E) error {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		s.blocked(ctx, "create", accesslog.OutcomeBlockedMutation)
		return ErrMissingTenantContext
	}

	if owner := e.Owner(); owner != uuid.Nil && owner != tc.TenantID {
		s.ownerConflict(ctx, tc, owner)
	}
	e.SetOwner(tc.TenantID)

	return s.backend.Insert(ctx, e)
}

// Get returns one row owned by the caller's tenant. Rows owned by
// other tenants and calls without a context both yield ErrNotFound, so
// the response never reveals whether the row exists elsewhere.
func (s *Store[E]) Get(ctx context.Context, f Filter) (E, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		s.blocked(ctx, "get", accesslog.OutcomeBlockedQuery)
		var zero E
		return zero, ErrNotFound
	}
	return s.backend.Get(ctx, s.scope(f, tc))
}

// GetByID returns the tenant's row with the given id.
func (s *Store[E]) GetByID(ctx context.Context, id uuid.UUID) (E, error) {
	return s.Get(ctx, ByID(id))
}

// List returns the tenant's matching rows newest first. Without a
// context the result is an empty page, nil error.
func (s *Store[E]) List(ctx context.Context, f Filter, p Page) ([]E, string, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		s.blocked(ctx, "list", accesslog.OutcomeBlockedQuery)
		return []E{}, "", nil
	}
	return s.backend.List(ctx, s.scope(f, tc), p)
}

// Count reports how many of the tenant's rows match. Without a context
// the count is zero.
func (s *Store[E]) Count(ctx context.Context, f Filter) (int64, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		s.blocked(ctx, "count", accesslog.OutcomeBlockedQuery)
		return 0, nil
	}
	return s.backend.Count(ctx, s.scope(f, tc))
}

// Update applies the changes to the tenant's matching rows and reports
// how many were written. The owner column is stripped from the change
// set; ownership never moves. Without a context zero rows are
// affected, nil error.
func (s *Store[E]) Update(ctx context.Context, f Filter, ch Changes) (int64, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		s.blocked(ctx, "update", accesslog.OutcomeBlockedMutation)
		return 0, nil
	}

	ch = ch.clone()
	delete(ch, OwnerColumn)

	return s.backend.Update(ctx, s.scope(f, tc), ch)
}

// UpdateByID applies the changes to the tenant's row with the given id.
func (s *Store[E]) UpdateByID(ctx context.Context, id uuid.UUID, ch Changes) (int64, error) {
	return s.Update(ctx, ByID(id), ch)
}

// Delete removes the tenant's matching rows and reports how many.
// Without a context zero rows are affected, nil error.
func (s *Store[E]) Delete(ctx context.Context, f Filter) (int64, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		s.blocked(ctx, "delete", accesslog.OutcomeBlockedMutation)
		return 0, nil
	}
	return s.backend.Delete(ctx, s.scope(f, tc))
}

// DeleteByID removes the tenant's row with the given id.
func (s *Store[E]) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.Delete(ctx, ByID(id))
}

// scope injects the owner condition after every caller-supplied key; a
// caller filter on the owner column is always overwritten.
func (s *Store[E]) scope(f Filter, tc tenant.Context) Filter {
	out := f.clone()
	out[OwnerColumn] = tc.TenantID
	return out
}

// blocked instruments a context-free call. The external result stays
// silent; the counter, the warning and the audit entry are how the
// condition surfaces.
func (s *Store[E]) blocked(ctx context.Context, op string, outcome accesslog.Outcome) {
	metrics.RecordBlockedOperation(s.entity, op)

	s.log.WarnContext(ctx, "data access without tenant context",
		logger.Entity(s.entity),
		logger.Operation(op),
		logger.Component("scoped"))

	if s.recorder == nil {
		return
	}
	e := accesslog.Entry{
		Operation: op,
		Entity:    s.entity,
		Outcome:   outcome,
	}
	if p, ok := principal.FromContext(ctx); ok {
		e.PrincipalID = p.ID
	}
	s.record(ctx, e)
}

// ownerConflict instruments a create whose payload named another
// tenant. The create itself proceeds under the context's owner.
func (s *Store[E]) ownerConflict(ctx context.Context, tc tenant.Context, attempted uuid.UUID) {
	metrics.RecordBlockedOperation(s.entity, "create")

	s.log.WarnContext(ctx, "payload owner overridden by tenant context",
		logger.Entity(s.entity),
		logger.Operation("create"),
		logger.TenantID(tc.TenantID),
		logger.Component("scoped"))

	if s.recorder == nil {
		return
	}
	s.record(ctx, accesslog.Entry{
		PrincipalID: tc.PrincipalID,
		TenantID:    tc.TenantID,
		Operation:   "create",
		Entity:      s.entity,
		Outcome:     accesslog.OutcomeBlockedMutation,
		Detail: map[string]any{
			"attempted_owner": attempted.String(),
		},
	})
}

func (s *Store[E]) record(ctx context.Context, e accesslog.Entry) {
	if err := s.recorder.Record(ctx, e); err != nil {
		s.log.WarnContext(ctx, "access log write failed",
			logger.Error(err),
			logger.Component("scoped"))
	}
}
