// Package usage meters per-tenant resource consumption against plan
// limits. The tenant is always read from the active tenant context,
// never from caller input, so a request can only ever see its own
// usage.
package usage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/tenant"
)

// CounterFunc returns the current count of a resource for one tenant.
// Implementations should be cheap: a scoped store count or a cached
// aggregate.
type CounterFunc func(ctx context.Context, tenantID uuid.UUID) (int64, error)

// CounterRegistry maps resources to their counters. Register all
// counters at startup; the registry is read-only afterwards.
type CounterRegistry map[Resource]CounterFunc

func NewCounterRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets the counter for a resource. Panics on nil.
func (r CounterRegistry) Register(res Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("usage: counter for resource %q cannot be nil", res))
	}
	r[res] = fn
}

// PlanResolver returns the plan id for a tenant, typically a directory
// lookup.
type PlanResolver func(ctx context.Context, tenantID uuid.UUID) (string, error)

// Service answers usage questions for the tenant bound to the request.
type Service struct {
	plans       map[string]Plan
	counters    CounterRegistry
	resolvePlan PlanResolver
}

// NewService loads the catalog from src and returns a ready service.
func NewService(ctx context.Context, src Source, counters CounterRegistry, resolvePlan PlanResolver) (*Service, error) {
	if src == nil {
		panic("usage: source is required")
	}
	if resolvePlan == nil {
		panic("usage: plan resolver is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidPlanConfig)
	}
	if counters == nil {
		counters = NewCounterRegistry()
	}

	return &Service{
		plans:       plans,
		counters:    counters,
		resolvePlan: resolvePlan,
	}, nil
}

// CurrentUsage returns the usage snapshot for the request's tenant.
// Counter failures leave the resource at zero rather than failing the
// whole report.
func (s *Service) CurrentUsage(ctx context.Context) (*Report, error) {
	plan, err := s.currentPlan(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, _ := tenant.IDFromContext(ctx)

	resources := make(map[Resource]UsageInfo, len(plan.Limits))
	for res, limit := range plan.Limits {
		info := UsageInfo{Limit: limit}
		if counter, ok := s.counters[res]; ok {
			if current, err := counter(ctx, tenantID); err == nil {
				info.Current = current
			}
		}
		resources[res] = info
	}

	return &Report{
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		Resources:   resources,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// CanCreate reports whether the request's tenant may create one more
// instance of the resource.
func (s *Service) CanCreate(ctx context.Context, res Resource) error {
	plan, err := s.currentPlan(ctx)
	if err != nil {
		return err
	}

	limit, ok := plan.Limits[res]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownResource, res)
	}
	if limit == Unlimited {
		return nil
	}

	counter, ok := s.counters[res]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCounter, res)
	}
	tenantID, _ := tenant.IDFromContext(ctx)
	current, err := counter(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("count %s: %w", res, err)
	}

	if current >= limit {
		return fmt.Errorf("%w: %s (%d of %d)", ErrLimitExceeded, res, current, limit)
	}
	return nil
}

// HasFeature reports whether the request tenant's plan enables the
// feature. Any resolution failure reads as disabled.
func (s *Service) HasFeature(ctx context.Context, f Feature) bool {
	plan, err := s.currentPlan(ctx)
	if err != nil {
		return false
	}
	return slices.Contains(plan.Features, f)
}

func (s *Service) currentPlan(ctx context.Context) (Plan, error) {
	tenantID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return Plan{}, tenant.ErrNoTenantContext
	}

	planID, err := s.resolvePlan(ctx, tenantID)
	if err != nil {
		return Plan{}, fmt.Errorf("resolve plan: %w", err)
	}
	plan, ok := s.plans[planID]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrPlanNotFound, planID)
	}
	return plan, nil
}
