// Package directory is the authoritative registry of organizations. It
// owns provisioning, subdomain assignment, and the status lifecycle;
// the validation cache treats it as the source of truth and is busted
// through the configured invalidation hooks on every status change.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/slug"
	"github.com/hsedigital/platform/pkg/tenant"
)

// subdomainMaxLength keeps subdomains DNS-compatible.
const subdomainMaxLength = 63

const defaultPlanID = "starter"

// subdomainPattern accepts normalized slugs only: alphanumeric start,
// hyphens allowed, no dots.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// InvalidationPublisher broadcasts cache busts to other instances.
// Satisfied by *tenant.InvalidationFeed.
type InvalidationPublisher interface {
	Publish(ctx context.Context, id uuid.UUID) error
}

// Service manages the organization registry. It implements
// tenant.Directory, so a Validator can use it as its lookup source.
type Service struct {
	storage     Storage
	invalidator tenant.Invalidator
	publisher   InvalidationPublisher
	log         *slog.Logger
	defaultPlan string
}

// Option configures the Service.
type Option func(*Service)

// WithInvalidator busts the local validation cache on status changes.
func WithInvalidator(inv tenant.Invalidator) Option {
	if inv == nil {
		panic("directory: invalidator cannot be nil")
	}
	return func(s *Service) { s.invalidator = inv }
}

// WithPublisher broadcasts status changes to other instances.
func WithPublisher(pub InvalidationPublisher) Option {
	if pub == nil {
		panic("directory: publisher cannot be nil")
	}
	return func(s *Service) { s.publisher = pub }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("directory: logger cannot be nil")
	}
	return func(s *Service) { s.log = log }
}

// WithDefaultPlan sets the plan assigned when provisioning omits one.
func WithDefaultPlan(planID string) Option {
	if planID == "" {
		panic("directory: default plan cannot be empty")
	}
	return func(s *Service) { s.defaultPlan = planID }
}

func NewService(storage Storage, opts ...Option) *Service {
	if storage == nil {
		panic("directory: storage is required")
	}
	s := &Service{
		storage:     storage,
		log:         slog.Default(),
		defaultPlan: defaultPlanID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams describes a new organization. Subdomain is optional; when
// empty it is derived from the name.
type CreateParams struct {
	Name      string
	Subdomain string
	PlanID    string
}

// Create provisions a new active organization.
func (s *Service) Create(ctx context.Context, params CreateParams) (*tenant.Tenant, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	source := params.Subdomain
	if source == "" {
		source = name
	}
	subdomain := slug.Make(source, slug.MaxLength(subdomainMaxLength))
	if !subdomainPattern.MatchString(subdomain) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubdomain, source)
	}

	plan := params.PlanID
	if plan == "" {
		plan = s.defaultPlan
	}

	now := time.Now().UTC()
	t := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Subdomain: subdomain,
		Status:    tenant.StatusActive,
		PlanID:    plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "organization created",
		logger.TenantID(t.ID),
		slog.String("subdomain", t.Subdomain),
		slog.String("plan_id", t.PlanID))
	return t, nil
}

// Lookup implements tenant.Directory.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.storage.GetByID(ctx, id)
}

// BySubdomain returns the organization owning the subdomain.
func (s *Service) BySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	return s.storage.GetBySubdomain(ctx, strings.ToLower(strings.TrimSpace(subdomain)))
}

// Rename updates the display name. The subdomain is stable after
// provisioning, so no cache busting is required.
func (s *Service) Rename(ctx context.Context, id uuid.UUID, name string) (*tenant.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	t, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	t.UpdatedAt = time.Now().UTC()
	if err := s.storage.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ChangePlan moves the organization to another plan. Validation verdicts
// do not carry the plan, so no cache busting is required; usage limits
// pick up the new plan on their next read.
func (s *Service) ChangePlan(ctx context.Context, id uuid.UUID, planID string) (*tenant.Tenant, error) {
	if planID == "" {
		return nil, ErrInvalidPlan
	}

	t, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.PlanID = planID
	t.UpdatedAt = time.Now().UTC()
	if err := s.storage.Update(ctx, t); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "organization plan changed",
		logger.TenantID(t.ID),
		slog.String("plan_id", t.PlanID))
	return t, nil
}

// Suspend blocks new requests for the organization until reactivated.
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.setStatus(ctx, id, tenant.StatusSuspended)
}

// Reactivate restores a suspended organization.
func (s *Service) Reactivate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.setStatus(ctx, id, tenant.StatusActive)
}

// Disable permanently retires the organization. Historical rows keep
// their owner; there is no way back from disabled.
func (s *Service) Disable(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.setStatus(ctx, id, tenant.StatusDisabled)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, target tenant.Status) (*tenant.Tenant, error) {
	t, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s to %s", tenant.ErrInvalidStatusTransition, t.Status, target)
	}

	from := t.Status
	t.Status = target
	t.UpdatedAt = time.Now().UTC()
	if err := s.storage.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.log.InfoContext(ctx, "organization status changed",
		logger.TenantID(id),
		slog.String("from", string(from)),
		slog.String("to", string(target)))
	return t, nil
}

// invalidate busts cached verdicts locally and across instances. Both
// hooks are best effort; the cache TTL is the backstop.
func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, id); err != nil {
			s.log.WarnContext(ctx, "cache invalidation failed",
				logger.TenantID(id), logger.Error(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, id); err != nil {
			s.log.WarnContext(ctx, "invalidation broadcast failed",
				logger.TenantID(id), logger.Error(err))
		}
	}
}
