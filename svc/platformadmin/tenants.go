package platformadmin

import (
	"context"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/principal"
	"github.com/hsedigital/platform/pkg/tenant"
	"github.com/hsedigital/platform/svc/directory"
)

// TenantDirectory is the slice of the organization directory the
// operator surface drives. *directory.Service satisfies it.
type TenantDirectory interface {
	Create(ctx context.Context, params directory.CreateParams) (*tenant.Tenant, error)
	ChangePlan(ctx context.Context, id uuid.UUID, planID string) (*tenant.Tenant, error)
	Suspend(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	Disable(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}

// CreateTenant provisions a new organization through the directory.
func (s *Service) CreateTenant(ctx context.Context, params directory.CreateParams) (*tenant.Tenant, error) {
	p, err := s.authorize(ctx, "tenant_create")
	if err != nil {
		return nil, err
	}
	if s.directory == nil {
		return nil, ErrDirectoryNotConfigured
	}
	if err := s.recordElevated(ctx, p, "tenant_create", "organizations", map[string]any{
		"name": params.Name,
	}); err != nil {
		return nil, err
	}
	return s.directory.Create(ctx, params)
}

// ChangeTenantPlan moves an organization to another plan.
func (s *Service) ChangeTenantPlan(ctx context.Context, id uuid.UUID, planID string) (*tenant.Tenant, error) {
	p, err := s.authorize(ctx, "tenant_change_plan")
	if err != nil {
		return nil, err
	}
	if s.directory == nil {
		return nil, ErrDirectoryNotConfigured
	}
	if err := s.recordElevated(ctx, p, "tenant_change_plan", "organizations", map[string]any{
		"tenant_id": id.String(),
		"plan_id":   planID,
	}); err != nil {
		return nil, err
	}
	return s.directory.ChangePlan(ctx, id, planID)
}

// SuspendTenant blocks an organization until reactivated. The directory
// busts cached verdicts, so in-flight tokens lose access within the
// propagation delay rather than the full TTL.
func (s *Service) SuspendTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	p, err := s.authorize(ctx, "tenant_suspend")
	if err != nil {
		return nil, err
	}
	if s.directory == nil {
		return nil, ErrDirectoryNotConfigured
	}
	if err := s.recordTenantOp(ctx, p, "tenant_suspend", id); err != nil {
		return nil, err
	}
	return s.directory.Suspend(ctx, id)
}

// ReactivateTenant restores a suspended organization.
func (s *Service) ReactivateTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	p, err := s.authorize(ctx, "tenant_reactivate")
	if err != nil {
		return nil, err
	}
	if s.directory == nil {
		return nil, ErrDirectoryNotConfigured
	}
	if err := s.recordTenantOp(ctx, p, "tenant_reactivate", id); err != nil {
		return nil, err
	}
	return s.directory.Reactivate(ctx, id)
}

// DisableTenant permanently retires an organization.
func (s *Service) DisableTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	p, err := s.authorize(ctx, "tenant_disable")
	if err != nil {
		return nil, err
	}
	if s.directory == nil {
		return nil, ErrDirectoryNotConfigured
	}
	if err := s.recordTenantOp(ctx, p, "tenant_disable", id); err != nil {
		return nil, err
	}
	return s.directory.Disable(ctx, id)
}

func (s *Service) recordTenantOp(ctx context.Context, p principal.Principal, op string, id uuid.UUID) error {
	return s.recordElevated(ctx, p, op, "organizations", map[string]any{
		"tenant_id": id.String(),
	})
}
