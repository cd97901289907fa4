package platformadmin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/pkg/binder"
	"github.com/hsedigital/platform/pkg/tenant"
	"github.com/hsedigital/platform/svc/directory"
)

// ListTenantsRequest paginates the tenant listing.
type ListTenantsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// FetchEntityRequest identifies one row for emergency access.
type FetchEntityRequest struct {
	Entity string    `path:"entity"`
	ID     uuid.UUID `path:"id"`
	Reason string    `query:"reason"`
}

// CreateTenantRequest provisions a new organization.
type CreateTenantRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	PlanID    string `json:"plan_id"`
}

// ChangeTenantPlanRequest moves an organization to another plan.
type ChangeTenantPlanRequest struct {
	ID     uuid.UUID `path:"id"`
	PlanID string    `json:"plan_id"`
}

// TenantIDRequest identifies one organization for a status change.
type TenantIDRequest struct {
	ID uuid.UUID `path:"id"`
}

// OverviewResponse is the cross-tenant entity count report.
type OverviewResponse struct {
	Entities map[string]int64 `json:"entities"`
}

// ListTenantsResponse carries the tenant listing with usage.
type ListTenantsResponse struct {
	Tenants []TenantUsage `json:"tenants"`
}

// Handle returns the operator HTTP surface, intended for an
// operator-only mount such as /internal/platform. It must never be
// mounted behind the tenant middleware.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/overview", handler.Wrap(
		handler.HandlerFunc[struct{}](func(ctx handler.Context, _ struct{}) handler.Response {
			counts, err := s.Overview(ctx)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(OverviewResponse{Entities: counts})
		}),
	))

	r.Get("/tenants", handler.Wrap(
		handler.HandlerFunc[ListTenantsRequest](func(ctx handler.Context, req ListTenantsRequest) handler.Response {
			tenants, err := s.ListTenants(ctx, req.Limit, req.Offset)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(ListTenantsResponse{Tenants: tenants})
		}),
		handler.WithBinders[ListTenantsRequest](binder.Query()),
		handler.WithErrorHandler[ListTenantsRequest](handler.NewErrorHandler(s.log)),
	))

	r.Get("/entities/{entity}/{id}", handler.Wrap(
		handler.HandlerFunc[FetchEntityRequest](func(ctx handler.Context, req FetchEntityRequest) handler.Response {
			record, err := s.FetchEntity(ctx, req.Entity, req.ID, req.Reason)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(record)
		}),
		handler.WithBinders[FetchEntityRequest](binder.Path(chi.URLParam), binder.Query()),
		handler.WithErrorHandler[FetchEntityRequest](handler.NewErrorHandler(s.log)),
	))

	r.Post("/tenants", handler.Wrap(
		handler.HandlerFunc[CreateTenantRequest](func(ctx handler.Context, req CreateTenantRequest) handler.Response {
			t, err := s.CreateTenant(ctx, directory.CreateParams(req))
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(t, handler.WithStatus(http.StatusCreated))
		}),
		handler.WithBinders[CreateTenantRequest](binder.JSON()),
		handler.WithErrorHandler[CreateTenantRequest](handler.NewErrorHandler(s.log)),
	))

	r.Put("/tenants/{id}/plan", handler.Wrap(
		handler.HandlerFunc[ChangeTenantPlanRequest](func(ctx handler.Context, req ChangeTenantPlanRequest) handler.Response {
			t, err := s.ChangeTenantPlan(ctx, req.ID, req.PlanID)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(t)
		}),
		handler.WithBinders[ChangeTenantPlanRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[ChangeTenantPlanRequest](handler.NewErrorHandler(s.log)),
	))

	r.Post("/tenants/{id}/suspend", handler.Wrap(
		handler.HandlerFunc[TenantIDRequest](func(ctx handler.Context, req TenantIDRequest) handler.Response {
			t, err := s.SuspendTenant(ctx, req.ID)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(t)
		}),
		handler.WithBinders[TenantIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[TenantIDRequest](handler.NewErrorHandler(s.log)),
	))

	r.Post("/tenants/{id}/reactivate", handler.Wrap(
		handler.HandlerFunc[TenantIDRequest](func(ctx handler.Context, req TenantIDRequest) handler.Response {
			t, err := s.ReactivateTenant(ctx, req.ID)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(t)
		}),
		handler.WithBinders[TenantIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[TenantIDRequest](handler.NewErrorHandler(s.log)),
	))

	r.Post("/tenants/{id}/disable", handler.Wrap(
		handler.HandlerFunc[TenantIDRequest](func(ctx handler.Context, req TenantIDRequest) handler.Response {
			t, err := s.DisableTenant(ctx, req.ID)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(t)
		}),
		handler.WithBinders[TenantIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[TenantIDRequest](handler.NewErrorHandler(s.log)),
	))

	return r
}

func errorResponse(err error) handler.Response {
	switch {
	case errors.Is(err, ErrNotAuthorized):
		return handler.JSONError(handler.NewHTTPError(http.StatusForbidden, "not_authorized"))
	case errors.Is(err, ErrReasonRequired):
		return handler.JSONError(handler.NewHTTPError(http.StatusBadRequest, "reason_required"))
	case errors.Is(err, ErrUnknownEntity), errors.Is(err, ErrNotFound), errors.Is(err, tenant.ErrTenantNotFound):
		return handler.JSONError(handler.ErrNotFound)
	case errors.Is(err, directory.ErrInvalidName):
		return handler.JSONError(handler.NewHTTPError(http.StatusBadRequest, "name_required"))
	case errors.Is(err, directory.ErrInvalidSubdomain):
		return handler.JSONError(handler.NewHTTPError(http.StatusBadRequest, "invalid_subdomain"))
	case errors.Is(err, directory.ErrInvalidPlan):
		return handler.JSONError(handler.NewHTTPError(http.StatusBadRequest, "plan_required"))
	case errors.Is(err, directory.ErrSubdomainTaken):
		return handler.JSONError(handler.NewHTTPError(http.StatusConflict, "subdomain_taken"))
	case errors.Is(err, tenant.ErrInvalidStatusTransition):
		return handler.JSONError(handler.NewHTTPError(http.StatusConflict, "invalid_status_transition"))
	case errors.Is(err, ErrDirectoryNotConfigured):
		return handler.JSONError(handler.ErrServiceUnavailable)
	default:
		return handler.JSONError(handler.ErrInternalServerError)
	}
}
