package usage

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/pkg/tenant"
)

// Handle returns the usage HTTP surface, intended to be mounted at
// /api/usage behind the tenant middleware.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/current", handler.Wrap(
		handler.HandlerFunc[struct{}](func(ctx handler.Context, _ struct{}) handler.Response {
			report, err := s.CurrentUsage(ctx)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(report)
		}),
	))

	return r
}

func errorResponse(err error) handler.Response {
	if errors.Is(err, tenant.ErrNoTenantContext) {
		return handler.JSONError(handler.NewHTTPError(http.StatusForbidden, "tenant_required"))
	}
	return handler.JSONError(handler.ErrInternalServerError)
}
