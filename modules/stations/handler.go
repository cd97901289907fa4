package stations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/binder"
)

// ListRequest narrows and pages GET /.
type ListRequest struct {
	Region string `query:"region"`
	Cursor string `query:"cursor"`
	Limit  int    `query:"limit"`
}

// CreateRequest is the POST / payload.
type CreateRequest struct {
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Region         string `json:"region"`
	Address        string `json:"address"`
	RiskCategory   string `json:"risk_category"`
	AuditFrequency string `json:"audit_frequency"`
}

// GetRequest addresses one station.
type GetRequest struct {
	ID uuid.UUID `path:"id"`
}

// UpdateRequest is the PUT /{id} payload; absent fields stay untouched.
type UpdateRequest struct {
	ID             uuid.UUID `path:"id"`
	Name           *string   `json:"name"`
	Brand          *string   `json:"brand"`
	Region         *string   `json:"region"`
	Address        *string   `json:"address"`
	RiskCategory   *string   `json:"risk_category"`
	AuditFrequency *string   `json:"audit_frequency"`
	Active         *bool     `json:"is_active"`
}

// Handle returns the stations HTTP surface.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	errH := handler.NewErrorHandler(s.log)

	r.Get("/", handler.Wrap(
		handler.HandlerFunc[ListRequest](func(ctx handler.Context, req ListRequest) handler.Response {
			items, next, err := s.List(ctx, ListParams(req))
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(handler.NewPage(items, next))
		}),
		handler.WithBinders[ListRequest](binder.Query()),
		handler.WithErrorHandler[ListRequest](errH),
	))

	r.Post("/", handler.Wrap(
		handler.HandlerFunc[CreateRequest](func(ctx handler.Context, req CreateRequest) handler.Response {
			st, err := s.Create(ctx, CreateParams(req))
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(st, handler.WithStatus(http.StatusCreated))
		}),
		handler.WithBinders[CreateRequest](binder.JSON()),
		handler.WithErrorHandler[CreateRequest](errH),
	))

	r.Get("/{id}", handler.Wrap(
		handler.HandlerFunc[GetRequest](func(ctx handler.Context, req GetRequest) handler.Response {
			st, err := s.Get(ctx, req.ID)
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(st)
		}),
		handler.WithBinders[GetRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[GetRequest](errH),
	))

	r.Put("/{id}", handler.Wrap(
		handler.HandlerFunc[UpdateRequest](func(ctx handler.Context, req UpdateRequest) handler.Response {
			st, err := s.Update(ctx, req.ID, UpdateParams{
				Name:           req.Name,
				Brand:          req.Brand,
				Region:         req.Region,
				Address:        req.Address,
				RiskCategory:   req.RiskCategory,
				AuditFrequency: req.AuditFrequency,
				Active:         req.Active,
			})
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(st)
		}),
		handler.WithBinders[UpdateRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[UpdateRequest](errH),
	))

	r.Delete("/{id}", handler.Wrap(
		handler.HandlerFunc[GetRequest](func(ctx handler.Context, req GetRequest) handler.Response {
			if err := s.Delete(ctx, req.ID); err != nil {
				return api.ErrorResponse(err)
			}
			return handler.Empty()
		}),
		handler.WithBinders[GetRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[GetRequest](errH),
	))

	return r
}
