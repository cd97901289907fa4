package formdefs

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/binder"
)

// ListRequest pages GET /.
type ListRequest struct {
	Cursor string `query:"cursor"`
	Limit  int    `query:"limit"`
}

// CreateRequest is the POST / payload.
type CreateRequest struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// GetRequest addresses one form definition.
type GetRequest struct {
	ID uuid.UUID `path:"id"`
}

// Handle returns the form definitions HTTP surface.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	errH := handler.NewErrorHandler(s.log)

	r.Get("/", handler.Wrap(
		handler.HandlerFunc[ListRequest](func(ctx handler.Context, req ListRequest) handler.Response {
			items, next, err := s.List(ctx, ListParams(req))
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(handler.NewPage(items, next))
		}),
		handler.WithBinders[ListRequest](binder.Query()),
		handler.WithErrorHandler[ListRequest](errH),
	))

	r.Post("/", handler.Wrap(
		handler.HandlerFunc[CreateRequest](func(ctx handler.Context, req CreateRequest) handler.Response {
			f, err := s.Create(ctx, CreateParams(req))
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(f, handler.WithStatus(http.StatusCreated))
		}),
		handler.WithBinders[CreateRequest](binder.JSON()),
		handler.WithErrorHandler[CreateRequest](errH),
	))

	r.Get("/{id}", handler.Wrap(
		handler.HandlerFunc[GetRequest](func(ctx handler.Context, req GetRequest) handler.Response {
			f, err := s.Get(ctx, req.ID)
			if err != nil {
				return errorResponse(err)
			}
			return handler.JSON(f)
		}),
		handler.WithBinders[GetRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[GetRequest](errH),
	))

	return r
}

func errorResponse(err error) handler.Response {
	if errors.Is(err, ErrFeatureDisabled) {
		return handler.JSONError(handler.NewHTTPError(http.StatusForbidden, "feature_disabled"))
	}
	return api.ErrorResponse(err)
}
