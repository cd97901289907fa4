package incidents

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
	StationID uuid.UUID `query:"station_id"`
	Severity  string    `query:"severity"`
	Status    string    `query:"status"`
	Cursor    string    `query:"cursor"`
	Limit     int       `query:"limit"`
}

// CreateRequest is the POST / payload. The reporter is taken from the
// caller's principal, not the body.
type CreateRequest struct {
	StationID    uuid.UUID `json:"station_id"`
	IncidentType string    `json:"incident_type"`
	Severity     string    `json:"severity"`
	Description  string    `json:"description"`
}

// GetRequest addresses one incident.
type GetRequest struct {
	ID uuid.UUID `path:"id"`
}

// UpdateRequest is the PUT /{id} payload; absent fields stay untouched.
type UpdateRequest struct {
	ID           uuid.UUID `path:"id"`
	IncidentType *string   `json:"incident_type"`
	Severity     *string   `json:"severity"`
	Description  *string   `json:"description"`
	Status       *string   `json:"status"`
}

// Handle returns the incidents HTTP surface.
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
			in, err := s.Create(ctx, CreateParams(req))
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(in, handler.WithStatus(http.StatusCreated))
		}),
		handler.WithBinders[CreateRequest](binder.JSON()),
		handler.WithErrorHandler[CreateRequest](errH),
	))

	r.Get("/{id}", handler.Wrap(
		handler.HandlerFunc[GetRequest](func(ctx handler.Context, req GetRequest) handler.Response {
			in, err := s.Get(ctx, req.ID)
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(in)
		}),
		handler.WithBinders[GetRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[GetRequest](errH),
	))

	r.Put("/{id}", handler.Wrap(
		handler.HandlerFunc[UpdateRequest](func(ctx handler.Context, req UpdateRequest) handler.Response {
			in, err := s.Update(ctx, req.ID, UpdateParams{
				IncidentType: req.IncidentType,
				Severity:     req.Severity,
				Description:  req.Description,
				Status:       req.Status,
			})
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(in)
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
