package workpermits

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/binder"
	"github.com/hsedigital/platform/pkg/scoped"
)

// Service exposes the work permit listing over the scoping store.
type Service struct {
	store *scoped.Store[*WorkPermit]
	log   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("workpermits: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the work permits service. Panics on nil store.
func NewService(store *scoped.Store[*WorkPermit], opts ...Option) *Service {
	if store == nil {
		panic("workpermits: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListParams narrows and pages a work permit listing.
type ListParams struct {
	StationID uuid.UUID
	Status    string
	Cursor    string
	Limit     int
}

// List returns the organization's work permits newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*WorkPermit, string, error) {
	f := scoped.Filter{}
	if p.StationID != uuid.Nil {
		f["station_id"] = p.StationID
	}
	if p.Status != "" {
		f["status"] = p.Status
	}
	page := scoped.Page{
		Limit:  api.ClampLimit(p.Limit),
		Cursor: p.Cursor,
	}
	return s.store.List(ctx, f, page)
}

// ListRequest narrows and pages GET /.
type ListRequest struct {
	StationID uuid.UUID `query:"station_id"`
	Status    string    `query:"status"`
	Cursor    string    `query:"cursor"`
	Limit     int       `query:"limit"`
}

// Handle returns the work permits HTTP surface.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(
		handler.HandlerFunc[ListRequest](func(ctx handler.Context, req ListRequest) handler.Response {
			items, next, err := s.List(ctx, ListParams(req))
			if err != nil {
				return api.ErrorResponse(err)
			}
			return handler.JSON(handler.NewPage(items, next))
		}),
		handler.WithBinders[ListRequest](binder.Query()),
		handler.WithErrorHandler[ListRequest](handler.NewErrorHandler(s.log)),
	))

	return r
}
