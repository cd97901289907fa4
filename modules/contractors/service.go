package contractors

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/modules/api"
	"github.com/hsedigital/platform/pkg/binder"
	"github.com/hsedigital/platform/pkg/scoped"
)

// Service exposes the contractor listing over the scoping store.
type Service struct {
	store *scoped.Store[*Contractor]
	log   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("contractors: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the contractors service. Panics on nil store.
func NewService(store *scoped.Store[*Contractor], opts ...Option) *Service {
	if store == nil {
		panic("contractors: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListParams narrows and pages a contractor listing.
type ListParams struct {
	Status string
	Cursor string
	Limit  int
}

// List returns the organization's contractors newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*Contractor, string, error) {
	f := scoped.Filter{}
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
	Status string `query:"status"`
	Cursor string `query:"cursor"`
	Limit  int    `query:"limit"`
}

// Handle returns the contractors HTTP surface.
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
