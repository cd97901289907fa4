package users

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

// Service exposes the member listing over the scoping store.
type Service struct {
	store *scoped.Store[*User]
	log   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger. Panics on nil.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("users: logger cannot be nil")
	}
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the users service. Panics on nil store.
func NewService(store *scoped.Store[*User], opts ...Option) *Service {
	if store == nil {
		panic("users: store cannot be nil")
	}
	s := &Service{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListParams narrows and pages a member listing.
type ListParams struct {
	Role   string
	Region string
	Cursor string
	Limit  int
}

// List returns the organization's members newest first.
func (s *Service) List(ctx context.Context, p ListParams) ([]*User, string, error) {
	f := scoped.Filter{}
	if p.Role != "" {
		f["role"] = p.Role
	}
	if p.Region != "" {
		f["region"] = p.Region
	}
	page := scoped.Page{
		Limit:  api.ClampLimit(p.Limit),
		Cursor: p.Cursor,
	}
	return s.store.List(ctx, f, page)
}

// ListRequest narrows and pages GET /.
type ListRequest struct {
	Role   string `query:"role"`
	Region string `query:"region"`
	Cursor string `query:"cursor"`
	Limit  int    `query:"limit"`
}

// Handle returns the users HTTP surface.
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
