package handler

import (
	"errors"
	"net/http"

	"github.com/hsedigital/platform/pkg/binder"
)

// ErrNilResponse reports a handler that returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HandlerFunc is a typed endpoint: Wrap binds the incoming request into R
// before the call and renders the returned Response after it. Handlers never
// touch http.ResponseWriter directly; they produce a value and a Response.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself onto the wire: headers, status code, body.
// A render failure is passed to the endpoint's error handler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes one source of request data (JSON body, query string, path
// params) into v. A binder that does not apply to the request reports
// binder.ErrBinderNotApplicable and the chain moves on to the next one.
type Bind func(r *http.Request, v any) error

// ErrorHandler renders binding, handler, and render failures for an endpoint.
type ErrorHandler func(ctx Context, err error)

// WrapOption configures a single wrapped endpoint.
type WrapOption[R any] func(*wrapConfig[R])

type wrapConfig[R any] struct {
	binders []Bind
	errH    ErrorHandler
}

// WithBinders appends request binders, applied in declaration order. Each
// binder fills only the struct tags it owns, so path, query, and body
// binders compose on one request type:
//
//	handler.WithBinders[UpdateRequest](
//		binder.Path(chi.URLParam),
//		binder.JSON(),
//	)
func WithBinders[R any](binders ...Bind) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler replaces the default plain-text error rendering. Services
// pass the shared NewErrorHandler so every failure is logged and rendered as
// the APIError envelope.
func WithErrorHandler[R any](h ErrorHandler) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		if h != nil {
			c.errH = h
		}
	}
}

// Wrap adapts a typed HandlerFunc to http.HandlerFunc:
//
//	r.Post("/", handler.Wrap(
//		handler.HandlerFunc[CreateRequest](create),
//		handler.WithBinders[CreateRequest](binder.JSON()),
//		handler.WithErrorHandler[CreateRequest](errH),
//	))
//
// Binding failures, nil responses, and render failures all go through the
// endpoint's error handler; the handler function itself never sees them.
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption[R]) http.HandlerFunc {
	cfg := &wrapConfig[R]{errH: renderPlainError}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			err := bind(r, &req)
			if err == nil || errors.Is(err, binder.ErrBinderNotApplicable) {
				continue
			}
			cfg.errH(ctx, err)
			return
		}

		resp := h(ctx, req)
		if resp == nil {
			cfg.errH(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errH(ctx, err)
		}
	}
}

// renderPlainError is the fallback when no WithErrorHandler is given:
// an HTTPError keeps its status code, anything else becomes a 500.
func renderPlainError(ctx Context, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		http.Error(ctx.ResponseWriter(), httpErr.Key, httpErr.Code)
		return
	}
	http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
}
