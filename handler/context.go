package handler

import (
	"context"
	"net/http"
)

// Context is what typed handlers receive: the request's context.Context for
// deadlines and request-scoped values, plus the raw request and response
// writer for the occasional handler that reads headers or streams a body.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext builds the Context for one dispatch. Wrap calls it per request;
// tests use it to drive error handlers directly.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return httpContext{Context: r.Context(), w: w, r: r}
}

type httpContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c httpContext) Request() *http.Request              { return c.r }
func (c httpContext) ResponseWriter() http.ResponseWriter { return c.w }
