// Package handler is the typed HTTP layer every JSON endpoint is built on.
//
// An endpoint is a HandlerFunc[R]: the framework binds the request into R,
// the function returns a Response, the framework renders it. Handlers never
// parse requests or touch the ResponseWriter themselves:
//
//	type CreateRequest struct {
//		Name   string `json:"name"`
//		Region string `json:"region"`
//	}
//
//	r.Post("/", handler.Wrap(
//		handler.HandlerFunc[CreateRequest](func(ctx handler.Context, req CreateRequest) handler.Response {
//			st, err := s.Create(ctx, CreateParams(req))
//			if err != nil {
//				return api.ErrorResponse(err)
//			}
//			return handler.JSON(st, handler.WithStatus(http.StatusCreated))
//		}),
//		handler.WithBinders[CreateRequest](binder.JSON()),
//		handler.WithErrorHandler[CreateRequest](errH),
//	))
//
// Binders compose: path, query, and body binders each fill only their own
// struct tags, so one request type can span all three sources.
//
// # Responses
//
// Success bodies serialize directly, no envelope. Lists use Page so clients
// always get a data array and a cursor. Failures, from binding to rendering,
// all pass through the endpoint's ErrorHandler and come out as the one
// APIError shape:
//
//	{"error": "Not Found", "code": "not_found"}
//	{"error": "Validation failed", "code": "validation_error", "details": ["name: field is required"]}
//
// The "code" values are stable machine keys; clients branch on them, so
// renaming one is a breaking API change.
//
// NewErrorHandler is the one error handler services should use: it maps
// ValidationError to 422, HTTPError to its status, binding failures to
// 400/415, everything else to an opaque 500, and logs each with the request
// id before rendering.
package handler
