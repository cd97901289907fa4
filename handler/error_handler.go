package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hsedigital/platform/pkg/binder"
	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/requestid"
)

// NewErrorHandler builds the error handler shared by every JSON endpoint:
// classify the error, log it under the request id, render the APIError
// envelope with the mapped status. Client errors log at warn, server errors
// at error. Configure once in main.go and hand it to every service.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		status, body := classify(err)

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}

		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		resp := JSONError(body, WithStatus(status))
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.RequestID(requestid.FromContext(r.Context())),
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}

// classify maps an error chain onto the envelope and its status code.
// Precedence: validation failures, then HTTPError, then binding failures.
// Anything unrecognized renders as a generic 500 that leaks no internals.
func classify(err error) (int, *APIError) {
	var verrs ValidationError
	if errors.As(err, &verrs) {
		return http.StatusUnprocessableEntity, &APIError{
			Error:   "Validation failed",
			Code:    "validation_error",
			Details: verrs.details(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, &APIError{
			Error: http.StatusText(httpErr.Code),
			Code:  httpErr.Key,
		}
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, &APIError{Error: err.Error(), Code: "unsupported_media_type"}
	case errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath):
		return http.StatusBadRequest, &APIError{Error: err.Error(), Code: "bad_request"}
	}

	return http.StatusInternalServerError, &APIError{
		Error: "An error occurred processing your request",
		Code:  "internal_error",
	}
}
