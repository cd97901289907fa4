package tenant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// ErrorHandler renders middleware failures to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	recorder       AccessRecorder
	errorHandler   ErrorHandler
	skipPaths      []string
	overrideHeader string
	log            *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithAccessLog records context switches and denials to the access log.
func WithAccessLog(recorder AccessRecorder) Option {
	if recorder == nil {
		panic("tenant: access recorder cannot be nil")
	}
	return func(c *config) {
		c.recorder = recorder
	}
}

// WithErrorHandler overrides how middleware failures are rendered.
func WithErrorHandler(h ErrorHandler) Option {
	if h == nil {
		panic("tenant: error handler cannot be nil")
	}
	return func(c *config) {
		c.errorHandler = h
	}
}

// WithSkipPaths disables tenant resolution for requests whose path
// starts with one of the given prefixes. Health checks and metrics
// endpoints are the usual candidates.
func WithSkipPaths(paths []string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithOverrideHeader changes the header elevated principals use to
// select a tenant. Defaults to DefaultOverrideHeader.
func WithOverrideHeader(header string) Option {
	if header == "" {
		panic("tenant: override header cannot be empty")
	}
	return func(c *config) {
		c.overrideHeader = header
	}
}

// WithLogger sets the logger for middleware diagnostics.
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("tenant: logger cannot be nil")
	}
	return func(c *config) {
		c.log = log
	}
}

// defaultErrorHandler renders the API error envelope without importing
// the handler package, keeping this package free of framework
// dependencies.
func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := http.StatusText(http.StatusInternalServerError)

	switch {
	case errors.Is(err, ErrNoPrincipal):
		status = http.StatusUnauthorized
		code = "unauthorized"
		message = http.StatusText(http.StatusUnauthorized)
	case errors.Is(err, ErrTenantNotFound):
		status = http.StatusNotFound
		code = "tenant_not_found"
		message = "Tenant not found"
	case errors.Is(err, ErrTenantSuspended):
		status = http.StatusForbidden
		code = "tenant_suspended"
		message = "Tenant is suspended"
	case errors.Is(err, ErrTenantDisabled):
		status = http.StatusForbidden
		code = "tenant_disabled"
		message = "Tenant is disabled"
	case errors.Is(err, ErrNoTenantContext):
		status = http.StatusForbidden
		code = "tenant_required"
		message = "Tenant context is required"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
