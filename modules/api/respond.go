package api

import (
	"errors"
	"net/http"

	"github.com/hsedigital/platform/handler"
	"github.com/hsedigital/platform/pkg/scoped"
	"github.com/hsedigital/platform/pkg/validator"
)

// ErrorResponse maps entity-module errors onto the shared wire envelope.
// Validation failures render as 422 with per-field details; rows the
// caller's tenant does not own are plain 404s, identical to rows that do
// not exist at all.
func ErrorResponse(err error) handler.Response {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		ve := handler.NewValidationError()
		for _, e := range verrs {
			ve.Add(e.Field, e.Message)
		}
		return handler.JSONError(ve)
	case errors.Is(err, scoped.ErrNotFound):
		return handler.JSONError(handler.ErrNotFound)
	case errors.Is(err, scoped.ErrMissingTenantContext):
		return handler.JSONError(handler.NewHTTPError(http.StatusForbidden, "tenant_required"))
	default:
		return handler.JSONError(handler.ErrInternalServerError)
	}
}

// Paging policy shared by every list endpoint.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ClampLimit normalizes a requested page size into [1, MaxPageSize],
// falling back to DefaultPageSize when the request leaves it unset.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
