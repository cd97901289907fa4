package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIError is the error envelope returned by every endpoint. Error carries a
// human-readable message, Code a stable machine key, and Details optional
// per-field messages for validation failures.
type APIError struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   any
}

// Render marshals before touching the ResponseWriter, so an encoding failure
// reaches the error handler while the status line is still unsent.
func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	body, err := json.Marshal(j.body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	_, err = w.Write(body)
	return err
}

// JSONOption adjusts a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus overrides the HTTP status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON renders v as the response body with status 200 unless overridden.
// Entities and pages serialize directly, without an envelope, so the body is
// exactly what API clients deserialize. Passing an error value renders the
// APIError envelope instead, same as JSONError.
//
//	return handler.JSON(station)
//	return handler.JSON(station, handler.WithStatus(http.StatusCreated))
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}

	switch val := v.(type) {
	case *APIError:
		r.status = http.StatusInternalServerError
		r.body = val
	case error:
		r.body = toAPIError(val, &r.status)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders an error as the APIError envelope. The status code comes
// from the error's classification (HTTPError status, 422 for validation
// failures, 500 otherwise) unless WithStatus overrides it.
func JSONError(err any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusInternalServerError,
		body:   &APIError{Error: http.StatusText(http.StatusInternalServerError)},
	}

	switch e := err.(type) {
	case *APIError:
		r.body = e
	case error:
		r.body = toAPIError(e, &r.status)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// toAPIError maps an error onto the wire envelope and sets the matching
// status. Validation failures win over HTTPError when an error chain
// carries both.
func toAPIError(err error, status *int) *APIError {
	*status = http.StatusInternalServerError

	var verrs ValidationError
	if errors.As(err, &verrs) {
		*status = http.StatusUnprocessableEntity
		return &APIError{
			Error:   "Validation failed",
			Code:    "validation_error",
			Details: verrs.details(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		*status = httpErr.Code
		return &APIError{
			Error: http.StatusText(httpErr.Code),
			Code:  httpErr.Key,
		}
	}

	return &APIError{
		Error: err.Error(),
		Code:  "internal_error",
	}
}
