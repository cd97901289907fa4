package binder

import "errors"

// Binding failures, wrapped into every error a binder returns. The handler
// error handler maps them onto 400 and 415 responses.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
)

// ErrBinderNotApplicable tells the binder chain to skip, not fail: the JSON
// binder returns it for bodyless requests so the same chain can serve GET
// and POST routes.
var ErrBinderNotApplicable = errors.New("binder not applicable")
