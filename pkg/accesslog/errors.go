package accesslog

import "errors"

var (
	// ErrStorageUnavailable indicates the storage backend cannot accept entries.
	ErrStorageUnavailable = errors.New("access log storage unavailable")

	// ErrInvalidEntry indicates the entry is missing required fields.
	ErrInvalidEntry = errors.New("invalid access log entry")

	// ErrInvalidCursor indicates a pagination cursor could not be decoded.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)
