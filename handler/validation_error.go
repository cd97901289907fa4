package handler

import (
	"net/url"
	"sort"
	"strings"
)

// ValidationError carries per-field validation messages. It is a url.Values
// under the hood, so one field can accumulate several messages and the zero
// field lookup is just a map access.
type ValidationError url.Values

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() ValidationError {
	return make(ValidationError)
}

// Add appends a message for a field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message recorded for a field, or "".
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

// Error summarizes the failure, one "field: first message" pair per field in
// field order, so the same failure always reads the same in logs.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e))
	for field, messages := range e {
		if len(messages) > 0 {
			parts = append(parts, field+": "+messages[0])
		}
	}
	sort.Strings(parts)

	return "validation failed: " + strings.Join(parts, ", ")
}

// details flattens the messages into "field: message" lines, fields sorted,
// for the Details list of the error envelope.
func (e ValidationError) details() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []string
	for _, field := range fields {
		for _, msg := range e[field] {
			out = append(out, field+": "+msg)
		}
	}
	return out
}
