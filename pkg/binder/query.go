package binder

import "net/http"

// Query binds URL query parameters into `query` tagged struct fields.
//
// Repeated parameters and comma-separated values both land in slice fields,
// pointers mark optional fields, and uuid.UUID or time.Time parse directly:
//
//	type ListAuditsRequest struct {
//		StationID uuid.UUID `query:"station_id"`
//		Status    []string  `query:"status"`
//		Limit     int       `query:"limit"`
//		Cursor    string    `query:"cursor"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		params := r.URL.Query()
		return apply(v, "query", func(name string) []string {
			return params[name]
		}, ErrFailedToParseQuery)
	}
}
