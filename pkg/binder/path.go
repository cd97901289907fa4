package binder

import (
	"fmt"
	"net/http"
)

// Path binds URL path parameters into `path` tagged struct fields. The
// extractor decouples the binder from any one router; with chi it is
// chi.URLParam:
//
//	type GetStationRequest struct {
//		ID uuid.UUID `path:"id"`
//	}
//
//	r.Get("/stations/{id}", handler.Wrap(h,
//		handler.WithBinders[GetStationRequest](binder.Path(chi.URLParam)),
//	))
func Path(extract func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extract == nil {
			return fmt.Errorf("%w: nil extractor", ErrFailedToParsePath)
		}
		return apply(v, "path", func(name string) []string {
			if value := extract(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
