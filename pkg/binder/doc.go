// Package binder decodes HTTP request data into typed request structs for
// the handler framework.
//
// Three binders cover the three places request data lives:
//
//   - JSON() reads the request body, strictly: unknown fields and trailing
//     data are rejected, bodies are capped at MaxBodyBytes.
//   - Query() reads URL query parameters.
//   - Path(extract) reads path parameters through a router-provided
//     extractor, chi.URLParam in this codebase.
//
// Each binder fills only its own struct tags and leaves other fields alone,
// so one request type can draw from all three sources:
//
//	type UpdateIncidentRequest struct {
//		ID       uuid.UUID `path:"id"`
//		Expand   bool      `query:"expand"`
//		Severity *string   `json:"severity"`
//	}
//
// Fields bind by tag name, untagged exported fields by their lowercased
// name, and `-` opts a field out. Pointers mark optional fields: the field
// stays nil unless the request carried a value. Any type implementing
// encoding.TextUnmarshaler binds from its text form, which covers uuid.UUID
// and time.Time.
//
// A binder that does not apply to the request reports
// ErrBinderNotApplicable and the chain continues; every real failure wraps
// one of the package's sentinel errors so callers can map it to a status
// code without string matching.
package binder
