package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// Header is the correlation header exchanged with clients and upstream
// gateways.
const Header = "X-Request-ID"

// maxIDLength bounds accepted client ids. Gateway trace ids and UUIDs
// fit well below this.
const maxIDLength = 64

// Middleware ensures every request carries a correlation id. A valid
// client-supplied X-Request-ID survives unchanged so ids minted at the
// edge stay stable across services; anything absent or malformed is
// replaced with a fresh UUID. The chosen id is echoed on the response
// and stored in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !validID(id) {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// validID accepts unreserved URL characters only. The header is
// client-controlled and ends up in log records and audit entries, so
// anything else is discarded rather than sanitized.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}
