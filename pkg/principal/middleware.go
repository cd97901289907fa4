package principal

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls the raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// SkipFunc reports whether a request bypasses authentication entirely.
type SkipFunc func(r *http.Request) bool

// MiddlewareConfig tunes how the middleware obtains and rejects tokens.
// Verifier is the only required field; the rest default sensibly.
type MiddlewareConfig struct {
	// Verifier checks token signatures and claims.
	Verifier *Verifier

	// Extractor locates the token on the request. Defaults to
	// BearerTokenExtractor.
	Extractor TokenExtractorFunc

	// Skip short-circuits authentication for matching requests, leaving
	// the context without a principal. Probe endpoints use this.
	Skip SkipFunc

	// ErrorHandler renders rejections. The default writes the JSON error
	// envelope with status 401.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware authenticates every request with the default Bearer
// extraction and installs the verified principal into the request
// context. Requests without a valid token never reach the next handler.
func Middleware(v *Verifier) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Verifier: v})
}

// MiddlewareWithConfig is Middleware with the knobs exposed.
func MiddlewareWithConfig(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if cfg.Extractor == nil {
		cfg.Extractor = BearerTokenExtractor
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = renderUnauthorized
	}

	authenticate := func(r *http.Request) (Principal, error) {
		token, err := cfg.Extractor(r)
		if err != nil {
			return Principal{}, err
		}
		return cfg.Verifier.Verify(token)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			p, err := authenticate(r)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), p)))
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>". The token
// itself may not contain spaces, which rules out mangled headers like a
// doubled scheme.
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.ContainsRune(token, ' ') {
		return "", ErrInvalidToken
	}
	return token, nil
}

// renderUnauthorized writes the platform's error envelope by hand so
// this package stays free of framework dependencies. The body never
// echoes the verification error; token failures are not the client's
// business beyond "no".
func renderUnauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": http.StatusText(http.StatusUnauthorized),
		"code":  "unauthorized",
	})
}
