package ratelimiter

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// maxKeyLength bounds stored keys; longer composites are hashed.
const maxKeyLength = 64

// KeyFunc extracts the rate limit key from a request. An empty key
// means the request cannot be attributed and is not throttled.
type KeyFunc func(r *http.Request) string

// Composite combines key functions, joining every non-empty part.
// Keys over 64 characters are FNV-1a hashed for storage efficiency.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}

		if len(parts) == 0 {
			return ""
		}
		if len(parts) == 1 && len(parts[0]) <= maxKeyLength {
			return parts[0]
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}

		return combined
	}
}

// FirstOf tries key functions in order and returns the first non-empty
// key, for fallback chains like tenant, then principal, then client IP.
func FirstOf(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				return key
			}
		}
		return ""
	}
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middlewareOptions)

type middlewareOptions struct {
	log *slog.Logger
}

// WithLogger sets the logger for store failures.
func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.log = log
	}
}

// Middleware throttles requests through the limiter, keyed by keyFunc.
// Allowed responses carry X-RateLimit-* headers; denied requests get
// 429 with Retry-After. Unattributable requests and store failures
// pass through unthrottled.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	options := middlewareOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				options.log.WarnContext(r.Context(), "rate limiter unavailable, passing request through",
					slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": http.StatusText(http.StatusTooManyRequests),
					"code":  "too_many_requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
