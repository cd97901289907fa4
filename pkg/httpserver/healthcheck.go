package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hsedigital/platform/pkg/logger"
)

// HealthCheckHandler serves probe traffic. With no checks it is a
// liveness probe answering 200 "ALIVE". With checks it is a readiness
// probe: every check runs under the request context, and the first
// failure turns the response into 500 "NOT_READY". Failures are logged
// with the failing dependency's error; the body stays opaque because
// probe responses can leak to the public side of a load balancer.
func HealthCheckHandler(log *slog.Logger, checks ...func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
