package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor injects the request id into structured log records,
// so every line written while serving a request carries the same id as
// the response header and the access log entry.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
