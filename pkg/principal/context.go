package principal

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithContext returns a context carrying the principal.
func WithContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal installed by the middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// LoggerExtractor returns a ContextExtractor for the logger
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p, ok := FromContext(ctx); ok {
			return slog.String("principal_id", p.ID.String()), true
		}
		return slog.Attr{}, false
	}
}
