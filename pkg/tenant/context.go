package tenant

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/principal"
)

// Context is the per-request tenant binding. Every scoped data access
// reads the tenant id from it at execution time.
type Context struct {
	TenantID    uuid.UUID
	PrincipalID uuid.UUID
	Role        principal.Role
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// holder indirects the binding through an atomic pointer so that revoking
// it reaches every goroutine that kept a reference to the request context
// past the request lifecycle.
type holder struct {
	value atomic.Pointer[Context]
}

// WithContext installs a tenant binding on the context. The binding stays
// visible through derived contexts until ClearContext revokes it.
func WithContext(ctx context.Context, tc Context) context.Context {
	h := &holder{}
	h.value.Store(&tc)
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext returns the active tenant binding, or false when none was
// installed or it has been revoked.
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	h, ok := ctx.Value(contextKey{}).(*holder)
	if !ok {
		return Context{}, false
	}
	v := h.value.Load()
	if v == nil {
		return Context{}, false
	}
	return *v, true
}

// IDFromContext returns just the bound tenant id. Downstream consumers
// such as usage metering and loggers use this accessor.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tc, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return tc.TenantID, true
}

// ClearContext revokes the binding installed by WithContext. It is
// idempotent and a no-op on contexts without a binding. The middleware
// calls it on every exit path; after revocation any retained reference
// to the request context observes the binding as absent.
func ClearContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	if h, ok := ctx.Value(contextKey{}).(*holder); ok {
		h.value.Store(nil)
	}
}

// LoggerExtractor returns a context extractor that adds the bound tenant
// id to every log record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
