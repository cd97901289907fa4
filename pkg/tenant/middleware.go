package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/accesslog"
	"github.com/hsedigital/platform/pkg/clientip"
	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/metrics"
	"github.com/hsedigital/platform/pkg/principal"
)

// DefaultOverrideHeader is the header elevated principals use to select
// a tenant when their token carries no membership claim.
const DefaultOverrideHeader = "X-Tenant-ID"

// AccessRecorder receives audit entries for context switches and
// denials. *accesslog.Logger satisfies it.
type AccessRecorder interface {
	Record(ctx context.Context, e accesslog.Entry) error
}

// Middleware resolves the tenant for each request, validates it and
// installs the tenant context for downstream handlers. Requests without
// an authenticated principal are rejected with 401; requests that
// cannot be bound to an existing active tenant are rejected with 403 or
// 404. The installed context is revoked when the handler returns.
func Middleware(validator *Validator, opts ...Option) func(http.Handler) http.Handler {
	if validator == nil {
		panic("tenant: validator cannot be nil")
	}

	cfg := &config{
		errorHandler:   defaultErrorHandler,
		overrideHeader: DefaultOverrideHeader,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()

			p, ok := principal.FromContext(ctx)
			if !ok {
				cfg.deny(ctx, r, "no_principal", ErrNoPrincipal, accesslog.Entry{})
				cfg.errorHandler(w, r, ErrNoPrincipal)
				return
			}

			tenantID, ok := effectiveTenant(p, r, cfg.overrideHeader)
			if !ok {
				cfg.deny(ctx, r, "no_tenant", ErrNoTenantContext, accesslog.Entry{
					PrincipalID: p.ID,
				})
				cfg.errorHandler(w, r, ErrNoTenantContext)
				return
			}

			verdict, err := validator.Validate(ctx, tenantID)
			if err != nil {
				cfg.log.ErrorContext(ctx, "tenant validation failed",
					logger.Error(err),
					logger.TenantID(tenantID),
					logger.Component("tenant"))
				cfg.deny(ctx, r, "validation_error", err, accesslog.Entry{
					PrincipalID: p.ID,
					TenantID:    tenantID,
				})
				cfg.errorHandler(w, r, err)
				return
			}

			if !verdict.Exists {
				cfg.deny(ctx, r, "unknown_tenant", ErrTenantNotFound, accesslog.Entry{
					PrincipalID: p.ID,
					TenantID:    tenantID,
				})
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			if !verdict.Active {
				cause, reason := ErrTenantDisabled, "tenant_disabled"
				if verdict.Status == StatusSuspended {
					cause, reason = ErrTenantSuspended, "tenant_suspended"
				}
				cfg.deny(ctx, r, reason, cause, accesslog.Entry{
					PrincipalID: p.ID,
					TenantID:    tenantID,
				})
				cfg.errorHandler(w, r, cause)
				return
			}

			ctx = WithContext(ctx, Context{
				TenantID:    tenantID,
				PrincipalID: p.ID,
				Role:        p.Role,
			})
			// Revoke on the way out so goroutines still holding the
			// request context cannot keep acting under this tenant.
			defer ClearContext(ctx)

			metrics.RecordContextSwitch()
			cfg.audit(ctx, r, accesslog.Entry{
				PrincipalID: p.ID,
				TenantID:    tenantID,
				Outcome:     accesslog.OutcomeSwitched,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// effectiveTenant resolves which tenant the request acts under. The
// membership claim always wins; the override header is honored only for
// elevated principals with no home tenant, so a regular member cannot
// steer their requests into another organization.
func effectiveTenant(p principal.Principal, r *http.Request, header string) (uuid.UUID, bool) {
	if p.TenantID != nil {
		return *p.TenantID, true
	}
	if !p.Elevated() {
		return uuid.Nil, false
	}

	raw := r.Header.Get(header)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireContext rejects requests that reach a handler without a tenant
// context installed. It guards routes mounted outside the main
// middleware chain; routes behind Middleware never trip it.
func RequireContext(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (c *config) deny(ctx context.Context, r *http.Request, reason string, cause error, e accesslog.Entry) {
	metrics.RecordDenial(reason)
	e.Outcome = accesslog.OutcomeDenied
	if cause != nil {
		e.Error = cause.Error()
	}
	// Denials are the forensically interesting entries; attribute the
	// source address while the request is still in hand.
	if ip := clientip.FromRequest(r); ip != "" {
		if e.Detail == nil {
			e.Detail = make(map[string]any, 1)
		}
		e.Detail["ip"] = ip
	}
	c.audit(ctx, r, e)
}

func (c *config) audit(ctx context.Context, r *http.Request, e accesslog.Entry) {
	if c.recorder == nil {
		return
	}
	e.Route = r.URL.Path
	if e.Operation == "" {
		e.Operation = r.Method
	}
	if err := c.recorder.Record(ctx, e); err != nil {
		c.log.WarnContext(ctx, "access log write failed",
			logger.Error(err),
			logger.Component("tenant"))
	}
}
