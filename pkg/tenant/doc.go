// Package tenant binds every request to exactly one organization and keeps
// that binding cheap to check and safe to revoke.
//
// The package covers the full lifecycle of the tenant context: resolving which
// organization a request acts under, validating that the organization exists
// and is active, carrying the binding through the request context, and busting
// cached verdicts across instances when an organization changes state.
//
// # Architecture
//
// The package is built around four core concepts:
//
// 1. Context carrier - WithContext, FromContext and ClearContext manage the
// revocable tenant binding inside a context.Context
// 2. Validator - answers "does this tenant exist and is it active" from a
// verdict cache, falling back to the Directory on a miss
// 3. Middleware - resolves the tenant from the principal's membership claim
// (or the override header for platform staff), validates it, installs the
// context and records the switch to the access log
// 4. InvalidationFeed - propagates verdict busts between instances over Redis
// pub/sub so a suspension takes effect everywhere within one TTL at worst
//
// The Directory interface decouples validation from storage; any type that can
// look tenants up by id satisfies it.
//
// # Usage
//
//	import "github.com/hsedigital/platform/pkg/tenant"
//
//	// Directory is implemented by the organization service.
//	validator := tenant.NewValidator(directory,
//		tenant.WithCache(tenant.NewTieredCache(local, shared, time.Minute)),
//		tenant.WithTTL(5*time.Minute),
//	)
//
//	router.Use(tenant.Middleware(validator,
//		tenant.WithAccessLog(auditLogger),
//		tenant.WithSkipPaths([]string{"/health", "/metrics"}),
//	))
//
//	// Access the binding in handlers
//	func handler(w http.ResponseWriter, r *http.Request) {
//		tc, ok := tenant.FromContext(r.Context())
//		if !ok {
//			// Rejected upstream; only reachable on misconfigured routes.
//			return
//		}
//		_ = tc.TenantID
//	}
//
// # Caching
//
// Validation verdicts are cached with a TTL (5 minutes by default) so the
// directory is consulted roughly once per tenant per TTL rather than once per
// request. Three cache implementations ship with the package:
//
//   - RistrettoCache: in-process, bounded, per-instance
//   - RedisCache: shared across instances
//   - TieredCache: Ristretto in front of Redis with read-through backfill
//
// Negative verdicts (tenant does not exist) are cached with the same TTL as
// positive ones. Explicit busts arrive through the InvalidationFeed; a missed
// bust is repaired by TTL expiry.
//
// # Error Handling
//
// The package defines specific errors for the failure scenarios:
//
//   - ErrTenantNotFound: the organization does not exist
//   - ErrTenantSuspended / ErrTenantDisabled: exists but is not active
//   - ErrNoPrincipal: request reached the middleware unauthenticated
//   - ErrNoTenantContext: no organization could be bound to the request
//
// The default error handler maps these onto 401/403/404 JSON responses;
// WithErrorHandler replaces it.
//
// # Security Considerations
//
// - The membership claim in the principal's token always wins; the
// X-Tenant-ID override header is honored only for elevated principals with no
// home organization, so members cannot steer requests across organizations
// - ClearContext revokes the binding after the handler returns, including on
// panic, so retained contexts cannot keep acting under the tenant
// - Denials are counted and written to the access log with the reason
//
// # Performance
//
// The hot path after the first request per tenant is one cache read and one
// context value install. Skip paths bypass resolution entirely for public
// routes such as health checks.
package tenant
