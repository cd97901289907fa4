// Package accesslog records every tenant access decision as an append-only
// audit trail: context switches, denials, blocked operations and elevated
// cross-tenant access.
//
// Entries answer "who touched which tenant's data, when, and what was
// decided" for compliance review. The package never makes access decisions
// itself; the tenant middleware, the scoped stores and the platform
// administration service write entries describing decisions they already
// made.
//
// # Architecture
//
//   - Logger – stamps, validates and persists entries
//   - Writer – pluggable storage sink (Postgres, NDJSON, OpenSearch)
//   - AsyncWriter – batches writes off the request path
//   - Reader – cursor-paginated query surface for review endpoints
//
// # Usage
//
//	import "github.com/hsedigital/platform/pkg/accesslog"
//
//	storage := accesslog.NewPGStorage(pool)
//	async, closeFunc := accesslog.NewAsyncWriter(storage, accesslog.AsyncOptions{})
//	defer closeFunc(context.Background())
//
//	log := accesslog.NewLogger(async,
//		accesslog.WithHasher(accesslog.NewSHA256Hasher()),
//		accesslog.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
//			id := requestid.FromContext(ctx)
//			return id, id != ""
//		}),
//	)
//
//	err := log.Record(ctx, accesslog.Entry{
//		PrincipalID: principalID,
//		TenantID:    tenantID,
//		Route:       "/api/stations",
//		Operation:   "list",
//		Entity:      "stations",
//		Outcome:     accesslog.OutcomeSwitched,
//	})
//
//	// Review endpoints page through entries newest first.
//	reader := accesslog.NewReader(storage)
//	entries, next, err := reader.FindWithCursor(ctx, accesslog.Criteria{
//		TenantID: tenantID,
//		Outcome:  accesslog.OutcomeDenied,
//		Limit:    50,
//	}, cursor)
//
// # Outcomes
//
// The outcome vocabulary is closed:
//
//   - switched – a request was bound to its tenant context
//   - denied – a request was rejected before any context was bound
//   - blocked_query – a read ran without context and returned nothing
//   - blocked_mutation – a write ran without context, or a create whose
//     explicit owner was overridden by the context
//   - elevated_access – a platform administrator crossed tenant boundaries
//
// # Delivery Guarantees
//
// The AsyncWriter favors request latency over delivery: entries are queued
// and batched, a full buffer falls back to a synchronous write, and flush
// failures are logged and counted rather than surfaced. Callers that must
// not lose an entry (the platform administration service) write through a
// synchronous Writer instead.
//
// Entries are immutable once written. Rotation and archival of sinks are
// external concerns.
package accesslog
