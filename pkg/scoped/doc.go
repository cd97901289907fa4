// Package scoped confines every data access on a protected entity to the
// tenant bound to the calling request.
//
// The package is a typed interceptor over a fixed operation set, not a
// query builder: modules call Create/Get/List/Count/Update/Delete on a
// Store and the store rewrites each call with the owner condition before
// it reaches storage. Handler code never writes the owner column and
// never sees another tenant's rows.
//
// # Architecture
//
// Three layers:
//
// 1. Entity - the contract protected types implement (EntityID, Owner,
// SetOwner); Filter, Changes and Page describe the operations
// 2. Backend - raw storage for one entity type: PGBackend (pgx,
// equality filters, keyset pagination) and MemBackend (tests, local
// tooling)
// 3. Store - the interceptor; reads the tenant binding from the context
// at execution time, applies the owner condition last, instruments every
// context-free call
//
// The Registry closes the protected entity set. NewStore panics on a
// name outside it; entities outside the set bypass the package and use
// storage directly.
//
// # Usage
//
//	store := scoped.NewStore(scoped.EntityStations,
//		scoped.NewPGBackend(pool, stationTable),
//		scoped.WithAccessLog(auditLogger),
//	)
//
//	// Handlers stay tenant-unaware:
//	st := &Station{ID: uuid.New(), Name: "Station 12", Region: "north"}
//	if err := store.Create(ctx, st); err != nil { ... }
//
//	page, next, err := store.List(ctx, scoped.Filter{"region": "north"},
//		scoped.Page{Limit: 50})
//
// # Fail-Closed Behavior
//
// A call without an active tenant context binds to the sentinel owner,
// which matches no row:
//
//   - Create: ErrMissingTenantContext (nothing safe to bind the row to)
//   - Get: ErrNotFound
//   - List: empty page, nil error
//   - Count: zero, nil error
//   - Update/Delete: zero affected rows, nil error
//
// Reads and existing-row mutations stay silent externally but never
// silently pass: each one increments the blocked-operations counter,
// logs a warning and writes a blocked_query or blocked_mutation access
// log entry.
//
// # Ownership
//
// Create stamps the owner from the context; an explicit owner in the
// payload naming another tenant is overridden and the attempt recorded.
// Update strips the owner column from every change set. The owner
// condition is applied after all caller filter keys, so a filter on the
// owner column is overwritten, never honored.
package scoped
