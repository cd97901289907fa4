package scoped

import "context"

// Backend executes raw, unscoped storage operations for one entity
// type. It applies filters verbatim and must only be reached through a
// Store, which injects the owner condition; handing a Backend to
// handler code defeats the isolation layer.
type Backend[E Entity] interface {
	// Insert stores a new entity. The owner is already stamped.
	Insert(ctx context.Context, e E) error

	// Get returns the newest row matching the filter, or ErrNotFound.
	Get(ctx context.Context, f Filter) (E, error)

	// List returns matching rows newest first, plus the continuation
	// cursor for the next page ("" when the listing is exhausted).
	List(ctx context.Context, f Filter, p Page) ([]E, string, error)

	// Update applies the changes to every matching row and reports how
	// many rows were written.
	Update(ctx context.Context, f Filter, ch Changes) (int64, error)

	// Delete removes every matching row and reports how many.
	Delete(ctx context.Context, f Filter) (int64, error)

	// Count reports how many rows match the filter.
	Count(ctx context.Context, f Filter) (int64, error)
}
