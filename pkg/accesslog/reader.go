package accesslog

import "context"

// Querier retrieves stored entries.
type Querier interface {
	Query(ctx context.Context, criteria Criteria) ([]Entry, error)
}

// Counter is implemented by storages with an optimized count.
type Counter interface {
	Count(ctx context.Context, criteria Criteria) (int64, error)
}

// Reader provides the query surface over a storage backend.
type Reader struct {
	storage Querier
}

// NewReader creates a reader over the given storage.
func NewReader(storage Querier) *Reader {
	if storage == nil {
		panic("accesslog: storage cannot be nil")
	}
	return &Reader{storage: storage}
}

// Find retrieves entries matching the criteria.
func (r *Reader) Find(ctx context.Context, criteria Criteria) ([]Entry, error) {
	return r.storage.Query(ctx, criteria)
}

// FindWithCursor retrieves one page and the cursor for the next. An empty
// next cursor means the listing is exhausted.
func (r *Reader) FindWithCursor(ctx context.Context, criteria Criteria, cursor string) ([]Entry, string, error) {
	criteria.Cursor = cursor

	entries, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if criteria.Limit > 0 && len(entries) == criteria.Limit {
		next = encodeCursor(entries[len(entries)-1])
	}
	return entries, next, nil
}

// Count returns the number of matching entries. Storages implementing
// Counter are used directly; otherwise the entries are loaded and counted.
func (r *Reader) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if counter, ok := r.storage.(Counter); ok {
		return counter.Count(ctx, criteria)
	}

	criteria.Limit = 0
	criteria.Cursor = ""
	entries, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}
