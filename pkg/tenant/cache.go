package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache stores validation verdicts keyed by tenant id. Implementations
// must be safe for concurrent use. Errors are advisory: the validator
// treats any cache failure as a miss and falls through to the directory,
// so correctness never depends on the cache.
type Cache interface {
	// Get retrieves a verdict. The bool reports whether the key was present.
	Get(ctx context.Context, id uuid.UUID) (Verdict, bool, error)

	// Set stores a verdict with the given TTL.
	Set(ctx context.Context, id uuid.UUID, verdict Verdict, ttl time.Duration) error

	// Delete removes a single verdict.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every verdict.
	DeleteAll(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// noOpCache never stores anything, forcing every validation to the
// directory. Used when caching is disabled.
type noOpCache struct{}

// NewNoOpCache creates a cache that does not cache.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (n *noOpCache) Get(ctx context.Context, id uuid.UUID) (Verdict, bool, error) {
	return Verdict{}, false, nil
}

func (n *noOpCache) Set(ctx context.Context, id uuid.UUID, verdict Verdict, ttl time.Duration) error {
	return nil
}

func (n *noOpCache) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (n *noOpCache) DeleteAll(ctx context.Context) error {
	return nil
}

func (n *noOpCache) Close() error {
	return nil
}
