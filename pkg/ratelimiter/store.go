package ratelimiter

import (
	"context"
	"time"
)

// Store holds token bucket state. MemoryStore is the only implementation
// today; the interface keeps a shared backend possible without touching
// Bucket or the middleware.
type Store interface {
	// ConsumeTokens draws tokens from the key's bucket after crediting any
	// refills due, returning the remaining balance and when the next refill
	// lands. A negative balance means the request must be denied. Drawing
	// zero tokens reads the bucket without spending from it.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset drops the bucket for the key.
	Reset(ctx context.Context, key string) error
}
