package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// staleAfter is how long an untouched bucket survives before the sweeper
// drops it.
const staleAfter = time.Hour

type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// refill credits the refill intervals elapsed since the last refill. The
// interval count is capped so a long-idle bucket cannot overflow the token
// arithmetic, and the balance never exceeds capacity.
func (b *bucketState) refill(now time.Time, cfg Config) {
	intervals := int64(now.Sub(b.lastRefill) / cfg.RefillInterval)
	if intervals <= 0 {
		return
	}
	if limit := int64(cfg.Capacity/cfg.RefillRate) + 1; intervals > limit {
		intervals = limit
	}
	b.tokens = min(b.tokens+int(intervals)*cfg.RefillRate, cfg.Capacity)
	b.lastRefill = now
}

// MemoryStore keeps bucket state in process memory. Limits hold per
// instance, not across a fleet, which still bounds each tenant's rate on
// every instance it reaches.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState

	sweepEvery time.Duration
	done       chan struct{}
	closeOnce  sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often stale buckets are swept out.
// Zero disables the sweeper.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.sweepEvery = interval
	}
}

// NewMemoryStore creates an in-memory store. Unless disabled, a background
// goroutine sweeps out buckets idle for over an hour; Close stops it.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:    make(map[string]*bucketState),
		sweepEvery: 5 * time.Minute,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}

	if ms.sweepEvery > 0 {
		go ms.sweepLoop()
	}
	return ms
}

// ConsumeTokens implements Store.
func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	b := ms.buckets[key]
	if b == nil {
		b = &bucketState{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	b.refill(now, cfg)
	b.tokens -= tokens
	b.lastAccess = now

	return b.tokens, b.lastRefill.Add(cfg.RefillInterval), nil
}

// Reset implements Store.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() { close(ms.done) })
}

func (ms *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(ms.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.sweep()
		case <-ms.done:
			return
		}
	}
}

func (ms *MemoryStore) sweep() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for key, b := range ms.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(ms.buckets, key)
		}
	}
}
