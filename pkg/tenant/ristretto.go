package tenant

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

// DefaultCacheSize is the default maximum number of cached verdicts.
const DefaultCacheSize = 10_000

// RistrettoCache is the in-process verdict cache. Verdicts are tiny and
// uniform, so every entry costs 1 and MaxCost caps the entry count.
type RistrettoCache struct {
	cache *ristretto.Cache[string, Verdict]
}

// NewRistrettoCache creates an in-process cache holding up to maxEntries
// verdicts. Non-positive maxEntries falls back to DefaultCacheSize.
func NewRistrettoCache(maxEntries int64) (*RistrettoCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, Verdict]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache{cache: c}, nil
}

func (c *RistrettoCache) Get(ctx context.Context, id uuid.UUID) (Verdict, bool, error) {
	v, ok := c.cache.Get(id.String())
	if !ok {
		return Verdict{}, false, nil
	}
	return v, true, nil
}

func (c *RistrettoCache) Set(ctx context.Context, id uuid.UUID, verdict Verdict, ttl time.Duration) error {
	c.cache.SetWithTTL(id.String(), verdict, 1, ttl)
	return nil
}

func (c *RistrettoCache) Delete(ctx context.Context, id uuid.UUID) error {
	c.cache.Del(id.String())
	return nil
}

func (c *RistrettoCache) DeleteAll(ctx context.Context) error {
	c.cache.Clear()
	return nil
}

func (c *RistrettoCache) Close() error {
	c.cache.Close()
	return nil
}

// Wait blocks until pending writes are applied. Ristretto admits sets
// through internal buffers, so a Get immediately after Set may miss
// without it.
func (c *RistrettoCache) Wait() {
	c.cache.Wait()
}
