package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TieredCache layers an in-process cache over a shared one. Gets check L1
// first and backfill it on an L2 hit; writes and invalidation go to both
// levels. The validator's FetchedAt staleness check caps how long a
// backfilled verdict can outlive its original fetch.
type TieredCache struct {
	l1    Cache
	l2    Cache
	l1TTL time.Duration
}

// NewTieredCache combines an L1 and L2 cache. l1TTL controls how long L2
// backfills live in L1.
func NewTieredCache(l1, l2 Cache, l1TTL time.Duration) *TieredCache {
	if l1 == nil || l2 == nil {
		panic("tenant: both cache levels are required")
	}
	if l1TTL <= 0 {
		panic("tenant: l1 TTL must be positive")
	}
	return &TieredCache{l1: l1, l2: l2, l1TTL: l1TTL}
}

// Get checks L1, then L2. An L1 failure degrades to an L2 lookup rather
// than failing the get.
func (c *TieredCache) Get(ctx context.Context, id uuid.UUID) (Verdict, bool, error) {
	v, ok, err := c.l1.Get(ctx, id)
	if err == nil && ok {
		return v, true, nil
	}

	v, ok, l2err := c.l2.Get(ctx, id)
	if l2err != nil {
		return Verdict{}, false, errors.Join(err, l2err)
	}
	if !ok {
		return Verdict{}, false, err
	}

	// Best-effort backfill; a failed L1 write only costs the next lookup.
	_ = c.l1.Set(ctx, id, v, c.l1TTL)
	return v, true, nil
}

func (c *TieredCache) Set(ctx context.Context, id uuid.UUID, verdict Verdict, ttl time.Duration) error {
	l1TTL := ttl
	if c.l1TTL < ttl {
		l1TTL = c.l1TTL
	}
	return errors.Join(
		c.l1.Set(ctx, id, verdict, l1TTL),
		c.l2.Set(ctx, id, verdict, ttl),
	)
}

func (c *TieredCache) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.Join(
		c.l1.Delete(ctx, id),
		c.l2.Delete(ctx, id),
	)
}

func (c *TieredCache) DeleteAll(ctx context.Context) error {
	return errors.Join(
		c.l1.DeleteAll(ctx),
		c.l2.DeleteAll(ctx),
	)
}

func (c *TieredCache) Close() error {
	return errors.Join(
		c.l1.Close(),
		c.l2.Close(),
	)
}
