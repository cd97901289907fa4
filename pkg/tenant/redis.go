package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces verdict keys in a shared Redis.
const DefaultKeyPrefix = "tenant:verdict:"

// RedisCache shares verdicts across instances, so a tenant suspended on
// one instance stops being served by all of them within one invalidation
// round trip instead of one TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// RedisCacheOption configures RedisCache.
type RedisCacheOption func(*RedisCache)

// WithKeyPrefix overrides the default verdict key prefix.
func WithKeyPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// NewRedisCache creates a distributed verdict cache over an existing
// client. The client's lifecycle belongs to the caller.
func NewRedisCache(client redis.UniversalClient, opts ...RedisCacheOption) *RedisCache {
	if client == nil {
		panic("tenant: redis client cannot be nil")
	}

	c := &RedisCache{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (Verdict, bool, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Verdict{}, false, nil
	}
	if err != nil {
		return Verdict{}, false, fmt.Errorf("get verdict: %w", err)
	}

	var v Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return Verdict{}, false, fmt.Errorf("decode verdict: %w", err)
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, id uuid.UUID, verdict Verdict, ttl time.Duration) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	if err := c.client.Set(ctx, c.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("set verdict: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("delete verdict: %w", err)
	}
	return nil
}

// DeleteAll removes every verdict under the prefix. SCAN keeps the
// operation incremental on a shared Redis.
func (c *RedisCache) DeleteAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()

	keys := make([]string, 0, 100)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete verdicts: %w", err)
		}
		keys = keys[:0]
		return nil
	}

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan verdicts: %w", err)
	}
	return flush()
}

// Close is a no-op; the shared client is closed by its owner.
func (c *RedisCache) Close() error {
	return nil
}
