package tenant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hsedigital/platform/pkg/logger"
)

// InvalidationChannel carries verdict busts between instances.
const InvalidationChannel = "tenant.invalidations"

// invalidateAllPayload busts every verdict at once.
const invalidateAllPayload = "*"

// Invalidator applies verdict busts. *Validator implements it.
type Invalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

// InvalidationFeed propagates verdict busts across instances through
// Redis pub/sub. Delivery is best effort; the verdict TTL is the
// backstop for missed messages.
type InvalidationFeed struct {
	client redis.UniversalClient
	log    *slog.Logger
}

// NewInvalidationFeed creates a feed over an existing client.
func NewInvalidationFeed(client redis.UniversalClient, log *slog.Logger) *InvalidationFeed {
	if client == nil {
		panic("tenant: redis client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &InvalidationFeed{client: client, log: log}
}

// Publish announces that one tenant's verdict must be refetched.
func (f *InvalidationFeed) Publish(ctx context.Context, id uuid.UUID) error {
	if err := f.client.Publish(ctx, InvalidationChannel, id.String()).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// PublishAll announces that every verdict must be refetched.
func (f *InvalidationFeed) PublishAll(ctx context.Context) error {
	if err := f.client.Publish(ctx, InvalidationChannel, invalidateAllPayload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Listen applies incoming busts to inv until the context is canceled.
// It is intended to run as a background goroutine per instance.
func (f *InvalidationFeed) Listen(ctx context.Context, inv Invalidator) error {
	sub := f.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return ErrFeedClosed
			}
			f.Apply(ctx, inv, msg.Payload)
		}
	}
}

// Apply processes one raw feed message. The payload is either a tenant
// id or the wildcard; anything else is logged and dropped so a bad
// message can never wedge the feed.
func (f *InvalidationFeed) Apply(ctx context.Context, inv Invalidator, payload string) {
	if payload == invalidateAllPayload {
		if err := inv.InvalidateAll(ctx); err != nil {
			f.log.WarnContext(ctx, "invalidate all failed",
				logger.Error(err),
				logger.Component("tenant"))
		}
		return
	}

	id, err := uuid.Parse(payload)
	if err != nil || id == uuid.Nil {
		f.log.WarnContext(ctx, "ignoring malformed invalidation",
			slog.String("payload", payload),
			logger.Component("tenant"))
		return
	}

	if err := inv.Invalidate(ctx, id); err != nil {
		f.log.WarnContext(ctx, "invalidate failed",
			logger.Error(err),
			logger.TenantID(id),
			logger.Component("tenant"))
	}
}
