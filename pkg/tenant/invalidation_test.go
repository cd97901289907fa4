package tenant_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/tenant"
)

// invalidatorMock records which busts were applied.
type invalidatorMock struct {
	mu       sync.Mutex
	single   []uuid.UUID
	allCalls int
	err      error
}

func (m *invalidatorMock) Invalidate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.single = append(m.single, id)
	return m.err
}

func (m *invalidatorMock) InvalidateAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allCalls++
	return m.err
}

func (m *invalidatorMock) applied() ([]uuid.UUID, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.single...), m.allCalls
}

// newTestFeed builds a feed over a client that is never dialed; Apply
// does not issue commands.
func newTestFeed(t *testing.T) *tenant.InvalidationFeed {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	t.Cleanup(func() { _ = client.Close() })
	return tenant.NewInvalidationFeed(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInvalidationFeed_Apply(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("tenant id busts one verdict", func(t *testing.T) {
		t.Parallel()

		feed := newTestFeed(t)
		inv := &invalidatorMock{}
		id := uuid.New()

		feed.Apply(ctx, inv, id.String())

		single, all := inv.applied()
		require.Len(t, single, 1)
		assert.Equal(t, id, single[0])
		assert.Zero(t, all)
	})

	t.Run("wildcard busts everything", func(t *testing.T) {
		t.Parallel()

		feed := newTestFeed(t)
		inv := &invalidatorMock{}

		feed.Apply(ctx, inv, "*")

		single, all := inv.applied()
		assert.Empty(t, single)
		assert.Equal(t, 1, all)
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		t.Parallel()

		feed := newTestFeed(t)
		inv := &invalidatorMock{}

		feed.Apply(ctx, inv, "not-a-uuid")

		single, all := inv.applied()
		assert.Empty(t, single)
		assert.Zero(t, all)
	})

	t.Run("zero UUID payload is dropped", func(t *testing.T) {
		t.Parallel()

		feed := newTestFeed(t)
		inv := &invalidatorMock{}

		feed.Apply(ctx, inv, uuid.Nil.String())

		single, all := inv.applied()
		assert.Empty(t, single)
		assert.Zero(t, all)
	})

	t.Run("invalidator failure is swallowed", func(t *testing.T) {
		t.Parallel()

		feed := newTestFeed(t)
		inv := &invalidatorMock{err: errors.New("cache down")}

		assert.NotPanics(t, func() {
			feed.Apply(ctx, inv, uuid.New().String())
			feed.Apply(ctx, inv, "*")
		})
	})
}

func TestNewInvalidationFeed(t *testing.T) {
	t.Parallel()

	t.Run("panics on nil client", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.NewInvalidationFeed(nil, nil)
		})
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		t.Parallel()

		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
		t.Cleanup(func() { _ = client.Close() })

		assert.NotPanics(t, func() {
			tenant.NewInvalidationFeed(client, nil)
		})
	})
}
