package tenant_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/tenant"
)

// mockDirectory serves a fixed tenant set and counts lookups.
type mockDirectory struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*tenant.Tenant
	err     error
	lookups int
}

func newMockDirectory(tenants ...*tenant.Tenant) *mockDirectory {
	d := &mockDirectory{tenants: make(map[uuid.UUID]*tenant.Tenant)}
	for _, tn := range tenants {
		d.tenants[tn.ID] = tn
	}
	return d
}

func (d *mockDirectory) Lookup(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	if d.err != nil {
		return nil, d.err
	}
	tn, ok := d.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return tn, nil
}

func (d *mockDirectory) lookupCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookups
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("active tenant validates", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		v := tenant.NewValidator(newMockDirectory(tn))

		verdict, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		assert.True(t, verdict.Exists)
		assert.True(t, verdict.Active)
		assert.Equal(t, tenant.StatusActive, verdict.Status)
		assert.False(t, verdict.FetchedAt.IsZero())
	})

	t.Run("suspended tenant exists but is not active", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusSuspended)
		v := tenant.NewValidator(newMockDirectory(tn))

		verdict, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		assert.True(t, verdict.Exists)
		assert.False(t, verdict.Active)
		assert.Equal(t, tenant.StatusSuspended, verdict.Status)
	})

	t.Run("unknown tenant yields a negative verdict", func(t *testing.T) {
		t.Parallel()

		v := tenant.NewValidator(newMockDirectory())

		verdict, err := v.Validate(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, verdict.Exists)
		assert.False(t, verdict.Active)
	})

	t.Run("nil id never reaches the directory", func(t *testing.T) {
		t.Parallel()

		dir := newMockDirectory()
		v := tenant.NewValidator(dir)

		verdict, err := v.Validate(ctx, uuid.Nil)
		require.NoError(t, err)
		assert.False(t, verdict.Exists)
		assert.Equal(t, 0, dir.lookupCount())
	})

	t.Run("fresh verdict is served from cache", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		dir := newMockDirectory(tn)
		v := tenant.NewValidator(dir, tenant.WithCache(newFakeCache()))

		_, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		_, err = v.Validate(ctx, tn.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, dir.lookupCount())
	})

	t.Run("negative verdict is cached as well", func(t *testing.T) {
		t.Parallel()

		dir := newMockDirectory()
		v := tenant.NewValidator(dir, tenant.WithCache(newFakeCache()))
		id := uuid.New()

		_, err := v.Validate(ctx, id)
		require.NoError(t, err)
		_, err = v.Validate(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, 1, dir.lookupCount(), "probing for a missing tenant must not bypass the cache")
	})

	t.Run("stale cached verdict is refetched", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		dir := newMockDirectory(tn)
		cache := newFakeCache()
		cache.data[tn.ID] = tenant.Verdict{
			Exists:    true,
			Active:    true,
			Status:    tenant.StatusActive,
			FetchedAt: time.Now().UTC().Add(-10 * time.Minute),
		}
		v := tenant.NewValidator(dir, tenant.WithCache(cache))

		verdict, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		assert.True(t, verdict.Exists)
		assert.Equal(t, 1, dir.lookupCount())
		assert.WithinDuration(t, time.Now(), verdict.FetchedAt, time.Minute)
	})

	t.Run("directory failure surfaces", func(t *testing.T) {
		t.Parallel()

		dir := newMockDirectory()
		dir.err = errors.New("directory down")
		v := tenant.NewValidator(dir)

		_, err := v.Validate(ctx, uuid.New())
		require.Error(t, err)
		assert.ErrorContains(t, err, "directory down")
	})

	t.Run("cache read failure degrades to directory", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		dir := newMockDirectory(tn)
		cache := newFakeCache()
		cache.getErr = errors.New("cache down")
		v := tenant.NewValidator(dir, tenant.WithCache(cache))

		verdict, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		assert.True(t, verdict.Exists)
		assert.Equal(t, 1, dir.lookupCount())
	})

	t.Run("cache fill failure is non-fatal", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		dir := newMockDirectory(tn)
		cache := newFakeCache()
		cache.setErr = errors.New("cache down")
		v := tenant.NewValidator(dir, tenant.WithCache(cache))

		_, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		_, err = v.Validate(ctx, tn.ID)
		require.NoError(t, err)

		assert.Equal(t, 2, dir.lookupCount(), "nothing was cached, both validations hit the directory")
	})
}

func TestValidator_Invalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("busts a single verdict", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		dir := newMockDirectory(tn)
		v := tenant.NewValidator(dir, tenant.WithCache(newFakeCache()))

		_, err := v.Validate(ctx, tn.ID)
		require.NoError(t, err)

		require.NoError(t, v.Invalidate(ctx, tn.ID))

		_, err = v.Validate(ctx, tn.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, dir.lookupCount())
	})

	t.Run("busts everything", func(t *testing.T) {
		t.Parallel()

		first := newTestTenant(tenant.StatusActive)
		second := newTestTenant(tenant.StatusActive)
		dir := newMockDirectory(first, second)
		v := tenant.NewValidator(dir, tenant.WithCache(newFakeCache()))

		_, err := v.Validate(ctx, first.ID)
		require.NoError(t, err)
		_, err = v.Validate(ctx, second.ID)
		require.NoError(t, err)

		require.NoError(t, v.InvalidateAll(ctx))

		_, err = v.Validate(ctx, first.ID)
		require.NoError(t, err)
		_, err = v.Validate(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, dir.lookupCount())
	})
}

func TestNewValidator(t *testing.T) {
	t.Parallel()

	t.Run("panics on nil directory", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.NewValidator(nil)
		})
	})

	t.Run("panics on nil cache option", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.NewValidator(newMockDirectory(), tenant.WithCache(nil))
		})
	})

	t.Run("panics on non-positive ttl", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.NewValidator(newMockDirectory(), tenant.WithTTL(0))
		})
	})

	t.Run("panics on nil logger", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.NewValidator(newMockDirectory(), tenant.WithValidatorLogger(nil))
		})
	})
}
