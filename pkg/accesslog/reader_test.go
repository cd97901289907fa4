package accesslog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/accesslog"
)

// querierOnly hides MemoryStorage's Count so tests can exercise the
// reader's fallback counting path.
type querierOnly struct {
	storage *accesslog.MemoryStorage
}

func (q querierOnly) Query(ctx context.Context, c accesslog.Criteria) ([]accesslog.Entry, error) {
	return q.storage.Query(ctx, c)
}

func seedStorage(t *testing.T, tenantID uuid.UUID) *accesslog.MemoryStorage {
	t.Helper()

	storage := accesslog.NewMemoryStorage()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	outcomes := []accesslog.Outcome{
		accesslog.OutcomeSwitched,
		accesslog.OutcomeSwitched,
		accesslog.OutcomeDenied,
		accesslog.OutcomeBlockedQuery,
		accesslog.OutcomeSwitched,
	}
	for i, outcome := range outcomes {
		err := storage.Store(context.Background(), accesslog.Entry{
			ID:        uuid.New(),
			Time:      base.Add(time.Duration(i) * time.Minute),
			TenantID:  tenantID,
			Operation: "list",
			Entity:    "stations",
			Outcome:   outcome,
			Severity:  accesslog.SeverityNormal,
		})
		require.NoError(t, err)
	}

	// One entry for another tenant that must never leak into results.
	err := storage.Store(context.Background(), accesslog.Entry{
		ID:        uuid.New(),
		Time:      base.Add(10 * time.Minute),
		TenantID:  uuid.New(),
		Operation: "list",
		Entity:    "stations",
		Outcome:   accesslog.OutcomeSwitched,
		Severity:  accesslog.SeverityNormal,
	})
	require.NoError(t, err)

	return storage
}

func TestReader(t *testing.T) {
	t.Parallel()

	t.Run("finds entries newest first", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		reader := accesslog.NewReader(seedStorage(t, tenantID))

		entries, err := reader.Find(context.Background(), accesslog.Criteria{TenantID: tenantID})
		require.NoError(t, err)
		require.Len(t, entries, 5)

		for i := 1; i < len(entries); i++ {
			assert.True(t, entries[i].Time.Before(entries[i-1].Time),
				"entries should be ordered newest first")
		}
	})

	t.Run("filters by outcome", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		reader := accesslog.NewReader(seedStorage(t, tenantID))

		entries, err := reader.Find(context.Background(), accesslog.Criteria{
			TenantID: tenantID,
			Outcome:  accesslog.OutcomeDenied,
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeDenied, entries[0].Outcome)
	})

	t.Run("filters by time window", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		reader := accesslog.NewReader(seedStorage(t, tenantID))

		from := time.Date(2026, 5, 1, 8, 1, 0, 0, time.UTC)
		to := time.Date(2026, 5, 1, 8, 3, 0, 0, time.UTC)

		entries, err := reader.Find(context.Background(), accesslog.Criteria{
			TenantID: tenantID,
			From:     from,
			To:       to,
		})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.False(t, e.Time.Before(from))
			assert.True(t, e.Time.Before(to))
		}
	})

	t.Run("pages with cursor until exhausted", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		reader := accesslog.NewReader(seedStorage(t, tenantID))
		criteria := accesslog.Criteria{TenantID: tenantID, Limit: 2}

		seen := make(map[uuid.UUID]bool)
		cursor := ""
		pages := 0
		for {
			entries, next, err := reader.FindWithCursor(context.Background(), criteria, cursor)
			require.NoError(t, err)
			for _, e := range entries {
				assert.False(t, seen[e.ID], "entry %s returned twice", e.ID)
				seen[e.ID] = true
			}
			pages++
			if next == "" {
				break
			}
			cursor = next
			require.Less(t, pages, 10, "pagination should terminate")
		}

		assert.Len(t, seen, 5)
	})

	t.Run("rejects malformed cursor", func(t *testing.T) {
		t.Parallel()

		reader := accesslog.NewReader(seedStorage(t, uuid.New()))

		_, _, err := reader.FindWithCursor(context.Background(), accesslog.Criteria{Limit: 2}, "not-a-cursor")
		assert.ErrorIs(t, err, accesslog.ErrInvalidCursor)
	})

	t.Run("counts through optimized storage", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		reader := accesslog.NewReader(seedStorage(t, tenantID))

		n, err := reader.Count(context.Background(), accesslog.Criteria{TenantID: tenantID})
		require.NoError(t, err)
		assert.EqualValues(t, 5, n)
	})

	t.Run("counts through query fallback", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		reader := accesslog.NewReader(querierOnly{storage: seedStorage(t, tenantID)})

		n, err := reader.Count(context.Background(), accesslog.Criteria{
			TenantID: tenantID,
			Outcome:  accesslog.OutcomeSwitched,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})

	t.Run("panics on nil storage", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			accesslog.NewReader(nil)
		})
	})
}
