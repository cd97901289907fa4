package binder_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/binder"
)

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("basic types", func(t *testing.T) {
		t.Parallel()
		type listRequest struct {
			Status string  `query:"status"`
			Limit  int     `query:"limit"`
			Score  float64 `query:"score"`
			Active bool    `query:"active"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?status=open&limit=25&score=87.5&active=true", nil)

		var result listRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.Equal(t, "open", result.Status)
		assert.Equal(t, 25, result.Limit)
		assert.Equal(t, 87.5, result.Score)
		assert.True(t, result.Active)
	})

	t.Run("uuid and time fields", func(t *testing.T) {
		t.Parallel()
		type filterRequest struct {
			StationID uuid.UUID `query:"station_id"`
			Since     time.Time `query:"since"`
		}

		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/test?station_id="+id.String()+"&since=2025-03-01T00:00:00Z", nil)

		var result filterRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.Equal(t, id, result.StationID)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), result.Since)
	})

	t.Run("invalid uuid", func(t *testing.T) {
		t.Parallel()
		type filterRequest struct {
			StationID uuid.UUID `query:"station_id"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?station_id=not-a-uuid", nil)

		var result filterRequest
		err := binder.Query()(req, &result)

		require.Error(t, err)
		assert.True(t, errors.Is(err, binder.ErrFailedToParseQuery))
	})

	t.Run("slice from repeated and comma-separated values", func(t *testing.T) {
		t.Parallel()
		type tagsRequest struct {
			Regions []string `query:"regions"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?regions=north&regions=south,east", nil)

		var result tagsRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.Equal(t, []string{"north", "south", "east"}, result.Regions)
	})

	t.Run("pointer for optional fields", func(t *testing.T) {
		t.Parallel()
		type optRequest struct {
			Resolved *bool `query:"resolved"`
			Limit    *int  `query:"limit"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?resolved=false", nil)

		var result optRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		require.NotNil(t, result.Resolved)
		assert.False(t, *result.Resolved)
		assert.Nil(t, result.Limit)
	})

	t.Run("missing values leave zero values", func(t *testing.T) {
		t.Parallel()
		type listRequest struct {
			Status string `query:"status"`
			Limit  int    `query:"limit"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		var result listRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.Empty(t, result.Status)
		assert.Zero(t, result.Limit)
	})

	t.Run("skipped field", func(t *testing.T) {
		t.Parallel()
		type skipRequest struct {
			Public   string `query:"public"`
			Internal string `query:"-"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?public=yes&internal=hacked", nil)

		var result skipRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.Equal(t, "yes", result.Public)
		assert.Empty(t, result.Internal)
	})

	t.Run("untagged field uses lowercase name", func(t *testing.T) {
		t.Parallel()
		type plainRequest struct {
			Cursor string
		}

		req := httptest.NewRequest(http.MethodGet, "/test?cursor=abc123", nil)

		var result plainRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.Equal(t, "abc123", result.Cursor)
	})

	t.Run("lenient boolean values", func(t *testing.T) {
		t.Parallel()
		type boolRequest struct {
			A bool `query:"a"`
			B bool `query:"b"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?a=yes&b=off", nil)

		var result boolRequest
		err := binder.Query()(req, &result)

		require.NoError(t, err)
		assert.True(t, result.A)
		assert.False(t, result.B)
	})

	t.Run("invalid int value", func(t *testing.T) {
		t.Parallel()
		type listRequest struct {
			Limit int `query:"limit"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?limit=banana", nil)

		var result listRequest
		err := binder.Query()(req, &result)

		require.Error(t, err)
		assert.True(t, errors.Is(err, binder.ErrFailedToParseQuery))
		assert.Contains(t, err.Error(), "Limit")
	})

	t.Run("non-pointer target", func(t *testing.T) {
		t.Parallel()
		type listRequest struct {
			Limit int `query:"limit"`
		}

		req := httptest.NewRequest(http.MethodGet, "/test?limit=1", nil)

		var result listRequest
		err := binder.Query()(req, result)

		require.Error(t, err)
		assert.True(t, errors.Is(err, binder.ErrFailedToParseQuery))
	})
}
