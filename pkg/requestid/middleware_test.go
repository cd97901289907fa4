package requestid_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
		t.Helper()

		var ctxID string
		handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID = requestid.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return ctxID, rec
	}

	t.Run("mints an id when the client sends none", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
		ctxID, rec := serve(t, req)

		require.NotEmpty(t, ctxID)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err, "minted ids are UUIDs")
		assert.Equal(t, ctxID, rec.Header().Get(requestid.Header), "response echoes the context id")
	})

	t.Run("keeps a well formed gateway id", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{
			"550e8400-e29b-41d4-a716-446655440000",
			"gw-edge-7.retry_2",
			"ABC123",
		} {
			req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
			req.Header.Set(requestid.Header, id)

			ctxID, rec := serve(t, req)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, rec.Header().Get(requestid.Header))
		}
	})

	t.Run("replaces malformed ids", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{
			"has space",
			"path/traversal",
			"<script>alert(1)</script>",
			"id\nwith-newline",
			strings.Repeat("a", 65),
		} {
			req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
			req.Header.Set(requestid.Header, id)

			ctxID, rec := serve(t, req)
			require.NotEmpty(t, ctxID)
			assert.NotEqual(t, id, ctxID)
			assert.NotEqual(t, id, rec.Header().Get(requestid.Header))
		}
	})

	t.Run("accepts ids at the length bound", func(t *testing.T) {
		t.Parallel()

		id := strings.Repeat("a", 64)
		req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
		req.Header.Set(requestid.Header, id)

		ctxID, _ := serve(t, req)
		assert.Equal(t, id, ctxID)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trips through context", func(t *testing.T) {
		t.Parallel()

		ctx := requestid.WithContext(context.Background(), "req-42")
		assert.Equal(t, "req-42", requestid.FromContext(ctx))
	})

	t.Run("empty without an id", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, requestid.FromContext(context.Background()))
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	t.Run("emits the id attribute", func(t *testing.T) {
		t.Parallel()

		ctx := requestid.WithContext(context.Background(), "req-42")
		attr, ok := extract(ctx)
		require.True(t, ok)
		assert.Equal(t, "request_id", attr.Key)
		assert.Equal(t, slog.StringValue("req-42").String(), attr.Value.String())
	})

	t.Run("reports nothing without an id", func(t *testing.T) {
		t.Parallel()

		_, ok := extract(context.Background())
		assert.False(t, ok)
	})
}
