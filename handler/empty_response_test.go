package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/handler"
)

func TestEmpty(t *testing.T) {
	t.Parallel()

	t.Run("renders 204 with no body", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/stations/123", nil)

		err := handler.Empty().Render(w, req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Type"))
	})

	t.Run("works through Wrap on a delete endpoint", func(t *testing.T) {
		t.Parallel()
		type deleteRequest struct{}

		httpHandler := handler.Wrap(handler.HandlerFunc[deleteRequest](
			func(ctx handler.Context, req deleteRequest) handler.Response {
				return handler.Empty()
			},
		))

		w := httptest.NewRecorder()
		httpHandler(w, httptest.NewRequest(http.MethodDelete, "/stations/123", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
