package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/handler"
)

func TestJSONRender(t *testing.T) {
	t.Parallel()

	t.Run("simple data", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON(map[string]string{"id": "123", "name": "test"})
		err := resp.Render(w, r)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var got map[string]string
		err = json.Unmarshal(w.Body.Bytes(), &got)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"id": "123", "name": "test"}, got)
	})

	t.Run("body is the value itself, no envelope", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		type station struct {
			Name  string `json:"name"`
			Brand string `json:"brand"`
		}

		resp := handler.JSON(station{Name: "Depot 12", Brand: "Octan"})
		require.NoError(t, resp.Render(w, r))

		assert.JSONEq(t, `{"name":"Depot 12","brand":"Octan"}`, w.Body.String())
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		resp := handler.JSON(map[string]string{"id": "123"}, handler.WithStatus(http.StatusCreated))
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("error value renders envelope", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON(errors.New("boom"))
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var got handler.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "boom", got.Error)
		assert.Equal(t, "internal_error", got.Code)
	})

	t.Run("unmarshalable body fails before anything is written", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON(map[string]any{"ch": make(chan int)})
		err := resp.Render(w, r)

		require.Error(t, err)
		assert.Empty(t, w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Type"))
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	t.Run("generic error", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSONError(errors.New("database exploded"))
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var got handler.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "database exploded", got.Error)
		assert.Equal(t, "internal_error", got.Code)
		assert.Empty(t, got.Details)
	})

	t.Run("http error uses its status and code", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSONError(handler.ErrNotFound)
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusNotFound, w.Code)

		var got handler.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Not Found", got.Error)
		assert.Equal(t, "not_found", got.Code)
	})

	t.Run("validation error returns 422 with sorted details", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		valErr := handler.NewValidationError()
		valErr.Add("severity", "must be one of: low, medium, high, critical")
		valErr.Add("description", "is required")

		resp := handler.JSONError(valErr)
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var got handler.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Validation failed", got.Error)
		assert.Equal(t, "validation_error", got.Code)
		assert.Equal(t, []string{
			"description: is required",
			"severity: must be one of: low, medium, high, critical",
		}, got.Details)
	})

	t.Run("prebuilt APIError passes through", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSONError(&handler.APIError{
			Error: "Organization is suspended",
			Code:  "tenant_suspended",
		}, handler.WithStatus(http.StatusForbidden))
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusForbidden, w.Code)

		var got handler.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Organization is suspended", got.Error)
		assert.Equal(t, "tenant_suspended", got.Code)
	})

	t.Run("status override", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSONError(errors.New("slow down"), handler.WithStatus(http.StatusTooManyRequests))
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
