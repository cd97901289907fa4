package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/handler"
)

func TestNewPage(t *testing.T) {
	t.Parallel()

	t.Run("carries the cursor when more pages exist", func(t *testing.T) {
		t.Parallel()

		page := handler.NewPage([]string{"a", "b"}, "Y3Vyc29y")
		assert.Equal(t, []string{"a", "b"}, page.Data)
		assert.True(t, page.HasMore)
		assert.Equal(t, "Y3Vyc29y", page.NextCursor)
	})

	t.Run("empty cursor ends the listing", func(t *testing.T) {
		t.Parallel()

		page := handler.NewPage([]string{"a"}, "")
		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("nil slices serialize as an empty array", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(handler.NewPage[string](nil, ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[],"has_more":false}`, string(raw))
	})
}
