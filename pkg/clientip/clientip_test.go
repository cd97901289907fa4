package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/clientip"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name: "x-forwarded-for wins over x-real-ip",
			headers: map[string]string{
				"X-Forwarded-For": "198.51.100.178, 203.0.113.195",
				"X-Real-IP":       "192.168.1.1",
			},
			remoteAddr: "10.0.0.1:54321",
			expected:   "198.51.100.178",
		},
		{
			name: "first valid ip in forwarded chain",
			headers: map[string]string{
				"X-Forwarded-For": "not-an-ip, 203.0.113.195, 10.0.0.1",
			},
			remoteAddr: "10.0.0.1:54321",
			expected:   "203.0.113.195",
		},
		{
			name: "x-real-ip when forwarded header is absent",
			headers: map[string]string{
				"X-Real-IP": "203.0.113.7",
			},
			remoteAddr: "10.0.0.1:54321",
			expected:   "203.0.113.7",
		},
		{
			name:       "remote addr fallback strips the port",
			headers:    nil,
			remoteAddr: "172.16.0.9:8443",
			expected:   "172.16.0.9",
		},
		{
			name:       "remote addr without a port",
			headers:    nil,
			remoteAddr: "172.16.0.9",
			expected:   "172.16.0.9",
		},
		{
			name: "ipv6 forwarded address is normalized",
			headers: map[string]string{
				"X-Forwarded-For": "2001:0db8:0000:0000:0000:0000:0000:0001",
			},
			remoteAddr: "10.0.0.1:54321",
			expected:   "2001:db8::1",
		},
		{
			name:       "ipv6 remote addr with port",
			headers:    nil,
			remoteAddr: "[2001:db8::2]:443",
			expected:   "2001:db8::2",
		},
		{
			name: "garbage headers fall through to remote addr",
			headers: map[string]string{
				"X-Forwarded-For": "<script>alert(1)</script>",
				"X-Real-IP":       "999.999.999.999",
			},
			remoteAddr: "192.0.2.44:1234",
			expected:   "192.0.2.44",
		},
		{
			name:       "nothing valid anywhere",
			headers:    nil,
			remoteAddr: "not-an-address",
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, clientip.FromRequest(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("stores the resolved ip in the context", func(t *testing.T) {
		t.Parallel()

		var seen string
		handler := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = clientip.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.50")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "203.0.113.50", seen)
	})

	t.Run("empty when nothing resolves", func(t *testing.T) {
		t.Parallel()

		var seen string
		handler := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = clientip.FromContext(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "bogus"
		handler.ServeHTTP(httptest.NewRecorder(), r)

		assert.Empty(t, seen)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns empty without a stored value", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, clientip.FromContext(context.Background()))
	})

	t.Run("round trips through WithContext", func(t *testing.T) {
		t.Parallel()
		ctx := clientip.WithContext(context.Background(), "203.0.113.9")
		assert.Equal(t, "203.0.113.9", clientip.FromContext(ctx))
	})
}
