package tenant_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/accesslog"
	"github.com/hsedigital/platform/pkg/principal"
	"github.com/hsedigital/platform/pkg/tenant"
)

// recorderMock captures access log entries written by the middleware.
type recorderMock struct {
	mu      sync.Mutex
	entries []accesslog.Entry
}

func (m *recorderMock) Record(_ context.Context, e accesslog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *recorderMock) all() []accesslog.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]accesslog.Entry(nil), m.entries...)
}

func memberPrincipal(tenantID uuid.UUID) principal.Principal {
	return principal.Principal{
		ID:       uuid.New(),
		Role:     principal.RoleHSEManager,
		TenantID: &tenantID,
	}
}

func platformPrincipal() principal.Principal {
	return principal.Principal{
		ID:   uuid.New(),
		Role: principal.RolePlatformAdmin,
	}
}

func doRequest(mw func(http.Handler) http.Handler, next http.Handler, p *principal.Principal, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	if p != nil {
		req = req.WithContext(principal.WithContext(req.Context(), *p))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func responseCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["code"]
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		t.Parallel()

		recorder := &recorderMock{}
		mw := tenant.Middleware(
			tenant.NewValidator(newMockDirectory()),
			tenant.WithAccessLog(recorder),
		)

		called := false
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

		rec := doRequest(mw, next, nil, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", responseCode(t, rec))
		assert.False(t, called)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeDenied, entries[0].Outcome)
		assert.Equal(t, "/api/stations", entries[0].Route)
		assert.Equal(t, http.MethodGet, entries[0].Operation)
		assert.Equal(t, "192.0.2.1", entries[0].Detail["ip"])
	})

	t.Run("binds members to their home organization", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		recorder := &recorderMock{}
		mw := tenant.Middleware(
			tenant.NewValidator(newMockDirectory(tn)),
			tenant.WithAccessLog(recorder),
		)
		p := memberPrincipal(tn.ID)

		var seen tenant.Context
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ok bool
			seen, ok = tenant.FromContext(r.Context())
			require.True(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		rec := doRequest(mw, next, &p, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tn.ID, seen.TenantID)
		assert.Equal(t, p.ID, seen.PrincipalID)
		assert.Equal(t, principal.RoleHSEManager, seen.Role)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeSwitched, entries[0].Outcome)
		assert.Equal(t, tn.ID, entries[0].TenantID)
		assert.Equal(t, p.ID, entries[0].PrincipalID)
		assert.Nil(t, entries[0].Detail, "successful switches carry no source attribution")
	})

	t.Run("ignores the override header from members", func(t *testing.T) {
		t.Parallel()

		home := newTestTenant(tenant.StatusActive)
		other := newTestTenant(tenant.StatusActive)
		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory(home, other)))
		p := memberPrincipal(home.ID)

		var seen tenant.Context
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = tenant.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := doRequest(mw, next, &p, map[string]string{
			tenant.DefaultOverrideHeader: other.ID.String(),
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, home.ID, seen.TenantID, "membership claim must win over the header")
	})

	t.Run("binds platform staff through the override header", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory(tn)))
		p := platformPrincipal()

		var seen tenant.Context
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = tenant.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := doRequest(mw, next, &p, map[string]string{
			tenant.DefaultOverrideHeader: tn.ID.String(),
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tn.ID, seen.TenantID)
		assert.Equal(t, principal.RolePlatformAdmin, seen.Role)
	})

	t.Run("rejects platform staff without the header", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory()))
		p := platformPrincipal()

		rec := doRequest(mw, okHandler(), &p, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_required", responseCode(t, rec))
	})

	t.Run("rejects a malformed override header", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory()))
		p := platformPrincipal()

		rec := doRequest(mw, okHandler(), &p, map[string]string{
			tenant.DefaultOverrideHeader: "not-a-uuid",
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_required", responseCode(t, rec))
	})

	t.Run("rejects the zero UUID in the override header", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory()))
		p := platformPrincipal()

		rec := doRequest(mw, okHandler(), &p, map[string]string{
			tenant.DefaultOverrideHeader: uuid.Nil.String(),
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_required", responseCode(t, rec))
	})

	t.Run("rejects members without a membership claim", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory()))
		p := principal.Principal{ID: uuid.New(), Role: principal.RoleViewer}

		rec := doRequest(mw, okHandler(), &p, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_required", responseCode(t, rec))
	})

	t.Run("rejects unknown organizations", func(t *testing.T) {
		t.Parallel()

		recorder := &recorderMock{}
		mw := tenant.Middleware(
			tenant.NewValidator(newMockDirectory()),
			tenant.WithAccessLog(recorder),
		)
		unknown := uuid.New()
		p := memberPrincipal(unknown)

		rec := doRequest(mw, okHandler(), &p, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "tenant_not_found", responseCode(t, rec))

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeDenied, entries[0].Outcome)
		assert.Equal(t, unknown, entries[0].TenantID)
	})

	t.Run("rejects suspended organizations", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusSuspended)
		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory(tn)))
		p := memberPrincipal(tn.ID)

		rec := doRequest(mw, okHandler(), &p, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_suspended", responseCode(t, rec))
	})

	t.Run("rejects disabled organizations", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusDisabled)
		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory(tn)))
		p := memberPrincipal(tn.ID)

		rec := doRequest(mw, okHandler(), &p, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_disabled", responseCode(t, rec))
	})

	t.Run("denies closed on directory failure", func(t *testing.T) {
		t.Parallel()

		dir := newMockDirectory()
		dir.err = errors.New("directory down")
		recorder := &recorderMock{}
		mw := tenant.Middleware(
			tenant.NewValidator(dir),
			tenant.WithAccessLog(recorder),
		)
		p := memberPrincipal(uuid.New())

		rec := doRequest(mw, okHandler(), &p, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal_error", responseCode(t, rec))

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeDenied, entries[0].Outcome)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		t.Parallel()

		recorder := &recorderMock{}
		mw := tenant.Middleware(
			tenant.NewValidator(newMockDirectory()),
			tenant.WithAccessLog(recorder),
			tenant.WithSkipPaths([]string{"/health", "/metrics"}),
		)

		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, recorder.all())
	})

	t.Run("revokes the binding after the response", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory(tn)))
		p := memberPrincipal(tn.ID)

		var captured context.Context
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Context()
			_, ok := tenant.FromContext(captured)
			assert.True(t, ok, "binding must be visible during the request")
			w.WriteHeader(http.StatusOK)
		})

		rec := doRequest(mw, next, &p, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		_, ok := tenant.FromContext(captured)
		assert.False(t, ok, "a retained request context must not keep the binding")
	})

	t.Run("revokes the binding when the handler panics", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		mw := tenant.Middleware(tenant.NewValidator(newMockDirectory(tn)))
		p := memberPrincipal(tn.ID)

		var captured context.Context
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			captured = r.Context()
			panic("handler exploded")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
		req = req.WithContext(principal.WithContext(req.Context(), p))
		rec := httptest.NewRecorder()

		require.Panics(t, func() {
			mw(next).ServeHTTP(rec, req)
		})

		_, ok := tenant.FromContext(captured)
		assert.False(t, ok, "binding must be revoked during panic unwind")
	})

	t.Run("uses a custom error handler", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(
			tenant.NewValidator(newMockDirectory()),
			tenant.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
				assert.ErrorIs(t, err, tenant.ErrNoPrincipal)
				w.WriteHeader(http.StatusTeapot)
			}),
		)

		rec := doRequest(mw, okHandler(), nil, nil)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("uses a custom override header", func(t *testing.T) {
		t.Parallel()

		tn := newTestTenant(tenant.StatusActive)
		mw := tenant.Middleware(
			tenant.NewValidator(newMockDirectory(tn)),
			tenant.WithOverrideHeader("X-Acting-Org"),
		)
		p := platformPrincipal()

		var seen tenant.Context
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = tenant.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := doRequest(mw, next, &p, map[string]string{"X-Acting-Org": tn.ID.String()})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tn.ID, seen.TenantID)
	})

	t.Run("panics on nil validator", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.Middleware(nil)
		})
	})
}

func TestMiddlewareOptions(t *testing.T) {
	t.Parallel()

	t.Run("panics on nil access recorder", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.WithAccessLog(nil)
		})
	})

	t.Run("panics on nil error handler", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.WithErrorHandler(nil)
		})
	})

	t.Run("panics on empty override header", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.WithOverrideHeader("")
		})
	})

	t.Run("panics on nil logger", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.WithLogger(nil)
		})
	})
}

func TestRequireContext(t *testing.T) {
	t.Parallel()

	t.Run("passes requests with a binding", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireContext(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/usage/current", nil)
		req = req.WithContext(tenant.WithContext(req.Context(), newTestContext()))
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects requests without one", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireContext(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/usage/current", nil)
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_required", responseCode(t, rec))
	})

	t.Run("rejects revoked bindings", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireContext(nil)

		ctx := tenant.WithContext(context.Background(), newTestContext())
		tenant.ClearContext(ctx)

		req := httptest.NewRequest(http.MethodGet, "/api/usage/current", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
