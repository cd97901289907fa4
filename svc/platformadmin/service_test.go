package platformadmin_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsedigital/platform/pkg/accesslog"
	"github.com/hsedigital/platform/pkg/principal"
	"github.com/hsedigital/platform/pkg/tenant"
	"github.com/hsedigital/platform/svc/directory"
	"github.com/hsedigital/platform/svc/platformadmin"
)

type storeMock struct {
	mu         sync.Mutex
	counts     map[string]int64
	tenants    []platformadmin.TenantUsage
	record     map[string]any
	err        error
	calls      int
	lastLimit  int
	lastOffset int
	lastEntity string
}

func (m *storeMock) EntityCounts(_ context.Context, entities []string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]int64, len(entities))
	for _, e := range entities {
		out[e] = m.counts[e]
	}
	return out, nil
}

func (m *storeMock) TenantsWithUsage(_ context.Context, _ []string, limit, offset int) ([]platformadmin.TenantUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastLimit = limit
	m.lastOffset = offset
	if m.err != nil {
		return nil, m.err
	}
	return m.tenants, nil
}

func (m *storeMock) FetchEntity(_ context.Context, entity string, _ uuid.UUID) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastEntity = entity
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil {
		return nil, platformadmin.ErrNotFound
	}
	return m.record, nil
}

func (m *storeMock) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type recorderMock struct {
	mu      sync.Mutex
	entries []accesslog.Entry
	err     error
}

func (m *recorderMock) Record(_ context.Context, e accesslog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

func (m *recorderMock) all() []accesslog.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]accesslog.Entry(nil), m.entries...)
}

type directoryMock struct {
	mu    sync.Mutex
	org   *tenant.Tenant
	err   error
	calls []string
}

func (m *directoryMock) Create(_ context.Context, params directory.CreateParams) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create")
	if m.err != nil {
		return nil, m.err
	}
	t := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      params.Name,
		Subdomain: params.Subdomain,
		Status:    tenant.StatusActive,
		PlanID:    params.PlanID,
	}
	m.org = t
	return t, nil
}

func (m *directoryMock) ChangePlan(_ context.Context, _ uuid.UUID, planID string) (*tenant.Tenant, error) {
	return m.transition("change_plan", func(t *tenant.Tenant) { t.PlanID = planID })
}

func (m *directoryMock) Suspend(_ context.Context, _ uuid.UUID) (*tenant.Tenant, error) {
	return m.transition("suspend", func(t *tenant.Tenant) { t.Status = tenant.StatusSuspended })
}

func (m *directoryMock) Reactivate(_ context.Context, _ uuid.UUID) (*tenant.Tenant, error) {
	return m.transition("reactivate", func(t *tenant.Tenant) { t.Status = tenant.StatusActive })
}

func (m *directoryMock) Disable(_ context.Context, _ uuid.UUID) (*tenant.Tenant, error) {
	return m.transition("disable", func(t *tenant.Tenant) { t.Status = tenant.StatusDisabled })
}

func (m *directoryMock) transition(name string, apply func(*tenant.Tenant)) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	if m.org == nil {
		return nil, tenant.ErrTenantNotFound
	}
	apply(m.org)
	return m.org, nil
}

func (m *directoryMock) callNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func newTestService(store *storeMock, recorder *recorderMock) *platformadmin.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return platformadmin.NewService(store, recorder, platformadmin.WithLogger(log))
}

func newTestServiceWithDirectory(store *storeMock, recorder *recorderMock, dir *directoryMock) *platformadmin.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return platformadmin.NewService(store, recorder,
		platformadmin.WithLogger(log),
		platformadmin.WithDirectory(dir))
}

func adminContext() (context.Context, principal.Principal) {
	p := principal.Principal{ID: uuid.New(), Role: principal.RolePlatformAdmin}
	return principal.WithContext(context.Background(), p), p
}

func memberContext() context.Context {
	orgID := uuid.New()
	p := principal.Principal{ID: uuid.New(), Role: principal.RoleOrgAdmin, TenantID: &orgID}
	return principal.WithContext(context.Background(), p)
}

func TestService_Overview(t *testing.T) {
	t.Parallel()

	t.Run("returns counts for platform staff", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{counts: map[string]int64{"stations": 42, "incidents": 7}}
		recorder := &recorderMock{}
		svc := newTestService(store, recorder)
		ctx, p := adminContext()

		counts, err := svc.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), counts["stations"])
		assert.Equal(t, int64(7), counts["incidents"])

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeElevatedAccess, entries[0].Outcome)
		assert.Equal(t, accesslog.SeverityElevated, entries[0].Severity)
		assert.Equal(t, "overview", entries[0].Operation)
		assert.Equal(t, p.ID, entries[0].PrincipalID)
	})

	t.Run("denies organization members", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		recorder := &recorderMock{}
		svc := newTestService(store, recorder)

		_, err := svc.Overview(memberContext())
		assert.ErrorIs(t, err, platformadmin.ErrNotAuthorized)
		assert.Zero(t, store.callCount(), "denied callers must never reach the store")

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, accesslog.OutcomeDenied, entries[0].Outcome)
		assert.Equal(t, accesslog.SeverityElevated, entries[0].Severity)
	})

	t.Run("denies requests without a principal", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		svc := newTestService(store, &recorderMock{})

		_, err := svc.Overview(context.Background())
		assert.ErrorIs(t, err, platformadmin.ErrNotAuthorized)
		assert.Zero(t, store.callCount())
	})

	t.Run("aborts when the audit write fails", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{counts: map[string]int64{"stations": 1}}
		recorder := &recorderMock{err: errors.New("audit storage down")}
		svc := newTestService(store, recorder)
		ctx, _ := adminContext()

		_, err := svc.Overview(ctx)
		assert.ErrorContains(t, err, "record elevated access")
		assert.Zero(t, store.callCount(), "unrecorded elevated access must not touch data")
	})
}

func TestService_ListTenants(t *testing.T) {
	t.Parallel()

	t.Run("passes results through", func(t *testing.T) {
		t.Parallel()

		org := tenant.Tenant{ID: uuid.New(), Name: "Nordoil Retail", Status: tenant.StatusActive}
		store := &storeMock{tenants: []platformadmin.TenantUsage{
			{Tenant: org, Counts: map[string]int64{"stations": 3}},
		}}
		svc := newTestService(store, &recorderMock{})
		ctx, _ := adminContext()

		tenants, err := svc.ListTenants(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, org.ID, tenants[0].ID)
		assert.Equal(t, int64(3), tenants[0].Counts["stations"])
		assert.Equal(t, 10, store.lastLimit)
	})

	t.Run("clamps the page size", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		svc := newTestService(store, &recorderMock{})
		ctx, _ := adminContext()

		_, err := svc.ListTenants(ctx, 0, -5)
		require.NoError(t, err)
		assert.Equal(t, 50, store.lastLimit)
		assert.Equal(t, 0, store.lastOffset)

		_, err = svc.ListTenants(ctx, 9999, 0)
		require.NoError(t, err)
		assert.Equal(t, 200, store.lastLimit)
	})

	t.Run("denies organization members", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		svc := newTestService(store, &recorderMock{})

		_, err := svc.ListTenants(memberContext(), 10, 0)
		assert.ErrorIs(t, err, platformadmin.ErrNotAuthorized)
	})
}

func TestService_FetchEntity(t *testing.T) {
	t.Parallel()

	t.Run("returns the row and audits the justification", func(t *testing.T) {
		t.Parallel()

		rowID := uuid.New()
		store := &storeMock{record: map[string]any{"id": rowID.String(), "name": "Station 12"}}
		recorder := &recorderMock{}
		svc := newTestService(store, recorder)
		ctx, _ := adminContext()

		record, err := svc.FetchEntity(ctx, "stations", rowID, "incident INV-482 investigation")
		require.NoError(t, err)
		assert.Equal(t, "Station 12", record["name"])
		assert.Equal(t, "stations", store.lastEntity)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, "emergency_fetch", entries[0].Operation)
		assert.Equal(t, "stations", entries[0].Entity)
		assert.Equal(t, "incident INV-482 investigation", entries[0].Detail["reason"])
		assert.Equal(t, rowID.String(), entries[0].Detail["entity_id"])
	})

	t.Run("requires a reason", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{record: map[string]any{"id": "x"}}
		recorder := &recorderMock{}
		svc := newTestService(store, recorder)
		ctx, _ := adminContext()

		_, err := svc.FetchEntity(ctx, "stations", uuid.New(), "")
		assert.ErrorIs(t, err, platformadmin.ErrReasonRequired)
		assert.Zero(t, store.callCount())
		assert.Empty(t, recorder.all())
	})

	t.Run("rejects entities outside the registry", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		svc := newTestService(store, &recorderMock{})
		ctx, _ := adminContext()

		_, err := svc.FetchEntity(ctx, "organizations", uuid.New(), "curiosity")
		assert.ErrorIs(t, err, platformadmin.ErrUnknownEntity)
		assert.Zero(t, store.callCount())
	})

	t.Run("missing rows are not found", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		svc := newTestService(store, &recorderMock{})
		ctx, _ := adminContext()

		_, err := svc.FetchEntity(ctx, "stations", uuid.New(), "audit follow-up")
		assert.ErrorIs(t, err, platformadmin.ErrNotFound)
	})

	t.Run("denies organization members", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{}
		svc := newTestService(store, &recorderMock{})

		_, err := svc.FetchEntity(memberContext(), "stations", uuid.New(), "reason")
		assert.ErrorIs(t, err, platformadmin.ErrNotAuthorized)
	})
}

func TestService_TenantLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("creates an organization and audits it", func(t *testing.T) {
		t.Parallel()

		dir := &directoryMock{}
		recorder := &recorderMock{}
		svc := newTestServiceWithDirectory(&storeMock{}, recorder, dir)
		ctx, p := adminContext()

		org, err := svc.CreateTenant(ctx, directory.CreateParams{Name: "Nordoil Retail", PlanID: "professional"})
		require.NoError(t, err)
		assert.Equal(t, "Nordoil Retail", org.Name)
		assert.Equal(t, tenant.StatusActive, org.Status)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, "tenant_create", entries[0].Operation)
		assert.Equal(t, "organizations", entries[0].Entity)
		assert.Equal(t, accesslog.OutcomeElevatedAccess, entries[0].Outcome)
		assert.Equal(t, accesslog.SeverityElevated, entries[0].Severity)
		assert.Equal(t, p.ID, entries[0].PrincipalID)
		assert.Equal(t, "Nordoil Retail", entries[0].Detail["name"])
	})

	t.Run("suspends an organization", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		dir := &directoryMock{org: &tenant.Tenant{ID: orgID, Status: tenant.StatusActive}}
		recorder := &recorderMock{}
		svc := newTestServiceWithDirectory(&storeMock{}, recorder, dir)
		ctx, _ := adminContext()

		org, err := svc.SuspendTenant(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, tenant.StatusSuspended, org.Status)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, "tenant_suspend", entries[0].Operation)
		assert.Equal(t, orgID.String(), entries[0].Detail["tenant_id"])
	})

	t.Run("reactivates and disables", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		dir := &directoryMock{org: &tenant.Tenant{ID: orgID, Status: tenant.StatusSuspended}}
		svc := newTestServiceWithDirectory(&storeMock{}, &recorderMock{}, dir)
		ctx, _ := adminContext()

		org, err := svc.ReactivateTenant(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, tenant.StatusActive, org.Status)

		org, err = svc.DisableTenant(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, tenant.StatusDisabled, org.Status)
		assert.Equal(t, []string{"reactivate", "disable"}, dir.callNames())
	})

	t.Run("changes the plan", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		dir := &directoryMock{org: &tenant.Tenant{ID: orgID, Status: tenant.StatusActive, PlanID: "starter"}}
		recorder := &recorderMock{}
		svc := newTestServiceWithDirectory(&storeMock{}, recorder, dir)
		ctx, _ := adminContext()

		org, err := svc.ChangeTenantPlan(ctx, orgID, "enterprise")
		require.NoError(t, err)
		assert.Equal(t, "enterprise", org.PlanID)

		entries := recorder.all()
		require.Len(t, entries, 1)
		assert.Equal(t, "enterprise", entries[0].Detail["plan_id"])
	})

	t.Run("denies organization members before touching the directory", func(t *testing.T) {
		t.Parallel()

		dir := &directoryMock{org: &tenant.Tenant{ID: uuid.New(), Status: tenant.StatusActive}}
		svc := newTestServiceWithDirectory(&storeMock{}, &recorderMock{}, dir)

		_, err := svc.SuspendTenant(memberContext(), uuid.New())
		assert.ErrorIs(t, err, platformadmin.ErrNotAuthorized)
		assert.Empty(t, dir.callNames())
	})

	t.Run("aborts when the audit write fails", func(t *testing.T) {
		t.Parallel()

		dir := &directoryMock{org: &tenant.Tenant{ID: uuid.New(), Status: tenant.StatusActive}}
		recorder := &recorderMock{err: errors.New("audit storage down")}
		svc := newTestServiceWithDirectory(&storeMock{}, recorder, dir)
		ctx, _ := adminContext()

		_, err := svc.SuspendTenant(ctx, uuid.New())
		assert.ErrorContains(t, err, "record elevated access")
		assert.Empty(t, dir.callNames(), "unrecorded elevated access must not touch the directory")
	})

	t.Run("requires a configured directory", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&storeMock{}, &recorderMock{})
		ctx, _ := adminContext()

		_, err := svc.SuspendTenant(ctx, uuid.New())
		assert.ErrorIs(t, err, platformadmin.ErrDirectoryNotConfigured)
	})
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("panics without store or recorder", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { platformadmin.NewService(nil, &recorderMock{}) })
		assert.Panics(t, func() { platformadmin.NewService(&storeMock{}, nil) })
	})

	t.Run("panics on nil options", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { platformadmin.WithRegistry(nil) })
		assert.Panics(t, func() { platformadmin.WithLogger(nil) })
		assert.Panics(t, func() { platformadmin.WithDirectory(nil) })
	})
}

func TestService_Handle(t *testing.T) {
	t.Parallel()

	t.Run("serves the overview to platform staff", func(t *testing.T) {
		t.Parallel()

		store := &storeMock{counts: map[string]int64{"stations": 42}}
		svc := newTestService(store, &recorderMock{})
		ctx, _ := adminContext()

		req := httptest.NewRequest(http.MethodGet, "/overview", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		svc.Handle().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Entities map[string]int64 `json:"entities"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, int64(42), body.Entities["stations"])
	})

	t.Run("rejects organization members", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&storeMock{}, &recorderMock{})

		req := httptest.NewRequest(http.MethodGet, "/overview", nil).WithContext(memberContext())
		rec := httptest.NewRecorder()
		svc.Handle().ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		var body struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "not_authorized", body.Code)
	})

	t.Run("rejects malformed entity ids", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&storeMock{}, &recorderMock{})
		ctx, _ := adminContext()

		req := httptest.NewRequest(http.MethodGet, "/entities/stations/not-a-uuid?reason=x", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		svc.Handle().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fetches a row with a reason", func(t *testing.T) {
		t.Parallel()

		rowID := uuid.New()
		store := &storeMock{record: map[string]any{"id": rowID.String(), "name": "Station 12"}}
		svc := newTestService(store, &recorderMock{})
		ctx, _ := adminContext()

		req := httptest.NewRequest(http.MethodGet, "/entities/stations/"+rowID.String()+"?reason=review", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		svc.Handle().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Station 12", body["name"])
	})

	t.Run("provisions an organization over http", func(t *testing.T) {
		t.Parallel()

		dir := &directoryMock{}
		svc := newTestServiceWithDirectory(&storeMock{}, &recorderMock{}, dir)
		ctx, _ := adminContext()

		payload := strings.NewReader(`{"name": "Nordoil Retail", "subdomain": "nordoil", "plan_id": "starter"}`)
		req := httptest.NewRequest(http.MethodPost, "/tenants", payload).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		svc.Handle().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Nordoil Retail", body["name"])
		assert.Equal(t, string(tenant.StatusActive), body["status"])
	})

	t.Run("maps impossible status transitions to conflicts", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		dir := &directoryMock{err: tenant.ErrInvalidStatusTransition}
		svc := newTestServiceWithDirectory(&storeMock{}, &recorderMock{}, dir)
		ctx, _ := adminContext()

		req := httptest.NewRequest(http.MethodPost, "/tenants/"+orgID.String()+"/reactivate", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		svc.Handle().ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		var body struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "invalid_status_transition", body.Code)
	})
}
