/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/suparena/tenantstore/datastore/mock"
	"github.com/suparena/tenantstore/errors"
	"github.com/suparena/tenantstore/internal/billing"
)

var fixedNow = time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var n atomic.Int64
	svc, err := billing.New(mock.New(), billing.Options{
		Now:        func() time.Time { return fixedNow },
		NewID:      func() string { return fmt.Sprintf("id-%d", n.Add(1)) },
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	r, err := NewRouter(&Handler{Service: svc}, reg, reg)
	require.NoError(t, err)
	return r, reg
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, tenant string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set(TenantHeader, tenant)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestListUsersGolden(t *testing.T) {
	r, _ := setupTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "users", w.Body.Bytes())
}

func TestEmptyDashboardGolden(t *testing.T) {
	r, _ := setupTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/metrics", nil)
	req.Header.Set(TenantHeader, "acme")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "empty_dashboard", w.Body.Bytes())
}

func TestTenantFromSubdomain(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, resp := do(t, r, http.MethodPost, "/api/tenants", "", billing.Registration{
		OrganizationName: "Acme", Email: "owner@acme.io", Password: "correct horse", Subdomain: "acme",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"acme","name":"Acme"}`, string(resp.Data))

	login := func(host string) *httptest.ResponseRecorder {
		body := strings.NewReader(`{"email":"owner@acme.io","password":"correct horse"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		req.Host = host
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w = login("acme.billing.example.com:8443")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"name":"Acme","subdomain":"acme"}}`, w.Body.String())

	w = login("example.com")
	assert.Equal(t, http.StatusBadRequest, w.Code, "two labels carry no subdomain")

	w = login("globex.billing.example.com")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantRequired(t *testing.T) {
	r, _ := setupTestRouter(t)
	w, resp := do(t, r, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "tenant context is required")
}

func TestCustomerRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, resp := do(t, r, http.MethodPost, "/api/customers", "acme", map[string]string{
		"name": "Wayne Enterprises", "email": "bruce@wayne.com", "status": "active",
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	var created struct {
		ID       string `json:"id"`
		TenantID string `json:"tenantId"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "acme", created.TenantID)

	w, resp = do(t, r, http.MethodPost, "/api/customers", "acme", map[string]string{
		"name": "W", "email": "bruce@wayne.com", "status": "active",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	_, resp = do(t, r, http.MethodGet, "/api/customers", "globex", nil)
	assert.JSONEq(t, `[]`, string(resp.Data))

	w, _ = do(t, r, http.MethodDelete, "/api/customers/"+created.ID, "globex", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = do(t, r, http.MethodDelete, "/api/customers/"+created.ID, "acme", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"deleted":true}`, created.ID), string(resp.Data))
}

func TestPlanRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, resp := do(t, r, http.MethodPost, "/api/plans", "acme", map[string]any{
		"name": "Pro", "price": 4900, "interval": "month", "features": []string{"API access"},
	})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	var plan struct{ ID string }
	require.NoError(t, json.Unmarshal(resp.Data, &plan))

	w, resp = do(t, r, http.MethodPut, "/api/plans/"+plan.ID, "acme", map[string]any{"price": 5900})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	var updated struct {
		Name  string
		Price int64
	}
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "Pro", updated.Name)
	assert.Equal(t, int64(5900), updated.Price)

	w, _ = do(t, r, http.MethodPut, "/api/plans/"+plan.ID, "globex", map[string]any{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/plans/missing", "acme", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, resp := do(t, r, http.MethodPost, "/api/chats/c1/messages", "", map[string]string{"userId": "u2", "text": "hi"})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)

	_, resp = do(t, r, http.MethodGet, "/api/chats/c1/messages", "", nil)
	var msgs []struct{ ID, Text string }
	require.NoError(t, json.Unmarshal(resp.Data, &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[1].Text)

	w, _ = do(t, r, http.MethodGet, "/api/chats/c9/messages", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMalformedBody(t *testing.T) {
	r, _ := setupTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader("{"))
	req.Header.Set(TenantHeader, "acme")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NewNotFoundError("plan", "p1"), http.StatusNotFound},
		{errors.NewAlreadyExistsError("tenant", "acme"), http.StatusBadRequest},
		{errors.NewValidationError("name", "too short"), http.StatusBadRequest},
		{errors.NewConditionFailedError("put-if-absent", "contended"), http.StatusConflict},
		{errors.NewBackendError("get", "plan/p1", fmt.Errorf("timeout")), http.StatusServiceUnavailable},
		{errors.NewDecodeError("plan", "plan/p1", fmt.Errorf("bad json")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func TestMetricsAndHealth(t *testing.T) {
	r, reg := setupTestRouter(t)

	w, resp := do(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenantstore_http_requests_total")

	n, err := testutil.GatherAndCount(reg, "tenantstore_http_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}
