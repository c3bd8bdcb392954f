package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-rental-portal/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest("GET", "/api/tenant/dashboard", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/tenant/dashboard", 200, 5*time.Millisecond)
	m.ObserveRequest("POST", "/api/auth/login", 0, time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "portal_api_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.SessionEvent("login", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `portal_session_events_total{event="login",outcome="success"} 1`)
}
