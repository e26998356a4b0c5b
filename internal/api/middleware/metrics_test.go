package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByRouteAndCode(t *testing.T) {
	m := NewMetrics()
	handler := m.Instrument("GET /analytics/status-summary", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/analytics/status-summary", nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET /analytics/status-summary", "get", "404"))
	assert.Equal(t, float64(3), got)
}

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.Instrument("GET /health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analytics_http_requests_total")
	assert.Contains(t, rec.Body.String(), "analytics_http_request_duration_seconds")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
