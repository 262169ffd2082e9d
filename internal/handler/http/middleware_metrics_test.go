package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-screenly/internal/metrics"
)

func TestWithMetrics_RecordsRoutePattern(t *testing.T) {
	m := metrics.New()
	router := newTestHandler(t, testServices(), WithMetrics(m)).Init()

	for _, path := range []string{"/movies/550", "/movies/680"} {
		rec := serve(router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/movies/{id}", "200")))
}

func TestWithMetrics_RecordsErrorStatus(t *testing.T) {
	m := metrics.New()
	router := newTestHandler(t, testServices(), WithMetrics(m)).Init()

	rec := serve(router, http.MethodPost, "/watchlist", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/watchlist", "401")))
}

func TestWithMetrics_SkipsMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	router := newTestHandler(t, testServices(), WithMetrics(m)).Init()

	rec := serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 0, testutil.CollectAndCount(m.HTTPRequestsTotal))
}

func TestWithMetrics_NilMetricsPassesThrough(t *testing.T) {
	h := newTestHandler(t, testServices())
	called := false

	rec := httptest.NewRecorder()
	h.withMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
