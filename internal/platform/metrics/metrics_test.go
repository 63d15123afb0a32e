package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/dashboard/:id", 404, 3*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/dashboard/:id", 404, time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/dashboard/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandlerExposesExports(t *testing.T) {
	m := New()
	m.ExportGenerated("session", "pdf")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `exports_generated_total{format="pdf",resource="session"} 1`)
}
