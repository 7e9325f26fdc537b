package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := New()
	m.RecordRequest("GET", "/api/products/:id", 404, 15*time.Millisecond)
	m.RecordRequest("GET", "/api/products/:id", 404, 5*time.Millisecond)
	m.RecordRequest("POST", "/api/products", 201, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/products/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/products", "201")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordRequest("DELETE", "/api/products/:id", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `route="/api/products/:id"`)
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, "2xx", classifyStatus(201))
	assert.Equal(t, "3xx", classifyStatus(304))
	assert.Equal(t, "4xx", classifyStatus(400))
	assert.Equal(t, "5xx", classifyStatus(503))
	assert.Equal(t, "unknown", classifyStatus(99))
}
