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

func TestMetrics_Counters(t *testing.T) {
	m := New("test")

	m.ObserveHTTPRequest("GET", "/api/notes", 200, 15*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/notes", 200, 5*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/notes/:id", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/notes", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/notes/:id", "404")))

	m.ObserveQuery("list", true, 2*time.Millisecond)
	m.ObserveQuery("list", false, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.databaseQueriesTotal.WithLabelValues("list", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.databaseQueriesTotal.WithLabelValues("list", "false")))

	m.IncrementNoteOperations("create", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.noteOperationsTotal.WithLabelValues("create", "true")))

	m.SetServiceHealth(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.serviceHealth))
	m.SetServiceHealth(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.serviceHealth))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	first := New("test")
	second := New("test")

	first.IncrementNoteOperations("delete", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(first.noteOperationsTotal.WithLabelValues("delete", "true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.noteOperationsTotal.WithLabelValues("delete", "true")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("notes_api")
	m.ObserveHTTPRequest("POST", "/api/notes", 201, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `notes_api_http_requests_total{method="POST",route="/api/notes",status="201"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
