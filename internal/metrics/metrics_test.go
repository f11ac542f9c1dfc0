package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/bmpresence/internal/status"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsRecorded(t *testing.T) {
	m := New()
	m.ObserveCycle(OutcomeOK)
	m.ObserveCycle(OutcomeOK)
	m.ObserveCycle(OutcomeAPIError)
	m.IncPublishErrors()
	m.ObserveSnapshot(status.Snapshot{Players: "45", MaxPlayers: "100", Joining: 3}, time.Unix(1700000000, 0))

	body := scrape(t, m.Handler())
	assert.Contains(t, body, `bmpresence_cycles_total{outcome="ok"} 2`)
	assert.Contains(t, body, `bmpresence_cycles_total{outcome="api_error"} 1`)
	assert.Contains(t, body, "bmpresence_publish_errors_total 1")
	assert.Contains(t, body, "bmpresence_players 45")
	assert.Contains(t, body, "bmpresence_max_players 100")
	assert.Contains(t, body, "bmpresence_joining_players 3")
	assert.Contains(t, body, "bmpresence_last_success_timestamp_seconds 1.7e+09")
}

func TestSnapshotWithTextCounts(t *testing.T) {
	m := New()
	m.ObserveSnapshot(status.Snapshot{Players: "45", MaxPlayers: "100"}, time.Now())
	m.ObserveSnapshot(status.Snapshot{Players: "many", MaxPlayers: "100"}, time.Now())

	assert.Contains(t, scrape(t, m.Handler()), "bmpresence_players 45")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCycle(OutcomeDataError)
		m.ObserveSnapshot(status.Snapshot{}, time.Now())
		m.IncPublishErrors()
	})
	scrape(t, m.Handler())
}

func TestServerRoutes(t *testing.T) {
	srv := httptest.NewServer(NewServer("", New()).Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Post(srv.URL+"/healthz", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "bmpresence_publish_errors_total 0")
}
