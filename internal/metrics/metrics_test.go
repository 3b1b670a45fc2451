package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.SessionsStarted)
	assert.NotNil(t, m.CapturesTotal)
	assert.NotNil(t, m.MissesTotal)
	assert.NotNil(t, m.FileCompletion)
	assert.NotNil(t, m.AudibleSources)

	// A second instance must not collide with the first
	assert.NotPanics(t, func() { NewMetrics() })
}

func TestGameCounters(t *testing.T) {
	m := NewMetrics()

	m.SessionStarted("Coleman")
	m.Captured("Coleman", 2)
	m.Captured("Coleman", 2)
	m.Missed("Coleman")
	m.SetCompletion("Coleman", 33)
	m.SetAudible(2)
	m.AllComplete()

	captures := findMetric(t, m, "mdr_captures_total")
	require.NotNil(t, captures)
	require.Len(t, captures.GetMetric(), 1)
	assert.Equal(t, 2.0, captures.GetMetric()[0].GetCounter().GetValue())

	labels := map[string]string{}
	for _, lp := range captures.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, map[string]string{"file": "Coleman", "bin": "2"}, labels)

	completion := findMetric(t, m, "mdr_file_completion_percent")
	require.NotNil(t, completion)
	assert.Equal(t, 33.0, completion.GetMetric()[0].GetGauge().GetValue())

	audible := findMetric(t, m, "mdr_audible_sources")
	require.NotNil(t, audible)
	assert.Equal(t, 2.0, audible.GetMetric()[0].GetGauge().GetValue())

	misses := findMetric(t, m, "mdr_misses_total")
	require.NotNil(t, misses)
	assert.Equal(t, 1.0, misses.GetMetric()[0].GetCounter().GetValue())
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.Captured("Dyer", 1)

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `mdr_captures_total{bin="1",file="Dyer"} 1`)

	requests := findMetric(t, m, "http_requests_total")
	require.NotNil(t, requests, "scrapes are tracked by the middleware")
	assert.Equal(t, 1.0, requests.GetMetric()[0].GetCounter().GetValue())
}

func TestRequestTrackingMiddleware_StatusCode(t *testing.T) {
	m := NewMetrics()
	handler := m.RequestTrackingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	requests := findMetric(t, m, "http_requests_total")
	require.NotNil(t, requests)
	var status string
	for _, lp := range requests.GetMetric()[0].GetLabel() {
		if lp.GetName() == "status" {
			status = lp.GetValue()
		}
	}
	assert.Equal(t, http.StatusText(http.StatusTeapot), status)
}
