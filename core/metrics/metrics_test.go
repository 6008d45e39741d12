package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", 0, time.Second)
	m.IncRetry("GET")
	m.ObserveResult("denylist", "updated")
	m.ObserveResult("denylist", "updated")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries.WithLabelValues("GET")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.results.WithLabelValues("denylist", "updated")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", 200, time.Millisecond)
		m.IncRetry("GET")
		m.ObserveResult("allowlist", "error")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveResult("allowlist", "no_change")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "url_policy_sync_reconciliations_total")
}
