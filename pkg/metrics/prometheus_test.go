package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.RecordRun(StatusSuccess, 2*time.Second)
	r.RecordRun(StatusSuccess, time.Second)
	r.RecordRun(StatusFailed, time.Second)
	r.RecordMissingData("csp")
	r.RecordSection("profit_alerts", 4)
	r.RecordUtilization(62.5)
	r.RecordStage("csp", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues(StatusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.missingData.WithLabelValues("csp")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.sectionItems.WithLabelValues("profit_alerts")))
	assert.Equal(t, 62.5, testutil.ToFloat64(r.utilization))
	assert.Greater(t, testutil.ToFloat64(r.lastSuccess), 0.0)
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordRun(StatusSuccess, time.Second)
	r.RecordMissingData("cc")
	r.RecordSection("x", 1)
	r.RecordUtilization(1)
	r.RecordStage("x", time.Second)
	assert.NoError(t, r.Push("http://localhost:9091", "job"))
}

func TestHandler(t *testing.T) {
	r := New()
	r.RecordSection("csp_candidates", 3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `wheel_report_items{section="csp_candidates"} 3`))
}

func TestPush(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := New()
	r.RecordRun(StatusSuccess, time.Second)

	require.NoError(t, r.Push(server.URL, "wheel_decision"))
	assert.Equal(t, "/metrics/job/wheel_decision", gotPath)

	assert.NoError(t, r.Push("", "wheel_decision"))
}
