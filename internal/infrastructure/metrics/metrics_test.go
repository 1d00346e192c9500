package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveUpload("http", "success")
	m.ObserveUpload("http", "success")
	m.ObserveUpload("telegram", "decode_error")
	m.ObserveDefect("cold_solder")

	require.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("http", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("telegram", "decode_error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.defects.WithLabelValues("cold_solder")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveUpload("http", "internal_error")
	m.ObserveDefect("x")
	m.ObserveStage("decode", time.Millisecond)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveStage("preprocess", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, string(body), `pcb_inspection_duration_seconds_count{stage="preprocess"} 1`)
}
