package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveValidation(ResultOK, 10*time.Millisecond)
	m.ObserveValidation(ResultOK, 20*time.Millisecond)
	m.ObserveValidation(ResultTimeout, time.Second)
	m.ObserveLookup("REGISTERED_VALID", time.Millisecond)
	m.ObserveHTTPRequest("GET", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.validations.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues(ResultTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("REGISTERED_VALID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "200")))

	count, err := testutil.GatherAndCount(reg, "dataflow_task_validation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveValidation(ResultOK, time.Second)
		m.ObserveLookup("error", time.Second)
		m.ObserveHTTPRequest("GET", 500)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "text").Info("hello", "k", "v")
	assert.True(t, strings.Contains(buf.String(), "msg=hello"))

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, "json").Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	NewLogger(&buf, slog.LevelWarn, "json").Info("dropped")
	assert.Empty(t, buf.String())
}
