package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "Warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "xyzzy", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLogger_JSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Output: &buf, Level: "warn", Format: "json", Service: "riskd"})

	logger.Info("dropped")
	logger.Warn("kept", "rows", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "riskd", record["service"])
	assert.Equal(t, float64(3), record["rows"])
	assert.Same(t, logger.Handler(), slog.Default().Handler())
}

func TestInitLogger_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(LogConfig{Output: &buf}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestInitMetrics_ServesRecordedInstruments(t *testing.T) {
	metrics, err := InitMetrics(MetricsConfig{ServiceName: "riskd"})
	require.NoError(t, err)
	defer metrics.Shutdown(context.Background()) //nolint:errcheck

	counter, err := metrics.Provider.Meter("test").Int64Counter("risk_test_events")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	rec := httptest.NewRecorder()
	metrics.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "risk_test_events")
}
