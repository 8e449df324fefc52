package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")

	logger.Debug("fetched page", "zone", "ANZ230")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched page", entry["msg"])
	assert.Equal(t, "ANZ230", entry["zone"])
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.PagesFetched.WithLabelValues("cache").Inc()
	m.TiersAssigned.WithLabelValues("Caution").Add(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.PagesFetched.WithLabelValues("cache")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.TiersAssigned.WithLabelValues("Caution")), 0)

	// A second set must not collide with the first.
	assert.NotPanics(t, func() { NewMetricsForTesting() })
}
