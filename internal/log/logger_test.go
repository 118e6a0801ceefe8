package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNew_JSONFormatCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentStorage, Writer: &buf})

	logger.Debug("opened", "path", "/tmp/x.db")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "opened", rec["msg"])
	assert.Equal(t, ComponentStorage, rec[FieldComponent])
	assert.Equal(t, "/tmp/x.db", rec["path"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContext(t *testing.T) {
	fallback := FromContext(context.Background())
	assert.Equal(t, "unknown", fallback.Component())

	logger := New(Config{Component: ComponentHTTP, Writer: &bytes.Buffer{}})
	assert.Same(t, logger, FromContext(NewContext(context.Background(), logger)))
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Writer: &buf}))
	ctx := context.Background()

	sl.LogToolCall(ctx, "simulate_tax", "http", true, 3, "")
	sl.LogToolCall(ctx, "view_all_debts", "stdio", false, 1, "storage_unavailable")
	sl.LogError(ctx, "boom", errors.New("disk full"), ComponentStorage, OpCreate, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "cache_hit=true")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], "error_type=storage_unavailable")
	assert.Contains(t, lines[2], `error="disk full"`)
}

func TestStructuredLogger_LogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusServiceUnavailable, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(New(Config{Writer: &buf}))
		req := httptest.NewRequest(http.MethodPost, "/tools/simulate_tax", nil)

		sl.LogHTTPEnd(context.Background(), req, tt.status, 4, "10.0.0.1")

		assert.Contains(t, buf.String(), tt.level, "status %d", tt.status)
		assert.Contains(t, buf.String(), "path=/tools/simulate_tax")
		assert.Contains(t, buf.String(), "client_ip=10.0.0.1")
	}
}
