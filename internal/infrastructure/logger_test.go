package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefeatures/internal/config"
)

func TestInitializeLogger_File(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Same(t, logger, GetLogger())
}

func TestNewLogger_InjectsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	ctx, runID := NewRunContext(ctx)
	logger.InfoContext(ctx, "run started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-123", entry["trace_id"])
	assert.Equal(t, runID, entry["run_id"])
}

func TestNewLogger_WithAttrsKeepsInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf), "loader")

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loader", entry["component"])
	assert.Equal(t, "abc", entry["trace_id"])
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warning", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, `"msg":"d"`))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, `"msg":"i"`))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, `"msg":"w"`))
		})
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("plain")

	assert.Contains(t, buf.String(), "msg=plain")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetRunID(ctx))

	ctx = EnsureTraceID(ctx)
	first := GetTraceID(ctx)
	assert.Len(t, first, 36)

	// an existing id is kept
	assert.Equal(t, first, GetTraceID(EnsureTraceID(ctx)))

	_, a := NewRunContext(ctx)
	_, b := NewRunContext(ctx)
	assert.NotEqual(t, a, b)
}
