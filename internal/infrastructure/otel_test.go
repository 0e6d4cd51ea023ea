package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"storefeatures/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		EnableTracing: true,
		EnableMetrics: true,
		TraceExporter: "stdout",
		SampleRatio:   0.5,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.NotEmpty(t, cfg.ServiceVersion)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, 0.5, cfg.SampleRatio)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: ServiceName, TraceExporter: "none"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Nil(t, providers.PrometheusHTTP)

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{EnableTracing: true, TraceExporter: "jaeger"}, discardLogger())
	assert.Error(t, err)
}

func TestPrometheusEndpoint_ExposesPipelineMetrics(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   ServiceName,
		EnableMetrics: true,
		TraceExporter: "none",
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRun(ctx, RunOutcome{Source: "cli", Rows: 7, Rejected: 1, Duration: 20 * time.Millisecond})
	metrics.RecordHTTPRequest(ctx, "/api/health", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "feature_runs_total")
	assert.Contains(t, body, "feature_rows_processed_total")
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordRun(context.Background(), RunOutcome{Source: "cli"})
		m.RecordHTTPRequest(context.Background(), "/", http.MethodGet, 200, 0)
	})
}

func TestNewPipelineMetrics_Noop(t *testing.T) {
	m, err := NewPipelineMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordRun(context.Background(), RunOutcome{Source: "http", Rows: 3})
	})
}
