package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"storefeatures/internal/config"
	"storefeatures/pkg/contracts"
)

const (
	ServiceName = "featurebuilder"
	MeterName   = "storefeatures"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout" or "none"
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelConfigFrom maps the telemetry section of the application config
func OTelConfigFrom(cfg config.TelemetryConfig) *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    env,
		TraceExporter:  cfg.TraceExporter,
		EnableMetrics:  cfg.EnableMetrics,
		EnableTracing:  cfg.EnableTracing,
		SampleRatio:    cfg.SampleRatio,
	}
}

// OTelProviders holds the OpenTelemetry providers. Tracer and Meter are
// always usable; they are no-ops when the matching signal is disabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel sets up tracing and metrics. Metrics are exported through a
// dedicated Prometheus registry served by PrometheusHTTP.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	logger.InfoContext(ctx, "initializing opentelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if cfg.EnableTracing {
		if err := initializeTracing(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

func initializeTracing(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		// stdout is reserved for command output
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)
	return nil
}

func initializeMetrics(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetMeterProvider(mp)
	return nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// PipelineMetrics holds the feature run instruments
type PipelineMetrics struct {
	RunsTotal       metric.Int64Counter
	RunDuration     metric.Float64Histogram
	RowsProcessed   metric.Int64Counter
	RowsRejected    metric.Int64Counter
	StepsTotal      metric.Int64Counter
	StepDuration    metric.Float64Histogram
	StepErrors      metric.Int64Counter
	UnmappedWarning metric.Int64Counter

	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

// NewPipelineMetrics registers the feature run instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.RunsTotal, err = meter.Int64Counter("feature_runs_total",
		metric.WithDescription("Total number of feature runs")); err != nil {
		return nil, err
	}
	if m.RunDuration, err = meter.Float64Histogram("feature_run_duration_seconds",
		metric.WithDescription("Feature run duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.RowsProcessed, err = meter.Int64Counter("feature_rows_processed_total",
		metric.WithDescription("Observation rows written to feature tables")); err != nil {
		return nil, err
	}
	if m.RowsRejected, err = meter.Int64Counter("feature_rows_rejected_total",
		metric.WithDescription("Observation rows dropped for unparseable dates")); err != nil {
		return nil, err
	}
	if m.StepsTotal, err = meter.Int64Counter("feature_steps_total",
		metric.WithDescription("Total number of pipeline steps executed")); err != nil {
		return nil, err
	}
	if m.StepDuration, err = meter.Float64Histogram("feature_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.StepErrors, err = meter.Int64Counter("feature_step_errors_total",
		metric.WithDescription("Total number of failed pipeline steps")); err != nil {
		return nil, err
	}
	if m.UnmappedWarning, err = meter.Int64Counter("feature_unmapped_categories_total",
		metric.WithDescription("Distinct categorical values without an encoding")); err != nil {
		return nil, err
	}
	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return m, nil
}

// RunOutcome summarizes one finished run for metrics
type RunOutcome struct {
	Source   string // "cli" or "http"
	Rows     int
	Rejected int
	Warnings int
	Duration time.Duration
	Err      error
}

// RecordRun records one finished feature run
func (m *PipelineMetrics) RecordRun(ctx context.Context, out RunOutcome) {
	if m == nil {
		return
	}

	status := "success"
	if out.Err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("source", out.Source),
		attribute.String("status", status),
	)

	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, out.Duration.Seconds(), attrs)
	if out.Err == nil {
		m.RowsProcessed.Add(ctx, int64(out.Rows), metric.WithAttributes(attribute.String("source", out.Source)))
	}
	m.RowsRejected.Add(ctx, int64(out.Rejected), metric.WithAttributes(attribute.String("source", out.Source)))
	m.UnmappedWarning.Add(ctx, int64(out.Warnings))
}

// RecordHTTPRequest records one served request
func (m *PipelineMetrics) RecordHTTPRequest(ctx context.Context, route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
