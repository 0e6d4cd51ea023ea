package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"storefeatures/internal/config"
	"storefeatures/internal/dataprocessing"
	apperrors "storefeatures/internal/errors"
	"storefeatures/internal/exporter"
	"storefeatures/internal/features"
	"storefeatures/internal/files"
	"storefeatures/internal/infrastructure"
	"storefeatures/internal/operations"
)

// Run sources reported in metrics
const (
	SourceCLI  = "cli"
	SourceHTTP = "http"
)

// BuildRequest carries the raw input tables of one feature run
type BuildRequest struct {
	Observations *dataprocessing.RawTable
	Stores       *dataprocessing.RawTable

	// Clean fills missing cells before typing. The input config can also
	// switch cleaning on for every run.
	Clean  bool
	Source string
}

// RunSummary describes one finished feature run
type RunSummary struct {
	RunID           string                              `json:"run_id"`
	Rows            int                                 `json:"rows"`
	Stores          int                                 `json:"stores"`
	Rejected        int                                 `json:"rejected"`
	Imputations     []dataprocessing.Imputation         `json:"imputations,omitempty"`
	Warnings        []apperrors.UnmappedCategoryWarning `json:"warnings,omitempty"`
	DuplicateStores []int                               `json:"duplicate_stores,omitempty"`
	Duration        time.Duration                       `json:"duration"`
	Output          string                              `json:"output,omitempty"`
}

// BuildResult is the output of a successful run
type BuildResult struct {
	Table   *features.Table
	Frame   *exporter.Frame
	State   *operations.OperationState
	Summary RunSummary
}

// FeatureService runs the load, clean, feature and export steps for the CLI
// and the HTTP transport
type FeatureService struct {
	cfg      *config.Config
	cleaner  *dataprocessing.Cleaner
	loader   *dataprocessing.Loader
	exporter *exporter.Exporter
	tracer   *operations.OperationTracer
	metrics  *infrastructure.PipelineMetrics
	base     *slog.Logger
	logger   *slog.Logger
}

// NewFeatureService creates a feature service. tracer and metrics may be nil.
func NewFeatureService(cfg *config.Config, tracer *operations.OperationTracer, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *FeatureService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = operations.NoopTracer()
	}

	return &FeatureService{
		cfg:      cfg,
		cleaner:  dataprocessing.NewCleaner(logger),
		loader:   dataprocessing.NewLoader(cfg.Input, logger),
		exporter: exporter.New(cfg.Input.DelimiterRune(), logger),
		tracer:   tracer,
		metrics:  metrics,
		base:     logger,
		logger:   infrastructure.WithComponent(logger, "feature_service"),
	}
}

// ReadInputs reads the observation and store tables from disk
func (s *FeatureService) ReadInputs(observationsPath, storesPath string) (observations, stores *dataprocessing.RawTable, err error) {
	for _, path := range []string{observationsPath, storesPath} {
		if !files.Exists(path) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
	}

	delim := s.cfg.Input.DelimiterRune()
	observations, err = dataprocessing.ReadTable(observationsPath, dataprocessing.TableObservations, delim)
	if err != nil {
		return nil, nil, err
	}
	stores, err = dataprocessing.ReadTable(storesPath, dataprocessing.TableStores, delim)
	if err != nil {
		return nil, nil, err
	}
	return observations, stores, nil
}

// Build types the raw tables and derives every feature. Input errors are
// returned as the loader produced them so callers can tell them apart
// from internal failures.
func (s *FeatureService) Build(ctx context.Context, req BuildRequest) (result *BuildResult, err error) {
	if req.Observations == nil || req.Stores == nil {
		return nil, ErrMissingInput
	}

	ctx, runID := infrastructure.NewRunContext(ctx)
	logger := s.logger.With(slog.String("run_id", runID))
	start := time.Now()
	summary := RunSummary{RunID: runID}

	defer func() {
		summary.Duration = time.Since(start)
		s.metrics.RecordRun(ctx, infrastructure.RunOutcome{
			Source:   sourceOrDefault(req.Source),
			Rows:     summary.Rows,
			Rejected: summary.Rejected,
			Warnings: len(summary.Warnings),
			Duration: summary.Duration,
			Err:      err,
		})
		if result != nil {
			result.Summary = summary
		}
	}()

	if req.Clean || s.cfg.Input.Clean {
		summary.Imputations = append(summary.Imputations, s.cleaner.Clean(ctx, req.Observations)...)
		summary.Imputations = append(summary.Imputations, s.cleaner.Clean(ctx, req.Stores)...)
	}

	ds, err := s.loader.Load(ctx, req.Observations, req.Stores)
	if err != nil {
		logger.WarnContext(ctx, "inputs rejected", "error", err)
		return nil, err
	}
	summary.Rejected = ds.Rejected

	pipeline := features.NewPipeline(s.cfg.Features, s.base.With(slog.String("run_id", runID)), s.tracer)
	table, state, err := pipeline.Build(ctx, ds.Observations, ds.Stores, ds.Schema)
	if err != nil {
		logger.ErrorContext(ctx, "feature run failed", "error", err)
		return nil, fmt.Errorf("feature run %s: %w", runID, err)
	}

	summary.Rows = table.Len()
	summary.Stores = table.StoreCount()
	summary.Warnings = table.Warnings
	summary.DuplicateStores = table.DuplicateStores

	logger.InfoContext(ctx, "feature run completed",
		"rows", summary.Rows,
		"stores", summary.Stores,
		"rejected", summary.Rejected,
		"warnings", len(summary.Warnings),
		"duration", time.Since(start))

	return &BuildResult{
		Table: table,
		Frame: exporter.NewFrame(table.Schema, table.Records),
		State: state,
	}, nil
}

// BuildFile reads both inputs from disk, runs the pipeline and writes the
// feature table to outPath in the format its extension selects
func (s *FeatureService) BuildFile(ctx context.Context, observationsPath, storesPath, outPath string, clean bool) (*RunSummary, error) {
	if outPath == "" {
		return nil, ErrMissingOutput
	}

	observations, stores, err := s.ReadInputs(observationsPath, storesPath)
	if err != nil {
		return nil, err
	}

	result, err := s.Build(ctx, BuildRequest{
		Observations: observations,
		Stores:       stores,
		Clean:        clean,
		Source:       SourceCLI,
	})
	if err != nil {
		return nil, err
	}

	if err := s.exporter.ExportFile(ctx, outPath, result.Frame); err != nil {
		return nil, err
	}
	result.Summary.Output = outPath
	return &result.Summary, nil
}

// WriteResult streams the feature table of result to out
func (s *FeatureService) WriteResult(ctx context.Context, out io.Writer, format exporter.Format, result *BuildResult) error {
	if format == exporter.FormatSQLite {
		return ErrUnsupportedFormat
	}
	return s.exporter.ExportStream(ctx, out, format, result.Frame)
}

// CleanFile fills missing cells of the table at inPath and writes it as
// delimited text to outPath
func (s *FeatureService) CleanFile(ctx context.Context, inPath, outPath, name string) ([]dataprocessing.Imputation, error) {
	if outPath == "" {
		return nil, ErrMissingOutput
	}

	if !files.Exists(inPath) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inPath)
	}

	delim := s.cfg.Input.DelimiterRune()
	table, err := dataprocessing.ReadTable(inPath, name, delim)
	if err != nil {
		return nil, err
	}

	imputations := s.cleaner.Clean(ctx, table)

	if err := files.WriteAtomic(outPath, func(w io.Writer) error {
		return table.WriteCSV(w, delim)
	}); err != nil {
		return nil, fmt.Errorf("failed to write cleaned %s table: %w", name, err)
	}

	s.logger.InfoContext(ctx, "cleaned table written",
		"table", name,
		"path", outPath,
		"rows", len(table.Rows),
		"imputed_columns", len(imputations))
	return imputations, nil
}

func sourceOrDefault(source string) string {
	if source == "" {
		return SourceCLI
	}
	return source
}
