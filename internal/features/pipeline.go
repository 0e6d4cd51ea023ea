package features

import (
	"context"
	"fmt"
	"log/slog"

	"storefeatures/internal/config"
	"storefeatures/internal/operations"
	"storefeatures/pkg/contracts/domain"
)

// OperationID names feature runs in traces and operation state
const OperationID = "feature_build"

// Pipeline runs the feature stages in order over one Table
type Pipeline struct {
	cfg    config.FeatureConfig
	logger *slog.Logger
	tracer *operations.OperationTracer
}

// NewPipeline creates a pipeline. A nil tracer records nothing.
func NewPipeline(cfg config.FeatureConfig, logger *slog.Logger, tracer *operations.OperationTracer) *Pipeline {
	if tracer == nil {
		tracer = operations.NoopTracer()
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "feature_pipeline")),
		tracer: tracer,
	}
}

// Registry returns the stages in execution order
func (p *Pipeline) Registry() (*operations.Registry[*Table], error) {
	registry := operations.NewRegistry[*Table]()

	steps := []operations.Step[*Table]{
		NewJoinStage(p.logger),
		NewCalendarStage(),
		NewCategoricalStage(p.logger),
		NewPromotionStage(),
		NewCompetitionStage(),
		NewSalesStage(p.cfg, p.logger),
		NewRatiosStage(p.cfg),
		NewFlagsStage(p.cfg, p.logger),
		NewAggregateStage(p.cfg, p.logger),
		NewWindowStage(p.cfg, p.logger),
	}
	for _, s := range steps {
		if err := registry.Register(s); err != nil {
			return nil, fmt.Errorf("register step %s: %w", s.ID(), err)
		}
	}
	return registry, nil
}

// Build joins observations with stores and derives every feature. The
// returned table is sorted by (store, date). The operation state is
// returned even when the run fails.
func (p *Pipeline) Build(ctx context.Context, observations []domain.Observation, stores []domain.Store, schema domain.Schema) (*Table, *operations.OperationState, error) {
	if err := checkFeatureConfig(p.cfg); err != nil {
		return nil, nil, operations.NewFatalError("invalid feature config", err)
	}

	registry, err := p.Registry()
	if err != nil {
		return nil, nil, err
	}

	table := NewTable(observations, stores, schema)
	manager := operations.NewManager(registry, p.logger,
		operations.WithTracer[*Table](p.tracer),
		operations.WithItemCounter(func(t *Table) int64 { return int64(t.Len()) }),
	)

	state, err := manager.Execute(ctx, OperationID, table)
	if err != nil {
		return nil, state, err
	}
	return table, state, nil
}

// checkFeatureConfig rejects settings the stages cannot run with. Config
// loaded through config.Load is already valid; pipelines built from a hand
// made FeatureConfig are not.
func checkFeatureConfig(cfg config.FeatureConfig) error {
	switch {
	case cfg.QuantileBins < 1:
		return fmt.Errorf("quantile_bins must be positive, got %d", cfg.QuantileBins)
	case len(cfg.BinLabels) != cfg.QuantileBins:
		return fmt.Errorf("%d bin labels configured for %d quantile bins", len(cfg.BinLabels), cfg.QuantileBins)
	case cfg.RollingWindow < 1:
		return fmt.Errorf("rolling_window must be positive, got %d", cfg.RollingWindow)
	}
	return nil
}
