package features

import (
	"context"
	"fmt"
	"log/slog"

	"storefeatures/internal/config"
	"storefeatures/internal/operations"
)

// Step IDs in execution order
const (
	StepJoin        = "join"
	StepCalendar    = "calendar"
	StepCategorical = "categorical"
	StepPromotion   = "promotion"
	StepCompetition = "competition"
	StepSales       = "sales"
	StepRatios      = "ratios"
	StepFlags       = "flags"
	StepAggregate   = "aggregate"
	StepWindow      = "window"
)

// requireDone fails when any of the listed stages has not run on t
func requireDone(t *Table, stages ...string) error {
	if t == nil {
		return fmt.Errorf("feature table is nil")
	}
	for _, s := range stages {
		if !t.Done(s) {
			return fmt.Errorf("stage %q has not run", s)
		}
	}
	return nil
}

// rowStage applies fn to every record independently
type rowStage struct {
	operations.BaseStage
	requires []string
	fn       func(t *Table, i int)
}

func (s *rowStage) Validate(t *Table) error {
	return requireDone(t, s.requires...)
}

func (s *rowStage) Execute(ctx context.Context, t *Table) error {
	for i := range t.Records {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.fn(t, i)
	}
	t.markDone(s.ID())
	return nil
}

// JoinStage attaches store metadata to each observation
type JoinStage struct {
	operations.BaseStage
	logger *slog.Logger
}

func NewJoinStage(logger *slog.Logger) *JoinStage {
	return &JoinStage{
		BaseStage: operations.NewBaseStage(StepJoin, "Store Join"),
		logger:    logger,
	}
}

func (s *JoinStage) Validate(t *Table) error {
	if t == nil {
		return fmt.Errorf("feature table is nil")
	}
	return nil
}

func (s *JoinStage) Execute(ctx context.Context, t *Table) error {
	t.Records, t.DuplicateStores = Join(t.Observations, t.Stores)

	if len(t.DuplicateStores) > 0 {
		s.logger.WarnContext(ctx, "duplicate store ids fan out observations",
			"store_ids", t.DuplicateStores,
			"observations", len(t.Observations),
			"records", len(t.Records))
	}

	unmatched := 0
	for i := range t.Records {
		if t.Records[i].StoreInfo == nil {
			unmatched++
		}
	}
	if unmatched > 0 {
		s.logger.InfoContext(ctx, "observations without store metadata", "rows", unmatched)
	}

	t.markDone(s.ID())
	return nil
}

// NewCalendarStage decomposes each record's date
func NewCalendarStage() operations.Step[*Table] {
	return &rowStage{
		BaseStage: operations.NewBaseStage(StepCalendar, "Calendar Decomposition"),
		requires:  []string{StepJoin},
		fn: func(t *Table, i int) {
			t.Records[i].Calendar = DecomposeDate(t.Records[i].Date)
		},
	}
}

// CategoricalStage derives season and store category encodings and records
// one warning per unmapped (column, value)
type CategoricalStage struct {
	operations.BaseStage
	logger *slog.Logger
}

func NewCategoricalStage(logger *slog.Logger) *CategoricalStage {
	return &CategoricalStage{
		BaseStage: operations.NewBaseStage(StepCategorical, "Categorical Encoding"),
		logger:    logger,
	}
}

func (s *CategoricalStage) Validate(t *Table) error {
	return requireDone(t, StepJoin)
}

func (s *CategoricalStage) Execute(ctx context.Context, t *Table) error {
	unmapped := make(map[categoryKey]int)
	for i := range t.Records {
		t.Records[i].Category = encodeCategories(&t.Records[i], unmapped)
	}

	before := len(t.Warnings)
	t.addWarnings(unmapped)
	for _, w := range t.Warnings[before:] {
		s.logger.WarnContext(ctx, "unmapped category value",
			"column", w.Column,
			"value", w.Value,
			"rows", w.Rows)
	}

	t.markDone(s.ID())
	return nil
}

// NewPromotionStage evaluates the recurring promotion for each record
func NewPromotionStage() operations.Step[*Table] {
	return &rowStage{
		BaseStage: operations.NewBaseStage(StepPromotion, "Promotion Timing"),
		requires:  []string{StepJoin},
		fn: func(t *Table, i int) {
			rec := &t.Records[i]
			if rec.StoreInfo == nil {
				rec.IsPromo2Active = false
				return
			}
			rec.IsPromo2Active = IsPromo2Active(rec.StoreInfo.Promo2, rec.StoreInfo.PromoInterval, rec.Date)
		},
	}
}

// NewCompetitionStage computes the competitor open date and age
func NewCompetitionStage() operations.Step[*Table] {
	return &rowStage{
		BaseStage: operations.NewBaseStage(StepCompetition, "Competition Age"),
		requires:  []string{StepJoin},
		fn: func(t *Table, i int) {
			rec := &t.Records[i]
			if rec.StoreInfo == nil {
				return
			}
			open := CompetitionOpenDate(rec.StoreInfo.CompetitionOpenSinceYear, rec.StoreInfo.CompetitionOpenSinceMonth)
			rec.Competition.Open = open
			rec.Competition.AgeDays = CompetitionAgeDays(rec.Date, open)
		},
	}
}

// SalesStage transforms sales per row, then cuts the whole table into
// equal-frequency buckets
type SalesStage struct {
	operations.BaseStage
	bins   int
	labels []string
	logger *slog.Logger
}

func NewSalesStage(cfg config.FeatureConfig, logger *slog.Logger) *SalesStage {
	return &SalesStage{
		BaseStage: operations.NewBaseStage(StepSales, "Sales Transform"),
		bins:      cfg.QuantileBins,
		labels:    cfg.BinLabels,
		logger:    logger,
	}
}

func (s *SalesStage) Validate(t *Table) error {
	if len(s.labels) != s.bins {
		return fmt.Errorf("%d bin labels for %d bins", len(s.labels), s.bins)
	}
	return requireDone(t, StepJoin)
}

func (s *SalesStage) Execute(ctx context.Context, t *Table) error {
	values := make([]float64, len(t.Records))
	for i := range t.Records {
		rec := &t.Records[i]
		rec.SalesFeatures.LogSales = LogSales(rec.Sales)
		rec.SalesFeatures.IsNoSales = rec.Sales <= 0
		values[i] = rec.Sales
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// finalize: edges need the full column
	t.Stats.SalesBinEdges = QuantileEdges(values, s.bins)
	for i := range t.Records {
		t.Records[i].SalesFeatures.SalesBin = BinLabel(t.Records[i].Sales, t.Stats.SalesBinEdges, s.labels)
	}

	s.logger.DebugContext(ctx, "sales bin edges computed", "edges", t.Stats.SalesBinEdges)
	t.markDone(s.ID())
	return nil
}

// NewRatiosStage derives guarded ratios and profit
func NewRatiosStage(cfg config.FeatureConfig) operations.Step[*Table] {
	rate := cfg.DefaultProfitRate
	return &rowStage{
		BaseStage: operations.NewBaseStage(StepRatios, "Ratio Derivation"),
		requires:  []string{StepJoin},
		fn: func(t *Table, i int) {
			t.Records[i].Ratios = deriveRatios(&t.Records[i], t.Schema, rate)
		},
	}
}

// FlagsStage computes the global means once, then sets the business flags
type FlagsStage struct {
	operations.BaseStage
	thresholds FlagThresholds
	logger     *slog.Logger
}

func NewFlagsStage(cfg config.FeatureConfig, logger *slog.Logger) *FlagsStage {
	return &FlagsStage{
		BaseStage: operations.NewBaseStage(StepFlags, "Business Flags"),
		thresholds: FlagThresholds{
			CompetitionDistance: cfg.CompetitionDistanceThreshold,
			RiskMargin:          cfg.RiskMarginThreshold,
		},
		logger: logger,
	}
}

func (s *FlagsStage) Validate(t *Table) error {
	return requireDone(t, StepRatios)
}

func (s *FlagsStage) Execute(ctx context.Context, t *Table) error {
	t.Stats.MeanSalesPerCustomer, t.Stats.MeanSales = globalMeans(t.Records)
	s.logger.DebugContext(ctx, "global means computed",
		"mean_sales", t.Stats.MeanSales,
		"mean_sales_per_customer", t.Stats.MeanSalesPerCustomer)

	for i := range t.Records {
		t.Records[i].Flags = deriveFlags(&t.Records[i], t.Schema, t.Stats, s.thresholds)
	}

	t.markDone(s.ID())
	return nil
}

// AggregateStage broadcasts per-store means to every row of the store
type AggregateStage struct {
	operations.BaseStage
	workers int
	logger  *slog.Logger
}

func NewAggregateStage(cfg config.FeatureConfig, logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage: operations.NewBaseStage(StepAggregate, "Store Aggregates"),
		workers:   cfg.Workers,
		logger:    logger,
	}
}

func (s *AggregateStage) Validate(t *Table) error {
	return requireDone(t, StepRatios)
}

func (s *AggregateStage) Execute(ctx context.Context, t *Table) error {
	if err := forEachStore(ctx, t, s.workers, func(idx []int) {
		aggregateStore(t.Records, idx)
	}); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "store aggregates computed", "stores", t.StoreCount())
	t.markDone(s.ID())
	return nil
}

// WindowStage sorts the table by (store, date) and computes lag, percent
// change and rolling mean within each store
type WindowStage struct {
	operations.BaseStage
	window  int
	workers int
	logger  *slog.Logger
}

func NewWindowStage(cfg config.FeatureConfig, logger *slog.Logger) *WindowStage {
	return &WindowStage{
		BaseStage: operations.NewBaseStage(StepWindow, "Temporal Window"),
		window:    cfg.RollingWindow,
		workers:   cfg.Workers,
		logger:    logger,
	}
}

func (s *WindowStage) Validate(t *Table) error {
	if s.window < 1 {
		return fmt.Errorf("rolling window must be positive, got %d", s.window)
	}
	return requireDone(t, StepJoin)
}

func (s *WindowStage) Execute(ctx context.Context, t *Table) error {
	SortByStoreDate(t.Records)

	if err := forEachStore(ctx, t, s.workers, func(idx []int) {
		windowStore(t.Records, idx, s.window)
	}); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "window features computed",
		"stores", t.StoreCount(),
		"window", s.window)
	t.markDone(s.ID())
	return nil
}
