package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"storefeatures/internal/config"
	"storefeatures/internal/infrastructure"
	"storefeatures/internal/operations"
	"storefeatures/internal/services"
)

type buildOptions struct {
	observations string
	stores       string
	out          string
	clean        bool
	datePolicy   string
	workers      int
}

func buildCmd(global *globalOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the feature table from an observations and a stores file",
		Long: `Build joins every observation with its store, derives calendar, categorical,
promotion, competition, sales, ratio, flag, per-store aggregate and lag/rolling
features, and writes one row per observation sorted by store and date.

The output format follows the extension of --out: .csv (default), .xlsx, or
.db/.sqlite for a SQLite database with a "features" table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load(func(c *config.Config) {
				if opts.datePolicy != "" {
					c.Input.DateErrorPolicy = opts.datePolicy
				}
				if opts.workers > 0 {
					c.Features.Workers = opts.workers
				}
			})
			if err != nil {
				return err
			}
			return runBuild(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.observations, "observations", "", "daily observations file (csv or xlsx)")
	cmd.Flags().StringVar(&opts.stores, "stores", "", "store metadata file (csv or xlsx)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (.csv, .xlsx, .db)")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "fill missing cells before deriving features")
	cmd.Flags().StringVar(&opts.datePolicy, "date-errors", "", "abort or reject rows with unparseable dates")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "store groups processed concurrently")
	cmd.MarkFlagRequired("observations")
	cmd.MarkFlagRequired("stores")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runBuild(ctx context.Context, cfg *config.Config, opts *buildOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.GetLogger()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return err
	}

	svc := services.NewFeatureService(cfg, operations.NewOperationTracer(providers, metrics), metrics, logger)
	summary, err := svc.BuildFile(ctx, opts.observations, opts.stores, opts.out, opts.clean)
	if err != nil {
		return err
	}

	printSummary(out, summary)
	return nil
}

func printSummary(out io.Writer, s *services.RunSummary) {
	fmt.Fprintf(out, "wrote %d rows for %d stores to %s in %s\n", s.Rows, s.Stores, s.Output, s.Duration.Round(time.Millisecond))
	if s.Rejected > 0 {
		fmt.Fprintf(out, "rejected %d rows with unparseable dates\n", s.Rejected)
	}
	for _, imp := range s.Imputations {
		fmt.Fprintf(out, "filled %d empty %s cells with %q\n", imp.Rows, imp.Column, imp.Value)
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if len(s.DuplicateStores) > 0 {
		fmt.Fprintf(out, "warning: store ids listed more than once: %v\n", s.DuplicateStores)
	}
}
