package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefeatures/internal/config"
	"storefeatures/internal/infrastructure"
	"storefeatures/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer infrastructure.CloseLogFile()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// globalOptions are the flags shared by every command
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Derive per-store sales features from daily observations and store metadata",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default features.yaml or configs/features.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(buildCmd(opts), cleanCmd(opts), serveCmd(opts))
	return root
}

// load reads the configuration and initializes the global logger
func (o *globalOptions) load(mutate func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
