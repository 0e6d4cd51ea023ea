package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Features  FeatureConfig   `yaml:"features" envconfig:"FEATURES"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// FeatureConfig holds the business constants used by the feature pipeline.
// They encode policy rather than mechanism, so none of them is inlined.
type FeatureConfig struct {
	// CompetitionDistanceThreshold marks a store as having competition when the
	// nearest competitor is closer than this, in the source field's unit
	CompetitionDistanceThreshold float64 `yaml:"competition_distance_threshold" envconfig:"COMPETITION_DISTANCE_THRESHOLD" validate:"gt=0"`

	// DefaultProfitRate is the share of sales used as profit when no profit column exists.
	// It is a placeholder business rule.
	DefaultProfitRate float64 `yaml:"default_profit_rate" envconfig:"DEFAULT_PROFIT_RATE" validate:"gte=0,lte=1"`

	// QuantileBins is the number of equal-frequency sales buckets
	QuantileBins int `yaml:"quantile_bins" envconfig:"QUANTILE_BINS" validate:"gte=1,lte=100"`

	// BinLabels names the sales buckets from lowest to highest
	BinLabels []string `yaml:"bin_labels" envconfig:"BIN_LABELS" validate:"required,dive,required"`

	// RollingWindow is the trailing window length, in records, of the rolling sales mean
	RollingWindow int `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" validate:"gte=1"`

	// RiskMarginThreshold flags rows whose profit margin falls below it
	RiskMarginThreshold float64 `yaml:"risk_margin_threshold" envconfig:"RISK_MARGIN_THRESHOLD"`

	// Workers bounds the number of store groups processed concurrently
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=256"`
}

// InputConfig controls how input tables are read
type InputConfig struct {
	DateLayout      string `yaml:"date_layout" envconfig:"DATE_LAYOUT" validate:"required"`
	DateErrorPolicy string `yaml:"date_error_policy" envconfig:"DATE_ERROR_POLICY" validate:"oneof=abort reject"`
	Delimiter       string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Clean           bool   `yaml:"clean" envconfig:"CLEAN"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string          `yaml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// DelimiterRune returns the configured field delimiter
func (c InputConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}

// RejectsBadDates reports whether rows with unparseable dates are dropped
// instead of aborting the run
func (c InputConfig) RejectsBadDates() bool {
	return c.DateErrorPolicy == DateErrorPolicyReject
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty path
// searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields carry no envconfig defaults, so unset variables leave the
	// file and default values untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if len(c.Features.BinLabels) != c.Features.QuantileBins {
		return fmt.Errorf("features: %d bin labels configured for %d quantile bins",
			len(c.Features.BinLabels), c.Features.QuantileBins)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging: file_path is required when output is %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"features.yaml",
		"configs/features.yaml",
		"../configs/features.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Features: DefaultFeatureConfig(),
		Input: InputConfig{
			DateLayout:      DefaultDateLayout,
			DateErrorPolicy: DateErrorPolicyAbort,
			Delimiter:       ",",
			Clean:           false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/featurebuilder.log",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
			TraceExporter: "none",
			SampleRatio:   1.0,
		},
	}
}

// DefaultFeatureConfig returns the documented feature defaults
func DefaultFeatureConfig() FeatureConfig {
	labels := make([]string, len(DefaultBinLabels))
	copy(labels, DefaultBinLabels)

	return FeatureConfig{
		CompetitionDistanceThreshold: DefaultCompetitionDistanceThreshold,
		DefaultProfitRate:            DefaultProfitRate,
		QuantileBins:                 DefaultQuantileBins,
		BinLabels:                    labels,
		RollingWindow:                DefaultRollingWindow,
		RiskMarginThreshold:          DefaultRiskMarginThreshold,
		Workers:                      DefaultWorkers,
	}
}
