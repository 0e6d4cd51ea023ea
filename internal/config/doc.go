// Package config provides configuration management for the feature builder.
// It loads configuration from multiple sources, validates it, and exposes the
// business constants of the feature pipeline as named, documented values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (features.yaml or configs/features.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern STOREFEATURES_* for namespacing:
//
//	STOREFEATURES_FEATURES_ROLLING_WINDOW=7
//	STOREFEATURES_FEATURES_DEFAULT_PROFIT_RATE=0.1
//	STOREFEATURES_INPUT_DATE_ERROR_POLICY=reject
//	STOREFEATURES_LOGGING_LEVEL=debug
//	STOREFEATURES_CONFIG=/etc/featurebuilder/features.yaml
//
// # Feature Constants
//
// FeatureConfig carries every policy constant of the pipeline:
//
//	CompetitionDistanceThreshold  2000   distance under which a competitor counts
//	DefaultProfitRate             0.1    profit share of sales when no profit column exists
//	QuantileBins / BinLabels      5      equal-frequency sales buckets
//	RollingWindow                 7      trailing records in the rolling sales mean
//	RiskMarginThreshold           0.05   margin below which a row may be flagged as risky
//
// # Validation
//
// Struct constraints are declared with go-playground/validator tags and
// checked by Validate together with cross-field rules such as the number of
// bin labels matching the number of quantile bins.
package config
