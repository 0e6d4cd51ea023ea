package config

// Application constants
const (
	AppName = "featurebuilder"

	// EnvPrefix namespaces every environment variable, e.g. STOREFEATURES_FEATURES_ROLLING_WINDOW
	EnvPrefix = "STOREFEATURES"

	// Feature defaults
	DefaultCompetitionDistanceThreshold = 2000.0
	DefaultProfitRate                   = 0.1
	DefaultQuantileBins                 = 5
	DefaultRollingWindow                = 7
	DefaultRiskMarginThreshold          = 0.05
	DefaultWorkers                      = 4

	// Input defaults
	DefaultDateLayout     = "2006-01-02"
	DateErrorPolicyAbort  = "abort"
	DateErrorPolicyReject = "reject"

	// MissingCategory is the sentinel the cleaner writes into empty text cells
	MissingCategory = "None"

	DefaultMaxUploadBytes = 256 << 20
)

// DefaultBinLabels names the five default sales buckets from lowest to highest
var DefaultBinLabels = []string{"verylow", "low", "medium", "high", "veryhigh"}
