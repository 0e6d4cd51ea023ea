package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "0.3.0"

	// FeatureSchemaVersion changes whenever the output column contract changes
	FeatureSchemaVersion = "v1"

	// APIVersion is the version of the HTTP API
	APIVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version       string `json:"version"`
	FeatureSchema string `json:"feature_schema"`
	APIVersion    string `json:"api_version"`
	BuildTime     string `json:"build_time"`
	GitCommit     string `json:"git_commit"`
	GoVersion     string `json:"go_version"`
	OS            string `json:"os"`
	Architecture  string `json:"architecture"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:       Version,
		FeatureSchema: FeatureSchemaVersion,
		APIVersion:    APIVersion,
		BuildTime:     BuildTime,
		GitCommit:     GitCommit,
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Architecture:  runtime.GOARCH,
	}
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("featurebuilder v%s", Version)
}

// GetFullVersionString returns a detailed version string
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (schema: %s, built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(), info.FeatureSchema, info.BuildTime, info.GitCommit,
		info.GoVersion, info.OS, info.Architecture)
}
