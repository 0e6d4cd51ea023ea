package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"storefeatures/pkg/contracts"
)

// HealthService reports process health and build information
type HealthService struct {
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// VersionResponse is the build information plus process uptime
type VersionResponse struct {
	contracts.VersionInfo
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`
}

// NewHealthService creates a new health service
func NewHealthService(logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() VersionResponse {
	return VersionResponse{
		VersionInfo:   contracts.GetVersionInfo(),
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		StartTime:     hs.startTime.Format(time.RFC3339),
	}
}
