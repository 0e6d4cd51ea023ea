package http

import (
	"context"
	"io"

	"storefeatures/internal/exporter"
	"storefeatures/internal/services"
)

// FeatureServiceInterface defines the feature operations the handler needs
type FeatureServiceInterface interface {
	Build(ctx context.Context, req services.BuildRequest) (*services.BuildResult, error)
	WriteResult(ctx context.Context, out io.Writer, format exporter.Format, result *services.BuildResult) error
}
