package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Format is an output file format
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// FormatFromPath selects the format by file extension. Unknown extensions
// are written as CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// ContentType returns the HTTP media type of streamed output
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Exporter writes feature frames to files or streams
type Exporter struct {
	csv    *CSVWriter
	xlsx   *XLSXWriter
	sqlite *SQLiteWriter
	logger *slog.Logger
}

// New creates an exporter. delimiter applies to CSV output.
func New(delimiter rune, logger *slog.Logger) *Exporter {
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		csv:    NewCSVWriter(CSVOptions{Delimiter: delimiter}, logger),
		xlsx:   NewXLSXWriter(logger),
		sqlite: NewSQLiteWriter(logger),
		logger: logger,
	}
}

// ExportFile writes frame to path in the format implied by its extension
func (e *Exporter) ExportFile(ctx context.Context, path string, frame *Frame) error {
	start := time.Now()
	format := FormatFromPath(path)

	var err error
	switch format {
	case FormatXLSX:
		err = e.xlsx.WriteFile(ctx, path, frame)
	case FormatSQLite:
		err = e.sqlite.WriteFile(ctx, path, frame)
	default:
		err = e.csv.WriteFile(ctx, path, frame)
	}
	if err != nil {
		return fmt.Errorf("export %s to %s: %w", format, path, err)
	}

	e.logger.InfoContext(ctx, "feature table exported",
		"path", path,
		"format", string(format),
		"rows", frame.Len(),
		"columns", len(frame.Columns),
		"duration", time.Since(start))
	return nil
}

// ExportStream writes frame to out. SQLite cannot be streamed.
func (e *Exporter) ExportStream(ctx context.Context, out io.Writer, format Format, frame *Frame) error {
	switch format {
	case FormatXLSX:
		return e.xlsx.Write(ctx, out, frame)
	case FormatCSV:
		return e.csv.Write(ctx, out, frame)
	default:
		return fmt.Errorf("format %s cannot be streamed", format)
	}
}
