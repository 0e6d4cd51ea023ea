package exporter

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"storefeatures/internal/files"
)

// CSVOptions configures delimited output
type CSVOptions struct {
	Delimiter rune
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	opts   CSVOptions
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(opts CSVOptions, logger *slog.Logger) *CSVWriter {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &CSVWriter{opts: opts, logger: logger}
}

// WriteFile writes frame to filePath, creating parent directories. The
// file is replaced only once the whole table has been written.
func (w *CSVWriter) WriteFile(ctx context.Context, filePath string, frame *Frame) error {
	return files.WriteAtomic(filePath, func(out io.Writer) error {
		return w.Write(ctx, out, frame)
	})
}

// Write streams frame to out as delimited text
func (w *CSVWriter) Write(ctx context.Context, out io.Writer, frame *Frame) error {
	buffered := bufio.NewWriter(out)

	// Write BOM if requested (helps Excel recognize UTF-8)
	if w.opts.BOMPrefix {
		if _, err := buffered.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(buffered)
	writer.Comma = w.opts.Delimiter

	if err := writer.Write(frame.Header()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < frame.Len(); i++ {
		if i%8192 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := writer.Write(frame.Strings(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	if err := buffered.Flush(); err != nil {
		return err
	}

	w.logger.DebugContext(ctx, "csv written",
		"rows", frame.Len(),
		"columns", len(frame.Columns))
	return nil
}
