package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"storefeatures/internal/files"
)

// SheetName is the worksheet holding the feature table
const SheetName = "features"

// XLSXWriter writes the feature table as a single-sheet workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	return &XLSXWriter{logger: logger}
}

// WriteFile writes frame to filePath
func (w *XLSXWriter) WriteFile(ctx context.Context, filePath string, frame *Frame) error {
	return files.WriteAtomic(filePath, func(out io.Writer) error {
		return w.Write(ctx, out, frame)
	})
}

// Write streams the workbook to out
func (w *XLSXWriter) Write(ctx context.Context, out io.Writer, frame *Frame) error {
	f, err := w.build(ctx, frame)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(ctx context.Context, frame *Frame) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, len(frame.Columns))
	for i, c := range frame.Columns {
		header[i] = c.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < frame.Len(); i++ {
		if i%8192 == 0 {
			if err := ctx.Err(); err != nil {
				f.Close()
				return nil, err
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := sw.SetRow(cell, cellValues(frame.Row(i))); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	w.logger.DebugContext(ctx, "workbook built",
		"rows", frame.Len(),
		"columns", len(frame.Columns))
	return f, nil
}

// cellValues converts a row to excelize cell values; nulls stay empty
func cellValues(row []Value) []interface{} {
	cells := make([]interface{}, len(row))
	for k, v := range row {
		if !v.Valid {
			continue
		}
		switch v.Kind {
		case KindInt:
			cells[k] = v.Int
		case KindReal:
			cells[k] = v.Real
		case KindBool:
			cells[k] = v.Bool
		default:
			cells[k] = v.String()
		}
	}
	return cells
}
