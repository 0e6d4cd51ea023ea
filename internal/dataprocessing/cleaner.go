package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"storefeatures/internal/config"
)

// Imputation describes the nulls filled in one column
type Imputation struct {
	Column  string `json:"column"`
	Rows    int    `json:"rows"`
	Value   string `json:"value"`
	Numeric bool   `json:"numeric"`
}

// Cleaner normalizes headers and fills missing cells. A column whose present
// cells are all numeric gets their median; any other column gets the
// MissingCategory sentinel. Columns with no present cell are left alone.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// Clean fills nulls in t in place and reports what it changed, in column order
func (c *Cleaner) Clean(ctx context.Context, t *RawTable) []Imputation {
	var imputations []Imputation

	for j, column := range t.Header {
		var (
			nulls   []int
			numbers []float64
			numeric = true
		)
		for i := range t.Rows {
			cell := t.Cell(i, j)
			if IsNull(cell) {
				nulls = append(nulls, i)
				continue
			}
			if !numeric {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				numeric = false
				continue
			}
			numbers = append(numbers, v)
		}

		if len(nulls) == 0 || len(nulls) == len(t.Rows) {
			continue
		}

		fill := config.MissingCategory
		if numeric {
			fill = strconv.FormatFloat(Median(numbers), 'f', -1, 64)
		}
		for _, i := range nulls {
			setCell(t, i, j, fill)
		}

		imputations = append(imputations, Imputation{
			Column:  column,
			Rows:    len(nulls),
			Value:   fill,
			Numeric: numeric,
		})
		c.logger.DebugContext(ctx, "imputed column",
			"table", t.Name,
			"column", column,
			"rows", len(nulls),
			"value", fill)
	}

	c.logger.InfoContext(ctx, "table cleaned",
		"table", t.Name,
		"rows", len(t.Rows),
		"columns_imputed", len(imputations))
	return imputations
}

// setCell writes row i column j, growing a short row
func setCell(t *RawTable, i, j int, value string) {
	row := t.Rows[i]
	for len(row) <= j {
		row = append(row, "")
	}
	row[j] = value
	t.Rows[i] = row
}

// Median returns the median of values, averaging the middle pair for an
// even count. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
