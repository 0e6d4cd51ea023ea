package dataprocessing

import (
	"strings"
)

// Table names used in errors and logs
const (
	TableObservations = "observations"
	TableStores       = "stores"
)

// RawTable is a delimited input read as strings, before any typing.
// Header holds normalized column names.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string

	// Lines holds the 1-based source line of each row
	Lines []int
}

var columnReplacer = strings.NewReplacer(" ", "", "-", "", "_", "")

// NormalizeColumnName trims and lower-cases a header and drops spaces,
// hyphens and underscores, so "Competition_Open Since-Year" and
// "competitionopensinceyear" name the same column.
func NormalizeColumnName(name string) string {
	return columnReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// Index returns the position of a normalized column, or -1
func (t *RawTable) Index(column string) int {
	for i, h := range t.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// Line returns the source line of row i
func (t *RawTable) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Cell returns row i column j, or "" when the row is short
func (t *RawTable) Cell(i, j int) string {
	row := t.Rows[i]
	if j < 0 || j >= len(row) {
		return ""
	}
	return row[j]
}

var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"n/a":  true,
	"null": true,
}

// IsNull reports whether a cell counts as missing
func IsNull(cell string) bool {
	return nullTokens[strings.ToLower(strings.TrimSpace(cell))]
}
