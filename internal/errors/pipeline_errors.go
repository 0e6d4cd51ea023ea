package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInputSchema = errors.New("input schema error")
	ErrDateParse   = errors.New("date parse error")
	ErrCellParse   = errors.New("cell parse error")
)

// InputSchemaError reports a required column missing from an input table.
// It is always fatal for the run.
type InputSchemaError struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Error implements the error interface
func (e *InputSchemaError) Error() string {
	return fmt.Sprintf("input schema: table %q is missing required column %q", e.Table, e.Column)
}

// Is matches ErrInputSchema
func (e *InputSchemaError) Is(target error) bool {
	return target == ErrInputSchema
}

// NewInputSchemaError creates a missing-column error
func NewInputSchemaError(table, column string) *InputSchemaError {
	return &InputSchemaError{Table: table, Column: column}
}

// DateParseError reports a date cell that does not match the configured layout.
type DateParseError struct {
	Table  string `json:"table"`
	Line   int    `json:"line"`
	Value  string `json:"value"`
	Layout string `json:"layout"`
	Cause  error  `json:"-"`
}

// Error implements the error interface
func (e *DateParseError) Error() string {
	return fmt.Sprintf("date parse: table %q line %d: cannot parse %q with layout %q", e.Table, e.Line, e.Value, e.Layout)
}

// Unwrap returns the underlying time.Parse error
func (e *DateParseError) Unwrap() error {
	return e.Cause
}

// Is matches ErrDateParse
func (e *DateParseError) Is(target error) bool {
	return target == ErrDateParse
}

// CellParseError reports a value that cannot be read as the column's type,
// or a required value that is empty.
type CellParseError struct {
	Table  string `json:"table"`
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Cause  error  `json:"-"`
}

// Error implements the error interface
func (e *CellParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("cell parse: table %q line %d: column %q requires a value", e.Table, e.Line, e.Column)
	}
	return fmt.Sprintf("cell parse: table %q line %d: column %q: invalid value %q", e.Table, e.Line, e.Column, e.Value)
}

// Unwrap returns the underlying strconv error, if any
func (e *CellParseError) Unwrap() error {
	return e.Cause
}

// Is matches ErrCellParse
func (e *CellParseError) Is(target error) bool {
	return target == ErrCellParse
}

// UnmappedCategoryWarning records a categorical value outside the known
// encoding set. It is never returned as an error; the encoding is left nil.
type UnmappedCategoryWarning struct {
	Column string `json:"column"`
	Value  string `json:"value"`
	Rows   int    `json:"rows"`
}

// String renders the warning for logs
func (w UnmappedCategoryWarning) String() string {
	return fmt.Sprintf("unmapped %s value %q on %d rows", w.Column, w.Value, w.Rows)
}

// IsInputError reports whether err is caused by bad input data rather than
// an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInputSchema) || errors.Is(err, ErrDateParse) || errors.Is(err, ErrCellParse)
}
