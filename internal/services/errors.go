package services

import "errors"

// Feature service errors
var (
	// Input errors
	ErrMissingInput  = errors.New("observations and stores tables are both required")
	ErrMissingOutput = errors.New("output path is required")
	ErrInputNotFound = errors.New("input file not found")

	// Output errors
	ErrUnsupportedFormat = errors.New("output format cannot be streamed")
)
