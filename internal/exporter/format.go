package exporter

import (
	"strconv"
	"time"
)

// DateLayout is the output format of date columns
const DateLayout = "2006-01-02"

// formatFloat formats a float64 with the fewest digits that round-trip,
// never in exponent form
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}
