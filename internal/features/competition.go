package features

import (
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// CompetitionOpenDate builds the first day of the month a competitor opened.
// It returns nil when either component is missing, not a whole number, or
// out of range.
func CompetitionOpenDate(year, month *float64) *time.Time {
	if year == nil || month == nil {
		return nil
	}

	y, m := *year, *month
	if y != math.Trunc(y) || m != math.Trunc(m) {
		return nil
	}
	if y < 1 || y > 9999 || m < 1 || m > 12 {
		return nil
	}

	open := time.Date(int(y), time.Month(int(m)), 1, 0, 0, 0, 0, time.UTC)
	return &open
}

// CompetitionAgeDays returns the whole days from open to date, clamped at 0.
// It is 0 when open is nil.
func CompetitionAgeDays(date time.Time, open *time.Time) int {
	if open == nil {
		return 0
	}

	days := civilDay(date) - civilDay(*open)
	if days < 0 {
		return 0
	}
	return int(days)
}

// civilDay numbers calendar days; Sub would saturate past ~292 years
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix() / secondsPerDay
}
