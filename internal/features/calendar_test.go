package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecomposeDate(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		weekday    int
		week       int
		quarter    int
		weekend    bool
		monthStart bool
		monthEnd   bool
		dayName    string
	}{
		{"friday month end", day(2015, time.July, 31), 4, 31, 3, false, false, true, "Friday"},
		{"saturday month start", day(2015, time.August, 1), 5, 31, 3, true, true, false, "Saturday"},
		{"leap day", day(2016, time.February, 29), 0, 9, 1, false, false, true, "Monday"},
		{"iso week of previous year", day(2021, time.January, 3), 6, 53, 1, true, false, false, "Sunday"},
		{"december", day(2014, time.December, 15), 0, 51, 4, false, false, false, "Monday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := DecomposeDate(tt.date)

			assert.Equal(t, tt.date.Year(), cf.Year)
			assert.Equal(t, int(tt.date.Month()), cf.Month)
			assert.Equal(t, tt.date.Day(), cf.Day)
			assert.Equal(t, tt.weekday, cf.Weekday)
			assert.Equal(t, tt.week, cf.WeekOfYear)
			assert.Equal(t, tt.quarter, cf.Quarter)
			assert.Equal(t, tt.weekend, cf.IsWeekend)
			assert.Equal(t, tt.monthStart, cf.IsMonthStart)
			assert.Equal(t, tt.monthEnd, cf.IsMonthEnd)
			assert.Equal(t, tt.date.Month().String(), cf.MonthName)
			assert.Equal(t, tt.dayName, cf.DayOfWeekName)
		})
	}
}

func TestMondayIndex(t *testing.T) {
	assert.Equal(t, 0, MondayIndex(time.Monday))
	assert.Equal(t, 5, MondayIndex(time.Saturday))
	assert.Equal(t, 6, MondayIndex(time.Sunday))
}
