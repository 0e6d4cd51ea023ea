package features

import (
	"time"

	"storefeatures/pkg/contracts/domain"
)

// DecomposeDate derives the calendar attributes of a date. Weekdays are
// numbered from Monday=0 to Sunday=6 and weeks follow ISO 8601.
func DecomposeDate(d time.Time) domain.CalendarFeatures {
	year, month, day := d.Date()
	_, week := d.ISOWeek()
	weekday := MondayIndex(d.Weekday())

	return domain.CalendarFeatures{
		Year:          year,
		Month:         int(month),
		Day:           day,
		Weekday:       weekday,
		WeekOfYear:    week,
		Quarter:       (int(month)-1)/3 + 1,
		IsWeekend:     weekday >= 5,
		IsMonthStart:  day == 1,
		IsMonthEnd:    d.AddDate(0, 0, 1).Month() != month,
		MonthName:     month.String(),
		DayOfWeekName: d.Weekday().String(),
	}
}

// MondayIndex converts a time.Weekday (Sunday=0) to Monday=0 numbering
func MondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
