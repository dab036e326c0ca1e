package util

import "time"

// PreviousMonth returns the year and month preceding the month that contains now
func PreviousMonth(now time.Time) (int, int) {
	if now.Month() == time.January {
		return now.Year() - 1, 12
	}
	return now.Year(), int(now.Month()) - 1
}

// IsHistoricalMonth reports whether year/month lies before the month that contains now
func IsHistoricalMonth(year, month int, now time.Time) bool {
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

// MonthsElapsed counts the months of a year up to and including month,
// clamped to 0..12. One fixed salary is charged per elapsed month.
func MonthsElapsed(month int) int {
	switch {
	case month < 0:
		return 0
	case month > 12:
		return 12
	}
	return month
}
