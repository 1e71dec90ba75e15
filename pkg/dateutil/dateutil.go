package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used on every boundary (CLI, HTTP, YAML)
const DateLayout = "2006-01-02"

// Date builds a UTC calendar date at midnight
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly drops the clock and zone from t, keeping its calendar date
func DateOnly(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the number of whole calendar days from `from` to `to`.
// Negative when `to` is earlier. Time of day and zone are ignored.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// QuarterOf returns the calendar quarter (1-4) containing the month
func QuarterOf(month time.Month) int {
	return (int(month)-1)/3 + 1
}

// QuarterStart returns the first day of quarter q in year
func QuarterStart(year, q int) time.Time {
	return Date(year, time.Month((q-1)*3+1), 1)
}

// QuarterEnd returns the last day of quarter q in year
func QuarterEnd(year, q int) time.Time {
	return QuarterStart(year, q).AddDate(0, 3, -1)
}
