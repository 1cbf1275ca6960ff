package utils

import "time"

const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into midnight local time, matching how
// check-in timestamps are persisted.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, value, time.Local)
}

// EndOfDay returns the last whole second of the given day, so day-granular
// range filters are inclusive on both ends.
func EndOfDay(day time.Time) time.Time {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start.Add(24*time.Hour - time.Second)
}
