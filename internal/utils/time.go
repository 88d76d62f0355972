package utils

import (
	"math"
	"time"
)

// FormatLocal returns the provided time formatted in the given location.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC1123)
}

// DaysBetween counts whole days from a to b, never negative.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a).Hours() / 24
	if d < 0 {
		return 0
	}
	return int(math.Floor(d))
}

// WeeksBetween counts whole weeks from a to b, never negative.
func WeeksBetween(a, b time.Time) int {
	return DaysBetween(a, b) / 7
}
