package utils

import (
	"math"
	"time"
)

// Percentage returns round(100 * part / whole), or 0 when whole is not positive.
// Halves round up.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(whole) + 0.5))
}

// YearProgress reports how much of the given year has elapsed at t, as a
// percentage clamped to [0, 100]. Years entirely in the past are 100, years
// in the future 0.
func YearProgress(t time.Time, year int) float64 {
	switch {
	case t.Year() > year:
		return 100
	case t.Year() < year:
		return 0
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, t.Location())
	pct := float64(t.Sub(start)) / float64(end.Sub(start)) * 100
	return math.Min(100, math.Max(0, pct))
}
