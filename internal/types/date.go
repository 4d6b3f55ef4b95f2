package types

import "time"

// MonthWindow returns the [start, end) bounds of the calendar month containing
// t, in UTC. Used for month-scoped usage counters.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
