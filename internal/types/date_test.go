package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthWindow(t *testing.T) {
	at := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)
	start, end := MonthWindow(at)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthWindowDecemberRollsOver(t *testing.T) {
	at := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	start, end := MonthWindow(at)

	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthWindowNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	// 02:00 on the 1st in UTC+5 is still the previous month in UTC.
	at := time.Date(2024, time.June, 1, 2, 0, 0, 0, zone)
	start, _ := MonthWindow(at)

	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), start)
}
