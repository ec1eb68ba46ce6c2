/*
clock.go - Date and duration utilities

PURPOSE:
  Small time helpers shared by the pay, period, and statistics code:
  day normalization, week/month bucketing anchors, and duration
  display formatting.

GRANULARITY:
  Shifts and breaks carry full timestamps. Pay periods and statistics
  buckets operate at day granularity in UTC; DayOf normalizes a
  timestamp to its date.

SEE ALSO:
  - period.go: Uses DayOf/DaysBetween for window arithmetic
  - stats.go: Uses StartOfWeek/StartOfMonth for bucketing
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY ARITHMETIC
// =============================================================================

// DayOf truncates a timestamp to midnight UTC of its date.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(DayOf(to).Sub(DayOf(from)).Hours() / 24)
}

// StartOfWeek returns midnight of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	d := DayOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// DURATION DISPLAY
// =============================================================================

// FormatSeconds renders a second count as a compact display string:
// "8h 30m", "45m", "0m". Sub-minute remainders are dropped.
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatHours renders a second count as decimal hours: "7.50h".
func FormatHours(seconds int64) string {
	return HoursFromSeconds(seconds).StringFixed(2) + "h"
}
