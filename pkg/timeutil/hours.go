// Package timeutil provides the single whole-hour arithmetic used by every
// SLA calculation. Publishing preflight and the Clear Cooperation timer must
// agree on boundary behavior, so both call WholeHoursBetween instead of doing
// their own date math.
package timeutil

import "time"

// WholeHoursBetween returns the number of complete hours elapsed from start
// to end, truncated toward zero and clamped at zero when end precedes start.
func WholeHoursBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Hour)
}

// HourInWindow reports whether hour (0-23) falls inside the window
// [start, end). A window with start == end never matches; a window whose
// start is after its end wraps past midnight.
func HourInWindow(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
