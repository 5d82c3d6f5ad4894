package publishing

import (
	"time"

	"hearth/pkg/timeutil"
)

// TimerColor is the traffic-light classification of a listing's Clear
// Cooperation countdown.
type TimerColor string

const (
	TimerGreen  TimerColor = "GREEN"
	TimerYellow TimerColor = "YELLOW"
	TimerRed    TimerColor = "RED"
)

// TimerStatus is the computed state of a Clear Cooperation countdown. It is
// derived on every read and never persisted.
type TimerStatus struct {
	Status         TimerColor `json:"status"`
	HoursElapsed   int        `json:"hours_elapsed"`
	HoursRemaining int        `json:"hours_remaining"`
}

// EvaluateClearCooperation classifies how close a listing is to its mandatory
// MLS submission deadline. Both boundaries are inclusive: elapsed equal to the
// SLA is RED, elapsed equal to three quarters of it is YELLOW. The inclusivity
// is legally significant and must not be adjusted.
func EvaluateClearCooperation(startedAt time.Time, slaHours int, now time.Time) TimerStatus {
	if now.IsZero() {
		now = time.Now()
	}

	elapsed := timeutil.WholeHoursBetween(startedAt, now)
	remaining := slaHours - elapsed
	if remaining < 0 {
		remaining = 0
	}

	status := TimerGreen
	switch {
	case elapsed >= slaHours:
		status = TimerRed
	case float64(elapsed) >= 0.75*float64(slaHours):
		status = TimerYellow
	}

	return TimerStatus{
		Status:         status,
		HoursElapsed:   elapsed,
		HoursRemaining: remaining,
	}
}
