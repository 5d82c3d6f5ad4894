package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWholeHoursBetween(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("truncates partial hours", func(t *testing.T) {
		assert.Equal(t, 2, WholeHoursBetween(base, base.Add(2*time.Hour+59*time.Minute)))
	})

	t.Run("exact hour boundary counts", func(t *testing.T) {
		assert.Equal(t, 3, WholeHoursBetween(base, base.Add(3*time.Hour)))
	})

	t.Run("zero for identical instants", func(t *testing.T) {
		assert.Equal(t, 0, WholeHoursBetween(base, base))
	})

	t.Run("clamps when end precedes start", func(t *testing.T) {
		assert.Equal(t, 0, WholeHoursBetween(base, base.Add(-5*time.Hour)))
	})
}

func TestHourInWindow(t *testing.T) {
	t.Run("degenerate window never matches", func(t *testing.T) {
		for hour := 0; hour < 24; hour++ {
			assert.False(t, HourInWindow(hour, 9, 9), "hour %d", hour)
		}
	})

	t.Run("simple window is half-open", func(t *testing.T) {
		assert.True(t, HourInWindow(9, 9, 17))
		assert.True(t, HourInWindow(16, 9, 17))
		assert.False(t, HourInWindow(17, 9, 17))
		assert.False(t, HourInWindow(8, 9, 17))
	})

	t.Run("wrap-around window spans midnight", func(t *testing.T) {
		// 21:00 to 08:00: late evening and early morning are inside.
		assert.True(t, HourInWindow(22, 21, 8))
		assert.True(t, HourInWindow(7, 21, 8))
		assert.False(t, HourInWindow(9, 21, 8))
		assert.False(t, HourInWindow(20, 21, 8))
	})
}
