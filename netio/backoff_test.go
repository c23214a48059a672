package netio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelaySchedule(t *testing.T) {
	b := BackoffConfig{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2.0}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 5, want: 10 * time.Second}, // capped
		{attempt: 6, want: 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestBackoffDelayFormula(t *testing.T) {
	b := BackoffConfig{Initial: 100 * time.Millisecond, Max: time.Hour, Multiplier: 1.5}

	want := float64(b.Initial)
	for attempt := 1; attempt <= 8; attempt++ {
		assert.InDelta(t, want, float64(b.Delay(attempt)), 1, "attempt %d", attempt)
		want *= b.Multiplier
	}
}

func TestBackoffDelayClampsAttempt(t *testing.T) {
	b := DefaultBackoff()
	assert.Equal(t, b.Initial, b.Delay(0))
	assert.Equal(t, b.Initial, b.Delay(-3))
}
