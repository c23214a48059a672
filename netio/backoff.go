package netio

import (
	"math"
	"time"
)

// BackoffConfig describes the exponential wait schedule applied after
// rate-limit responses. It is a plain value threaded through a single retry
// chain; nothing about it is shared between unrelated requests, which is what
// makes "backoff resets per call" hold structurally.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoff returns the schedule used against both platforms: 1s, 2s,
// 4s, 8s, 16s, capped at 30s.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2.0,
	}
}

// Delay returns the wait before retrying after the given 1-based attempt:
// min(initial * multiplier^(attempt-1), max).
func (b BackoffConfig) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt-1))
	if d > float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}
