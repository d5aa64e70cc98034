package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy computes the delay between attempts.
type BackoffStrategy interface {
	// NextDelay returns the delay to wait before the given retry attempt.
	NextDelay(attempt int) time.Duration
	// Reset returns the strategy to its initial state.
	Reset()
}

// ExponentialBackoff grows the delay by Multiplier after every attempt, with
// jitter so repeated failures do not land in lockstep.
type ExponentialBackoff struct {
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay growth.
	MaxDelay time.Duration
	// Multiplier is the growth factor per attempt.
	Multiplier float64
	// JitterFactor randomizes each delay by up to this fraction (0.0 to 1.0).
	JitterFactor float64
}

// DefaultExponentialBackoff returns growth tuned for local disk hiccups.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// NextDelay calculates the next delay with exponential growth and jitter.
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt-1))
	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	if eb.JitterFactor > 0 {
		jitter := delay * eb.JitterFactor
		delay += (rand.Float64() * 2 * jitter) - jitter
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// Reset is a no-op; the strategy is stateless.
func (eb *ExponentialBackoff) Reset() {}

// ConstantBackoff waits the same delay before every retry.
type ConstantBackoff struct {
	Delay time.Duration
}

// NewConstantBackoff returns a strategy with a fixed delay.
func NewConstantBackoff(delay time.Duration) *ConstantBackoff {
	return &ConstantBackoff{Delay: delay}
}

// NextDelay returns the fixed delay.
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Reset is a no-op; the strategy is stateless.
func (cb *ConstantBackoff) Reset() {}

// Wait sleeps for delay or until ctx is cancelled, whichever comes first.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
