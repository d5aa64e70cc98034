package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate limits how often a repeating side effect may fire.
type Gate interface {
	// Allow reports whether the effect may fire now.
	Allow() bool
	// Reset restarts the interval from now.
	Reset()
}

// IntervalGate allows one event per interval. A fresh gate starts closed, so
// the first Allow succeeds only after a full interval has passed. A zero or
// negative interval leaves the gate permanently open.
type IntervalGate struct {
	mu       sync.Mutex
	interval time.Duration
	limiter  *rate.Limiter
}

// NewIntervalGate creates a gate that opens once per interval.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	g := &IntervalGate{interval: interval}
	if interval > 0 {
		g.limiter = newDrainedLimiter(interval)
	}
	return g
}

// Allow reports whether an interval has elapsed since the last allowed event.
func (g *IntervalGate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.limiter == nil {
		return true
	}
	return g.limiter.Allow()
}

// Reset closes the gate for a full interval from now.
func (g *IntervalGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.interval > 0 {
		g.limiter = newDrainedLimiter(g.interval)
	}
}

// newDrainedLimiter builds a single-burst limiter with its initial token
// consumed, so the first Allow waits out one interval.
func newDrainedLimiter(interval time.Duration) *rate.Limiter {
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}

var _ Gate = (*IntervalGate)(nil)
