// Package ratelimit paces the scan's recurring side effects.
//
// The engine tests candidates as fast as it can; progress reporting and
// autosaving must not. An IntervalGate wraps golang.org/x/time/rate to let
// one event through per configured interval, checked with a non-blocking
// Allow so the scan loop never stalls on pacing.
package ratelimit
