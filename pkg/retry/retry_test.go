package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "perfectscan/pkg/errors"
	"perfectscan/pkg/logger"
)

func testConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     NewConstantBackoff(time.Millisecond),
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewNopLogger(),
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, testConfig(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeCheckpointWrite, "transient failure")
		}
		return nil
	}, testConfig(5))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3", calls)
	}
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeCheckpointWrite, "disk full")
	}, testConfig(3))

	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3", calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	permanent := errs.New(errs.ErrorTypeCheckpointCorrupt, "bad header")
	err := Do(func() error {
		calls++
		return permanent
	}, testConfig(5))

	if !errors.Is(err, permanent) {
		t.Fatalf("expected the original error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

func TestDoCallsOnRetry(t *testing.T) {
	var attempts []int
	var delays []time.Duration

	cfg := testConfig(5)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		if err == nil {
			t.Error("OnRetry called with a nil error")
		}
		attempts = append(attempts, attempt)
		delays = append(delays, delay)
	}

	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeCheckpointWrite, "transient failure")
		}
		return nil
	}, cfg)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry saw attempts %v, want [1 2]", attempts)
	}
	for i, d := range delays {
		if d != time.Millisecond {
			t.Errorf("OnRetry delay %d = %v, want 1ms", i, d)
		}
	}
}

func TestDoRunsFirstAttemptWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(3)
	cfg.Context = ctx

	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, cfg)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

func TestDoHonorsContextDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := testConfig(0)
	cfg.Context = ctx
	cfg.Backoff = NewConstantBackoff(time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- Do(func() error {
			return errs.New(errs.ErrorTypeCheckpointWrite, "still failing")
		}, cfg)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a cancellation error")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled in the chain, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable type", errs.New(errs.ErrorTypeCheckpointWrite, "x"), true},
		{"permanent type", errs.New(errs.ErrorTypeCheckpointCorrupt, "x"), false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"unclassified", errors.New("who knows"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryIf(tt.err); got != tt.want {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExponentialBackoffGrowth(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   50 * time.Millisecond,
		Multiplier: 2.0,
	}

	if got := eb.NextDelay(1); got != 10*time.Millisecond {
		t.Errorf("NextDelay(1) = %v, want 10ms", got)
	}
	if got := eb.NextDelay(2); got != 20*time.Millisecond {
		t.Errorf("NextDelay(2) = %v, want 20ms", got)
	}
	if got := eb.NextDelay(10); got != 50*time.Millisecond {
		t.Errorf("NextDelay(10) = %v, want the 50ms cap", got)
	}
	if got := eb.NextDelay(0); got != 0 {
		t.Errorf("NextDelay(0) = %v, want 0", got)
	}
}

func TestConstantBackoff(t *testing.T) {
	cb := NewConstantBackoff(25 * time.Millisecond)
	for attempt := 1; attempt <= 3; attempt++ {
		if got := cb.NextDelay(attempt); got != 25*time.Millisecond {
			t.Errorf("NextDelay(%d) = %v, want 25ms", attempt, got)
		}
	}
}

func TestWait(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("Wait with zero delay returned %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait returned %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly on cancellation")
	}
}
