package ratelimit

import (
	"testing"
	"time"
)

func TestIntervalGateStartsClosed(t *testing.T) {
	g := NewIntervalGate(50 * time.Millisecond)

	if g.Allow() {
		t.Error("fresh gate should hold the first event back")
	}

	time.Sleep(80 * time.Millisecond)
	if !g.Allow() {
		t.Error("expected the gate to open after an interval")
	}
	if g.Allow() {
		t.Error("expected the gate to close again immediately")
	}
}

func TestIntervalGateZeroIntervalAlwaysOpen(t *testing.T) {
	g := NewIntervalGate(0)

	for i := 0; i < 3; i++ {
		if !g.Allow() {
			t.Errorf("call %d should be allowed with a zero interval", i+1)
		}
	}
}

func TestIntervalGateReset(t *testing.T) {
	g := NewIntervalGate(50 * time.Millisecond)

	time.Sleep(80 * time.Millisecond)
	if !g.Allow() {
		t.Fatal("expected the gate to open after an interval")
	}

	g.Reset()
	if g.Allow() {
		t.Error("reset gate should hold events for a full interval")
	}

	time.Sleep(80 * time.Millisecond)
	if !g.Allow() {
		t.Error("expected the gate to open again after reset")
	}
}
