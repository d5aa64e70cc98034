package ui

import (
	"context"
	"strings"
	"testing"

	"perfectscan/pkg/logger"
	"perfectscan/pkg/search"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want search.Command
		ok   bool
	}{
		{"t", search.CommandShowStatus, true},
		{"T", search.CommandShowStatus, true},
		{"status", search.CommandShowStatus, true},
		{"s", search.CommandShowSummary, true},
		{"SUMMARY", search.CommandShowSummary, true},
		{"c", search.CommandSaveAndContinue, true},
		{"save", search.CommandSaveAndContinue, true},
		{"x", search.CommandSaveAndExit, true},
		{"exit", search.CommandSaveAndExit, true},
		{"q", search.CommandQuit, true},
		{"quit", search.CommandQuit, true},
		{"  x  ", search.CommandSaveAndExit, true},
		{"help", search.CommandNone, false},
		{"ts", search.CommandNone, false},
		{"", search.CommandNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseCommand(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCommand(%q) = (%v, %v), want (%v, %v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCommandReaderForwardsCommands(t *testing.T) {
	commands := make(chan search.Command, 8)
	reader := NewCommandReader(strings.NewReader("status\nbogus\n\nq\n"), commands, logger.NewNopLogger())

	if err := reader.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	close(commands)

	var got []search.Command
	for cmd := range commands {
		got = append(got, cmd)
	}
	want := []search.Command{search.CommandShowStatus, search.CommandQuit}
	if len(got) != len(want) {
		t.Fatalf("forwarded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCommandReaderStopsAfterExit(t *testing.T) {
	commands := make(chan search.Command, 8)
	reader := NewCommandReader(strings.NewReader("x\nt\nt\n"), commands, logger.NewNopLogger())

	if err := reader.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	close(commands)

	var got []search.Command
	for cmd := range commands {
		got = append(got, cmd)
	}
	if len(got) != 1 || got[0] != search.CommandSaveAndExit {
		t.Fatalf("forwarded %v, want only save-and-exit", got)
	}
}

func TestCommandReaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	commands := make(chan search.Command, 8)
	reader := NewCommandReader(strings.NewReader("t\n"), commands, logger.NewNopLogger())

	if err := reader.Run(ctx); err != context.Canceled {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(commands) != 0 {
		t.Fatalf("expected no forwarded commands, got %d", len(commands))
	}
}

func TestCommandReaderEOFWithoutCommands(t *testing.T) {
	commands := make(chan search.Command, 8)
	reader := NewCommandReader(strings.NewReader(""), commands, logger.NewNopLogger())

	if err := reader.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(commands) != 0 {
		t.Fatalf("expected no forwarded commands, got %d", len(commands))
	}
}
