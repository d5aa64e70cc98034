package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	errs "perfectscan/pkg/errors"
	"perfectscan/pkg/logger"
	"perfectscan/pkg/search"
)

// CommandReader turns operator input lines into engine commands. It is the
// control surface for plain console runs; the TUI reads keys itself.
//
// Input is line buffered, so commands take effect when the operator presses
// enter. Single letters and full words are both accepted.
type CommandReader struct {
	in       io.Reader
	commands chan<- search.Command
	logger   logger.Logger
}

// NewCommandReader creates a reader that forwards parsed commands to the
// engine's command channel.
func NewCommandReader(in io.Reader, commands chan<- search.Command, log logger.Logger) *CommandReader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CommandReader{in: in, commands: commands, logger: log}
}

// Run reads input lines until EOF, the context is cancelled, or a command
// that ends the run is forwarded. Unrecognized input prints the menu.
//
// When the input is an interactive stdin the underlying read cannot be
// interrupted; callers should run this in a goroutine they do not wait on.
func (r *CommandReader) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			PrintMenu()
			continue
		}
		r.logger.DebugWithFields("operator command", map[string]interface{}{
			"command": cmd.String(),
		})

		select {
		case r.commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}

		// The engine is about to stop; there is nothing more to read.
		if cmd == search.CommandSaveAndExit || cmd == search.CommandQuit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errs.Wrap(errs.ErrorTypeControl, "reading operator input", err)
	}
	return nil
}

// ParseCommand maps an input line to an engine command. Matching is
// case-insensitive and accepts the single-letter shortcuts from the menu as
// well as spelled-out words.
func ParseCommand(line string) (search.Command, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "t", "status":
		return search.CommandShowStatus, true
	case "s", "summary":
		return search.CommandShowSummary, true
	case "c", "save":
		return search.CommandSaveAndContinue, true
	case "x", "exit":
		return search.CommandSaveAndExit, true
	case "q", "quit":
		return search.CommandQuit, true
	}
	return search.CommandNone, false
}

// PrintMenu shows the interactive command list.
func PrintMenu() {
	fmt.Println()
	PrintHighlight("Commands (press enter after each):")
	fmt.Printf("  %s  show current status\n", Cyan("t"))
	fmt.Printf("  %s  list perfect numbers found so far\n", Cyan("s"))
	fmt.Printf("  %s  save checkpoint and continue\n", Cyan("c"))
	fmt.Printf("  %s  save checkpoint and exit\n", Cyan("x"))
	fmt.Printf("  %s  quit without saving\n", Cyan("q"))
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
// Piped or redirected input disables the interactive command reader.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
// The discovery bell stays quiet when output is redirected.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
