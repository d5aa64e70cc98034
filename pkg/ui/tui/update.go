package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"perfectscan/pkg/search"
)

// Message types for the TUI. Each engine event type has a message alias so
// the wrapper can forward events with a plain conversion.

// ProgressMsg carries a scan position update.
type ProgressMsg search.ProgressEvent

// DiscoveryMsg carries a newly found perfect number.
type DiscoveryMsg search.DiscoveryEvent

// StatusMsg carries the reply to a status command.
type StatusMsg search.StatusEvent

// SummaryMsg carries the reply to a summary command.
type SummaryMsg search.SummaryEvent

// CheckpointMsg carries the outcome of a checkpoint attempt.
type CheckpointMsg search.CheckpointEvent

// DoneMsg is the final message of a run; the interface exits after it.
type DoneMsg search.DoneEvent

// TickMsg is sent periodically to keep the session clock moving.
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		return m, tickCmd()

	case ProgressMsg:
		m.applyProgress(msg)
		return m, nil

	case DiscoveryMsg:
		m.applyDiscovery(msg)
		return m, nil

	case StatusMsg:
		m.applyStatus(msg)
		return m, nil

	case SummaryMsg:
		m.applySummary(msg)
		return m, nil

	case CheckpointMsg:
		m.applyCheckpoint(msg)
		return m, nil

	case DoneMsg:
		m.applyDone(msg)
		return m, tea.Quit
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q":
		m.send(search.CommandQuit)
		m.addLogMessage("WARN", "quitting without saving")
		return m, nil

	case "x", "X":
		m.send(search.CommandSaveAndExit)
		m.addLogMessage("INFO", "saving and exiting")
		return m, nil

	case "ctrl+c":
		// Same as x: checkpoint first, then stop.
		m.send(search.CommandSaveAndExit)
		return m, nil

	case "c", "C":
		m.send(search.CommandSaveAndContinue)
		return m, nil

	case "t", "T":
		m.send(search.CommandShowStatus)
		return m, nil

	case "s", "S":
		m.send(search.CommandShowSummary)
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = []LogMessage{}
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
