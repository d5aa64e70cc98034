package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"perfectscan/pkg/search"
)

// TUI wraps the bubbletea program that renders a running scan full screen.
type TUI struct {
	program *tea.Program
}

// New creates the interface. Keystroke commands are forwarded to the
// engine's command channel; st seeds the initial view so resumed runs show
// their prior discoveries immediately.
func New(commands chan<- search.Command, st *search.State) *TUI {
	model := NewModel(commands, st)
	program := tea.NewProgram(&model, tea.WithAltScreen())

	return &TUI{program: program}
}

// Run blocks until the interface exits, which happens when the engine
// publishes its final event or the operator quits.
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// Stop asks the interface to exit.
func (t *TUI) Stop() {
	t.program.Quit()
}

// HandleEvent forwards an engine event to the render loop.
func (t *TUI) HandleEvent(ev search.Event) {
	switch ev := ev.(type) {
	case search.DiscoveryEvent:
		t.program.Send(DiscoveryMsg(ev))
	case search.ProgressEvent:
		t.program.Send(ProgressMsg(ev))
	case search.StatusEvent:
		t.program.Send(StatusMsg(ev))
	case search.SummaryEvent:
		t.program.Send(SummaryMsg(ev))
	case search.CheckpointEvent:
		t.program.Send(CheckpointMsg(ev))
	case search.DoneEvent:
		t.program.Send(DoneMsg(ev))
	}
}
