package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"perfectscan/pkg/search"
)

// foundEntry is one row of the discoveries panel. Entries restored from a
// checkpoint have no notation; live discoveries carry their cursor.
type foundEntry struct {
	Ordinal  int
	Value    uint32
	Notation string
}

// Model is the bubbletea model for a running scan. All mutation happens on
// the program goroutine: engine events arrive as messages via program.Send,
// so no locking is needed.
type Model struct {
	// UI components
	spinner spinner.Model
	bar     progress.Model

	// Commands typed by the operator are forwarded here. Sends never
	// block; if the engine is not draining, the keystroke is dropped.
	commands chan<- search.Command

	// Scan state, updated from engine events. The cursor is the position
	// being worked on, one past the last tested candidate.
	cursor      search.Cursor
	position    int
	tested      uint64
	rate        float64
	nextOrdinal int
	found       []foundEntry

	// Checkpoint state
	saves       int
	lastSave    time.Time
	lastTrigger search.CheckpointTrigger
	saveErr     error

	// Session clock
	runStart    time.Time
	baseElapsed float64

	// UI state
	width          int
	height         int
	showHelp       bool
	done           bool
	reason         search.StopReason
	logMessages    []LogMessage
	maxLogMessages int
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a model seeded from the scan state, so a resumed run
// shows its prior discoveries and position immediately.
func NewModel(commands chan<- search.Command, st *search.State) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	m := Model{
		spinner:        s,
		bar:            bar,
		commands:       commands,
		runStart:       time.Now(),
		nextOrdinal:    1,
		logMessages:    []LogMessage{},
		maxLogMessages: 50,
	}

	if st != nil {
		for i, v := range st.Results {
			m.found = append(m.found, foundEntry{Ordinal: i + 1, Value: v})
		}
		m.nextOrdinal = len(st.Results) + 1
		m.cursor = st.Cursor
		m.position = st.Cursor.Index()
		m.baseElapsed = st.ElapsedSeconds
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m *Model) applyProgress(ev ProgressMsg) {
	m.cursor = ev.Cursor
	m.position = ev.Cursor.Index()
	m.tested = ev.Tested
	m.rate = ev.Rate
}

func (m *Model) applyDiscovery(ev DiscoveryMsg) {
	m.found = append(m.found, foundEntry{
		Ordinal:  ev.Ordinal,
		Value:    ev.Value,
		Notation: ev.Cursor.String(),
	})
	m.nextOrdinal = ev.Ordinal + 1
	m.addLogMessage("SUCCESS", fmt.Sprintf("perfect #%d: %d = %s", ev.Ordinal, ev.Value, ev.Cursor.String()))
}

func (m *Model) applyStatus(ev StatusMsg) {
	m.addLogMessage("INFO", fmt.Sprintf("currently at %d, working on perfect #%d, tested %d this run",
		ev.Candidate, ev.NextOrdinal, ev.Tested))
}

func (m *Model) applySummary(ev SummaryMsg) {
	if len(ev.Values) == 0 {
		m.addLogMessage("INFO", "no perfect numbers found yet")
		return
	}
	msg := fmt.Sprintf("%d found:", len(ev.Values))
	for _, v := range ev.Values {
		msg += fmt.Sprintf(" %d", v)
	}
	m.addLogMessage("INFO", msg)
}

func (m *Model) applyCheckpoint(ev CheckpointMsg) {
	m.saves++
	m.lastSave = time.Now()
	m.lastTrigger = ev.Trigger
	m.saveErr = ev.Err
	if ev.Err != nil {
		m.addLogMessage("ERROR", "checkpoint save failed: "+ev.Err.Error())
		return
	}
	m.addLogMessage("INFO", "checkpoint saved ("+ev.Trigger.String()+")")
}

func (m *Model) applyDone(ev DoneMsg) {
	m.done = true
	m.reason = ev.Reason
	switch ev.Reason {
	case search.StopCompleted:
		m.addLogMessage("SUCCESS", fmt.Sprintf("search space exhausted, %d perfect numbers", ev.Found))
	case search.StopQuit:
		m.addLogMessage("WARN", "stopped without saving")
	default:
		m.addLogMessage("INFO", "stopped, progress saved")
	}
}

// addLogMessage appends a log entry, keeping only the most recent ones.
func (m *Model) addLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   logLevelColor(level),
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// send forwards an operator command without blocking the render loop.
func (m *Model) send(cmd search.Command) {
	if m.commands == nil {
		return
	}
	select {
	case m.commands <- cmd:
	default:
	}
}

// elapsedSeconds is the cumulative scan time shown in the stats panel.
func (m Model) elapsedSeconds() float64 {
	return m.baseElapsed + time.Since(m.runStart).Seconds()
}
