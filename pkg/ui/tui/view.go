package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"perfectscan/pkg/search"
)

// View renders the entire TUI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderBanner())

	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderBanner renders the application banner
func (m Model) renderBanner() string {
	banner := "P E R F E C T S C A N\n" +
		"exhaustive perfect number search below 2^32"
	return bannerStyle.Width(m.width).Render(banner)
}

// renderLeftColumn renders the left side of the UI
func (m Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string
	sections = append(sections, m.renderScanPanel(width))
	sections = append(sections, m.renderFoundPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string
	sections = append(sections, m.renderCheckpointPanel(width))
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderScanPanel renders the live scan statistics
func (m Model) renderScanPanel(width int) string {
	title := titleStyle.Render(" SCAN ")

	state := m.spinner.View() + " scanning"
	if m.done {
		switch m.reason {
		case search.StopCompleted:
			state = successStyle.Render("✓ COMPLETE")
		case search.StopQuit:
			state = warningStyle.Render("■ STOPPED (not saved)")
		default:
			state = warningStyle.Render("■ STOPPED")
		}
	}

	bar := m.bar
	bar.Width = width - 8
	if bar.Width < 10 {
		bar.Width = 10
	}
	frac := float64(m.position) / float64(search.CandidateCount)
	if frac > 1 {
		frac = 1
	}

	stats := []string{
		state,
		bar.ViewAs(frac),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Position:"),
			statsValueStyle.Render(fmt.Sprintf("%d of %d candidates", m.position, search.CandidateCount))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("At:"), statsValueStyle.Render(m.candidateLabel())),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Working on:"),
			statsValueStyle.Render(fmt.Sprintf("perfect #%d", m.nextOrdinal))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Tested:"),
			statsValueStyle.Render(fmt.Sprintf("%d this run", m.tested))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Rate:"),
			rateStyle.Render(fmt.Sprintf("%.0f candidates/s", m.rate))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"),
			statsValueStyle.Render(formatDuration(time.Duration(m.elapsedSeconds()*float64(time.Second))))),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// candidateLabel describes the position being worked on.
func (m Model) candidateLabel() string {
	if !m.cursor.Valid() {
		if m.done {
			return "end of space"
		}
		return "starting"
	}
	return fmt.Sprintf("%d = %s", m.cursor.Value(), m.cursor.String())
}

// renderFoundPanel lists the perfect numbers found so far
func (m Model) renderFoundPanel(width int) string {
	title := titleStyle.Render(" PERFECT NUMBERS ")

	if len(m.found) == 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("None found yet")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	var rows []string
	for _, entry := range m.found {
		row := foundItemStyle.Render(fmt.Sprintf("#%d  %d", entry.Ordinal, entry.Value))
		if entry.Notation != "" {
			row += foundNotationStyle.Render("= " + entry.Notation)
		}
		rows = append(rows, row)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderCheckpointPanel renders checkpoint status
func (m Model) renderCheckpointPanel(width int) string {
	title := titleStyle.Render(" CHECKPOINT ")

	var lines []string
	if m.saves == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(dimWhite).Render("No saves yet"))
	} else {
		lines = append(lines,
			fmt.Sprintf("%s %s", statsLabelStyle.Render("Saves:"),
				statsValueStyle.Render(fmt.Sprintf("%d", m.saves))),
			fmt.Sprintf("%s %s", statsLabelStyle.Render("Last save:"),
				statsValueStyle.Render(m.lastSave.Format("15:04:05")+" ("+m.lastTrigger.String()+")")),
		)
		if m.saveErr != nil {
			lines = append(lines, errorStyle.Render("✗ "+m.saveErr.Error()))
		} else {
			lines = append(lines, successStyle.Render("✓ saved"))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderLogsPanel renders the logs panel
func (m Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOGS ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := log.Message

		// Truncate message if too long
		maxMsgLen := width - 25
		if maxMsgLen > 3 && len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(message)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	logsHeight := m.height - 30
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m Model) renderHelp() string {
	help := `
  Keys:
    t        - Show status in the log panel
    s        - List perfect numbers found so far
    c        - Save checkpoint and continue
    x        - Save checkpoint and exit
    q        - Quit without saving
    ctrl+c   - Same as x
    ctrl+l   - Clear logs
    ?        - Toggle this help

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Discovery/Success
    ` + warningStyle.Render("Orange") + `   - Warning
    ` + errorStyle.Render("Red") + `      - Error
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
