package ui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"perfectscan/pkg/search"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"

	barWidth = 20
)

// ScanDisplay is the plain console rendering of a running scan. Progress is
// drawn as a single rewritten line; discoveries, status replies, and the
// final summary break onto their own lines.
type ScanDisplay struct {
	mu       sync.Mutex
	quiet    bool
	total    int
	lineOpen bool
}

var _ Surface = (*ScanDisplay)(nil)

// NewScanDisplay creates a display. In quiet mode only discoveries, save
// failures, and the final summary are printed.
func NewScanDisplay(quiet bool) *ScanDisplay {
	return &ScanDisplay{
		quiet: quiet,
		total: search.CandidateCount,
	}
}

// HandleEvent renders a single engine event.
func (d *ScanDisplay) HandleEvent(ev search.Event) {
	switch ev := ev.(type) {
	case search.DiscoveryEvent:
		d.showDiscovery(ev)
	case search.ProgressEvent:
		d.showProgress(ev)
	case search.StatusEvent:
		d.showStatus(ev)
	case search.SummaryEvent:
		d.showSummary(ev)
	case search.CheckpointEvent:
		d.showCheckpoint(ev)
	case search.DoneEvent:
		d.showDone(ev)
	}
}

func (d *ScanDisplay) showProgress(ev search.ProgressEvent) {
	if d.quiet {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	line := fmt.Sprintf("%s %s  at %d  found %d  %.0f/s",
		renderBar(ev.Cursor.Index(), d.total, barWidth),
		Dim(FormatElapsed(ev.ElapsedSeconds)),
		ev.Candidate,
		ev.Found,
		ev.Rate,
	)
	// Clear the previous line before rewriting it.
	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 100), line)
	d.lineOpen = true
}

func (d *ScanDisplay) showDiscovery(ev search.DiscoveryEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakLine()

	fmt.Printf("%s  %s = %s  after %s\n",
		Green(fmt.Sprintf("perfect #%d", ev.Ordinal)),
		Yellow(strconv.FormatUint(uint64(ev.Value), 10)),
		Cyan(ev.Cursor.String()),
		FormatElapsed(ev.ElapsedSeconds),
	)
}

func (d *ScanDisplay) showStatus(ev search.StatusEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakLine()

	fmt.Println(Cyan(StatusLine(ev.Candidate, ev.NextOrdinal)))
	fmt.Printf("  tested %d candidates this run, %d found, elapsed %s\n",
		ev.Tested, ev.Found, FormatElapsed(ev.ElapsedSeconds))
}

func (d *ScanDisplay) showSummary(ev search.SummaryEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakLine()

	if len(ev.Values) == 0 {
		PrintWarning("No perfect numbers found yet")
		return
	}
	PrintHighlight(fmt.Sprintf("Perfect numbers found so far: %d", len(ev.Values)))
	for i, v := range ev.Values {
		fmt.Printf("  #%d  %s\n", i+1, Yellow(strconv.FormatUint(uint64(v), 10)))
	}
	fmt.Printf("  currently at %d, elapsed %s\n", ev.Candidate, FormatElapsed(ev.ElapsedSeconds))
}

func (d *ScanDisplay) showCheckpoint(ev search.CheckpointEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ev.Err != nil {
		d.breakLine()
		PrintError("checkpoint save failed", ev.Err)
		return
	}
	if d.quiet {
		return
	}
	d.breakLine()
	fmt.Printf("%s  %d found, elapsed %s\n",
		Green("checkpoint saved"), ev.Found, FormatElapsed(ev.ElapsedSeconds))
}

func (d *ScanDisplay) showDone(ev search.DoneEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakLine()

	fmt.Println()
	switch ev.Reason {
	case search.StopCompleted:
		PrintSuccess("Search space exhausted: every 32-bit candidate tested")
	case search.StopSaveExit:
		PrintInfo("Stopped", "progress saved")
	case search.StopQuit:
		PrintWarning("Quit without saving")
	case search.StopCancelled:
		PrintInfo("Interrupted", "progress saved")
	}

	fmt.Printf("  tested   %d candidates\n", ev.Tested)
	fmt.Printf("  found    %d perfect numbers\n", len(ev.Values))
	for i, v := range ev.Values {
		fmt.Printf("    #%d  %s\n", i+1, Yellow(strconv.FormatUint(uint64(v), 10)))
	}
	fmt.Printf("  elapsed  %s\n", FormatElapsed(ev.ElapsedSeconds))
}

// breakLine terminates an open progress line so the next print starts clean.
// Callers must hold d.mu.
func (d *ScanDisplay) breakLine() {
	if d.lineOpen {
		fmt.Println()
		d.lineOpen = false
	}
}

// StatusLine is the position line shown on demand and at startup.
func StatusLine(candidate uint32, nextOrdinal int) string {
	return fmt.Sprintf("Currently at %d, working on perfect #%d", candidate, nextOrdinal)
}

// FormatElapsed renders cumulative scan time as h:mm:ss.mmm.
func FormatElapsed(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// renderBar draws position/total as a fixed-width bar with a percentage.
func renderBar(position, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if position < 0 {
		position = 0
	}
	if position > total {
		position = total
	}
	filled := position * width / total
	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)
	return fmt.Sprintf("[%s] %3d%%", bar, position*100/total)
}
