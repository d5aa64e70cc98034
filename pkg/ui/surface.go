package ui

import "perfectscan/pkg/search"

// Surface renders engine events for the operator. The plain console
// display and the full-screen TUI both satisfy it, so the command layer
// fans events to whichever one the run is using.
type Surface interface {
	HandleEvent(ev search.Event)
}
