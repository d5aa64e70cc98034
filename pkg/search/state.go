package search

import "github.com/google/uuid"

// knownResultCap pre-sizes the result slice well past the five perfect
// numbers the 32-bit space is known to hold; append grows it regardless.
const knownResultCap = 32

// State is the complete progress of a scan: every perfect number found so
// far, the cumulative elapsed time across runs, and the cursor of the next
// candidate to test. The engine owns it; nothing else may mutate it while a
// run is live.
type State struct {
	// RunID tags the current process run in journal and report rows.
	RunID string

	// Results holds discovered perfect numbers in ascending order.
	Results []uint32

	// ElapsedSeconds accumulates scan time across all runs.
	ElapsedSeconds float64

	// Cursor is the position of the next candidate to test.
	Cursor Cursor

	// TestedCount counts candidates evaluated by this run only.
	TestedCount uint64
}

// NewState returns a fresh State positioned at the start of the sequence.
func NewState() *State {
	return &State{
		RunID:   uuid.New().String(),
		Results: make([]uint32, 0, knownResultCap),
		Cursor:  InitialCursor(),
	}
}

// AppendResult records a discovered perfect number and reports whether it was
// added. Values already present are dropped, so resumed scans that re-derive
// an old discovery do not duplicate it.
func (s *State) AppendResult(value uint32) bool {
	for _, v := range s.Results {
		if v == value {
			return false
		}
	}
	s.Results = append(s.Results, value)
	return true
}

// NextOrdinal is the 1-based rank of the next perfect number to be found.
func (s *State) NextOrdinal() int {
	return len(s.Results) + 1
}
