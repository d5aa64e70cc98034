package search

import "time"

// Command is an operator request delivered to a running engine. Commands are
// polled between candidate tests, so handling latency is bounded by a single
// divisor scan.
type Command int

const (
	// CommandNone requests nothing and is ignored.
	CommandNone Command = iota
	// CommandShowStatus asks the engine to emit a StatusEvent.
	CommandShowStatus
	// CommandShowSummary asks the engine to emit a SummaryEvent.
	CommandShowSummary
	// CommandSaveAndContinue checkpoints the scan and keeps going.
	CommandSaveAndContinue
	// CommandSaveAndExit checkpoints the scan and stops the run.
	CommandSaveAndExit
	// CommandQuit stops the run without saving.
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandShowStatus:
		return "show_status"
	case CommandShowSummary:
		return "show_summary"
	case CommandSaveAndContinue:
		return "save_and_continue"
	case CommandSaveAndExit:
		return "save_and_exit"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// StopReason explains why a run ended.
type StopReason int

const (
	// StopCompleted means the candidate space was exhausted.
	StopCompleted StopReason = iota
	// StopSaveExit means an operator asked to checkpoint and stop.
	StopSaveExit
	// StopQuit means an operator asked to stop without saving.
	StopQuit
	// StopCancelled means the run context was cancelled, typically by a
	// termination signal. Progress is checkpointed before the run ends.
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopCompleted:
		return "completed"
	case StopSaveExit:
		return "save_and_exit"
	case StopQuit:
		return "quit"
	case StopCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CheckpointTrigger records what caused a checkpoint attempt.
type CheckpointTrigger int

const (
	// TriggerAutosave is the periodic timer save.
	TriggerAutosave CheckpointTrigger = iota
	// TriggerCommand is an operator-requested save.
	TriggerCommand
	// TriggerShutdown is the save performed on context cancellation.
	TriggerShutdown
	// TriggerCompletion is the final save after the space is exhausted.
	TriggerCompletion
)

func (t CheckpointTrigger) String() string {
	switch t {
	case TriggerAutosave:
		return "autosave"
	case TriggerCommand:
		return "command"
	case TriggerShutdown:
		return "shutdown"
	case TriggerCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Event is a notification published by the engine while it scans. Consumers
// receive the concrete types below from Engine.Events.
type Event interface {
	event()
}

// DiscoveryEvent announces a newly found perfect number.
type DiscoveryEvent struct {
	// Ordinal is the 1-based rank of the discovery.
	Ordinal int
	Value   uint32
	// Cursor is the position that produced the value.
	Cursor Cursor
	// ElapsedSeconds is the cumulative scan time at the moment of discovery.
	ElapsedSeconds float64
	FoundAt        time.Time
}

// ProgressEvent reports the scan position at the configured cadence.
type ProgressEvent struct {
	Candidate      uint32
	Cursor         Cursor
	Tested         uint64
	Found          int
	ElapsedSeconds float64
	// Rate is candidates tested per second over this run.
	Rate float64
}

// StatusEvent answers CommandShowStatus with the current position.
type StatusEvent struct {
	Candidate      uint32
	NextOrdinal    int
	Found          int
	Tested         uint64
	ElapsedSeconds float64
}

// SummaryEvent answers CommandShowSummary with everything found so far.
type SummaryEvent struct {
	Values         []uint32
	Candidate      uint32
	ElapsedSeconds float64
}

// CheckpointEvent reports a checkpoint attempt. Err is nil when the save
// succeeded.
type CheckpointEvent struct {
	Trigger        CheckpointTrigger
	Found          int
	ElapsedSeconds float64
	Err            error
}

// DoneEvent is the final event of a run; the event channel closes after it.
type DoneEvent struct {
	Reason         StopReason
	Found          int
	Tested         uint64
	ElapsedSeconds float64
	Values         []uint32
}

func (DiscoveryEvent) event()  {}
func (ProgressEvent) event()   {}
func (StatusEvent) event()     {}
func (SummaryEvent) event()    {}
func (CheckpointEvent) event() {}
func (DoneEvent) event()       {}
