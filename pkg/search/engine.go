package search

import (
	"context"
	"time"

	errs "perfectscan/pkg/errors"
	"perfectscan/pkg/logger"
	"perfectscan/pkg/ratelimit"
	"perfectscan/pkg/retry"
)

const (
	defaultEventBuffer = 64
	commandBuffer      = 8
	saveAttempts       = 3
	saveRetryDelay     = 100 * time.Millisecond
)

// Saver persists scan state. The engine calls Save from its own goroutine
// only, never concurrently with itself.
type Saver interface {
	Save(st *State) error
}

// Options configure an Engine.
type Options struct {
	// AutosaveInterval is how often the engine checkpoints on its own.
	// Zero disables autosaving; command and shutdown saves still happen.
	AutosaveInterval time.Duration

	// ProgressInterval is how often ProgressEvents are published. Zero
	// disables them.
	ProgressInterval time.Duration

	// EventBuffer overrides the event channel capacity when positive.
	EventBuffer int

	// Logger receives engine diagnostics. Defaults to the global logger.
	Logger logger.Logger
}

// Engine drives the scan: it walks the candidate sequence, tests each value,
// records discoveries, honors operator commands between candidates, and
// persists through the configured Saver. A single goroutine owns all state;
// Run must be called at most once.
type Engine struct {
	state *State
	saver Saver
	log   logger.Logger

	commands chan Command
	events   chan Event

	autosave *ratelimit.IntervalGate
	progress *ratelimit.IntervalGate

	runStart      time.Time
	baseElapsed   float64
	lastCandidate uint32
}

// NewEngine returns an engine scanning from st, which must not be nil.
func NewEngine(st *State, saver Saver, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	buf := opts.EventBuffer
	if buf <= 0 {
		buf = defaultEventBuffer
	}
	e := &Engine{
		state:    st,
		saver:    saver,
		log:      log,
		commands: make(chan Command, commandBuffer),
		events:   make(chan Event, buf),
	}
	if opts.AutosaveInterval > 0 {
		e.autosave = ratelimit.NewIntervalGate(opts.AutosaveInterval)
	}
	if opts.ProgressInterval > 0 {
		e.progress = ratelimit.NewIntervalGate(opts.ProgressInterval)
	}
	return e
}

// Commands is the channel operator surfaces send on.
func (e *Engine) Commands() chan<- Command {
	return e.commands
}

// Events is the stream of scan notifications. It closes when Run returns.
// Consumers must drain it promptly; the engine blocks on a full buffer.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// State returns the engine's scan state. It must be treated as read-only
// until Run has returned.
func (e *Engine) State() *State {
	return e.state
}

// Run executes the scan loop until the space is exhausted, an operator stops
// it, or ctx is cancelled. Cancellation checkpoints progress before
// returning.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.events)

	e.runStart = time.Now()
	e.baseElapsed = e.state.ElapsedSeconds

	gen := NewGenerator(e.state.Cursor)
	e.state.Cursor = gen.Cursor()
	if e.state.Cursor.Valid() {
		e.lastCandidate = e.state.Cursor.Value()
	}

	e.log.InfoWithFields("scan started", map[string]interface{}{
		"run_id": e.state.RunID,
		"cursor": e.state.Cursor.String(),
		"found":  len(e.state.Results),
	})

	for {
		select {
		case <-ctx.Done():
			e.checkpoint(ctx, TriggerShutdown)
			e.emitDone(StopCancelled)
			return nil
		case cmd := <-e.commands:
			if stop := e.handleCommand(ctx, cmd); stop {
				return nil
			}
		default:
		}

		cand, ok := gen.Next()
		if !ok {
			e.checkpoint(ctx, TriggerCompletion)
			e.emitDone(StopCompleted)
			return nil
		}
		e.lastCandidate = cand.Value
		e.state.TestedCount++

		if IsPerfect(cand.Value) {
			e.record(cand)
		}
		e.state.Cursor = gen.Cursor()

		if e.progress != nil && e.progress.Allow() {
			e.emitProgress()
		}
		if e.autosave != nil && e.autosave.Allow() {
			e.checkpoint(ctx, TriggerAutosave)
		}
	}
}

// handleCommand services one operator command and reports whether the run
// should stop.
func (e *Engine) handleCommand(ctx context.Context, cmd Command) bool {
	e.syncElapsed()
	switch cmd {
	case CommandShowStatus:
		e.emit(StatusEvent{
			Candidate:      e.currentCandidate(),
			NextOrdinal:    e.state.NextOrdinal(),
			Found:          len(e.state.Results),
			Tested:         e.state.TestedCount,
			ElapsedSeconds: e.state.ElapsedSeconds,
		})
	case CommandShowSummary:
		e.emit(SummaryEvent{
			Values:         e.resultValues(),
			Candidate:      e.currentCandidate(),
			ElapsedSeconds: e.state.ElapsedSeconds,
		})
	case CommandSaveAndContinue:
		e.checkpoint(ctx, TriggerCommand)
		// A manual save restarts the autosave clock.
		if e.autosave != nil {
			e.autosave.Reset()
		}
	case CommandSaveAndExit:
		e.checkpoint(ctx, TriggerCommand)
		e.emitDone(StopSaveExit)
		return true
	case CommandQuit:
		e.log.Warn("stopping without a checkpoint")
		e.emitDone(StopQuit)
		return true
	}
	return false
}

func (e *Engine) record(cand Candidate) {
	e.syncElapsed()
	if !e.state.AppendResult(cand.Value) {
		e.log.DebugWithFields("re-derived a known result", map[string]interface{}{
			"value": cand.Value,
		})
		return
	}
	ordinal := len(e.state.Results)
	e.log.InfoWithFields("perfect number found", map[string]interface{}{
		"ordinal":         ordinal,
		"value":           cand.Value,
		"cursor":          cand.Cursor.String(),
		"elapsed_seconds": e.state.ElapsedSeconds,
	})
	e.emit(DiscoveryEvent{
		Ordinal:        ordinal,
		Value:          cand.Value,
		Cursor:         cand.Cursor,
		ElapsedSeconds: e.state.ElapsedSeconds,
		FoundAt:        time.Now(),
	})
}

// checkpoint saves through the Saver with a short retry. Failures are
// reported on the event stream and logged; the in-memory state is kept so
// the scan can continue.
func (e *Engine) checkpoint(ctx context.Context, trigger CheckpointTrigger) {
	e.syncElapsed()
	err := retry.Do(func() error {
		return e.saver.Save(e.state)
	}, &retry.Config{
		MaxAttempts: saveAttempts,
		Backoff:     retry.NewConstantBackoff(saveRetryDelay),
		RetryIf:     errs.IsRetryableError,
		Context:     ctx,
		Logger:      e.log,
	})
	if err != nil {
		e.log.ErrorWithFields("checkpoint save failed", map[string]interface{}{
			"trigger": trigger.String(),
			"error":   err.Error(),
		})
	} else {
		e.log.DebugWithFields("checkpoint saved", map[string]interface{}{
			"trigger": trigger.String(),
			"found":   len(e.state.Results),
		})
	}
	e.emit(CheckpointEvent{
		Trigger:        trigger,
		Found:          len(e.state.Results),
		ElapsedSeconds: e.state.ElapsedSeconds,
		Err:            err,
	})
}

func (e *Engine) emitProgress() {
	e.syncElapsed()
	run := time.Since(e.runStart).Seconds()
	var rate float64
	if run > 0 {
		rate = float64(e.state.TestedCount) / run
	}
	e.emit(ProgressEvent{
		Candidate:      e.lastCandidate,
		Cursor:         e.state.Cursor,
		Tested:         e.state.TestedCount,
		Found:          len(e.state.Results),
		ElapsedSeconds: e.state.ElapsedSeconds,
		Rate:           rate,
	})
}

func (e *Engine) emitDone(reason StopReason) {
	e.syncElapsed()
	e.log.InfoWithFields("scan stopped", map[string]interface{}{
		"reason": reason.String(),
		"found":  len(e.state.Results),
		"tested": e.state.TestedCount,
	})
	e.emit(DoneEvent{
		Reason:         reason,
		Found:          len(e.state.Results),
		Tested:         e.state.TestedCount,
		ElapsedSeconds: e.state.ElapsedSeconds,
		Values:         e.resultValues(),
	})
}

func (e *Engine) emit(ev Event) {
	e.events <- ev
}

// currentCandidate is the value being worked on, falling back to the last
// tested value once the cursor has moved past the end.
func (e *Engine) currentCandidate() uint32 {
	if e.state.Cursor.Valid() {
		return e.state.Cursor.Value()
	}
	return e.lastCandidate
}

func (e *Engine) resultValues() []uint32 {
	return append([]uint32(nil), e.state.Results...)
}

// syncElapsed folds this run's wall clock into the cumulative total carried
// over from previous runs.
func (e *Engine) syncElapsed() {
	e.state.ElapsedSeconds = e.baseElapsed + time.Since(e.runStart).Seconds()
}
