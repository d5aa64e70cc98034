package search_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfectscan/internal/journal"
	"perfectscan/pkg/checkpoint"
	"perfectscan/pkg/logger"
	"perfectscan/pkg/report"
	"perfectscan/pkg/search"
)

var wantPerfects = []uint32{6, 28, 496, 8128, 33550336}

// drainEvents consumes the engine's event stream while Run executes and
// returns everything it published.
func drainEvents(t *testing.T, ctx context.Context, e *search.Engine) []search.Event {
	t.Helper()

	var events []search.Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range e.Events() {
			events = append(events, ev)
		}
	}()

	require.NoError(t, e.Run(ctx))
	<-done
	return events
}

func finalDone(t *testing.T, events []search.Event) search.DoneEvent {
	t.Helper()
	require.NotEmpty(t, events)
	done, ok := events[len(events)-1].(search.DoneEvent)
	require.True(t, ok, "last event is %T, want DoneEvent", events[len(events)-1])
	return done
}

// TestScanSaveLoadResume drives two engine sessions against one checkpoint
// file: the first stops immediately after saving, the second loads the file
// and finishes the space.
func TestScanSaveLoadResume(t *testing.T) {
	manager := checkpoint.NewManager(filepath.Join(t.TempDir(), "PerfectNumbers.dat"))

	loaded, err := manager.Load()
	require.NoError(t, err)
	require.Nil(t, loaded, "missing file should load as a fresh start")

	first := search.NewEngine(search.NewState(), manager, search.Options{Logger: logger.NewNopLogger()})
	first.Commands() <- search.CommandSaveAndExit
	events := drainEvents(t, context.Background(), first)
	require.Equal(t, search.StopSaveExit, finalDone(t, events).Reason)
	require.True(t, manager.Exists())

	loaded, err = manager.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, search.InitialCursor(), loaded.Cursor)
	assert.Empty(t, loaded.Results)

	second := search.NewEngine(loaded, manager, search.Options{Logger: logger.NewNopLogger()})
	events = drainEvents(t, context.Background(), second)
	done := finalDone(t, events)
	assert.Equal(t, search.StopCompleted, done.Reason)
	assert.Equal(t, wantPerfects, done.Values)
	assert.Equal(t, uint64(search.CandidateCount), done.Tested)

	final, err := manager.Load()
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, wantPerfects, final.Results)
	assert.Equal(t, search.EndCursor(), final.Cursor)
	assert.True(t, final.Cursor.Exhausted())
	assert.Greater(t, final.ElapsedSeconds, 0.0)
}

// TestScanPipeline wires the engine to the real checkpoint manager, journal,
// and report the way the scan command does, and checks every artifact.
func TestScanPipeline(t *testing.T) {
	dir := t.TempDir()
	manager := checkpoint.NewManager(filepath.Join(dir, "scan.dat"))
	journalPath := filepath.Join(dir, "perfects.csv")
	reportPath := filepath.Join(dir, "run.json")

	st := search.NewState()
	e := search.NewEngine(st, manager, search.Options{Logger: logger.NewNopLogger()})

	jw := journal.NewWriter(journalPath, false, logger.NewNopLogger())
	require.NoError(t, jw.Start())

	rep := &report.Report{RunID: st.RunID, StartedAt: time.Now()}

	var final search.DoneEvent
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range e.Events() {
			switch ev := ev.(type) {
			case search.DiscoveryEvent:
				jw.Record(journal.Entry{
					RunID:          st.RunID,
					Ordinal:        ev.Ordinal,
					Value:          ev.Value,
					HiPower:        ev.Cursor.HiPower,
					LoPower:        ev.Cursor.LoPower,
					ElapsedSeconds: ev.ElapsedSeconds,
					FoundAt:        ev.FoundAt,
				})
				rep.AddDiscovery(report.Discovery{
					Ordinal:        ev.Ordinal,
					Value:          ev.Value,
					HiPower:        ev.Cursor.HiPower,
					LoPower:        ev.Cursor.LoPower,
					ElapsedSeconds: ev.ElapsedSeconds,
					FoundAt:        ev.FoundAt,
				})
			case search.DoneEvent:
				final = ev
			}
		}
	}()

	require.NoError(t, e.Run(context.Background()))
	<-done
	require.NoError(t, jw.Stop())

	rep.FinishedAt = time.Now()
	rep.Outcome = final.Reason.String()
	rep.ElapsedSeconds = final.ElapsedSeconds
	rep.CandidatesTested = final.Tested
	rep.Found = final.Found
	rep.Values = final.Values
	rep.Cursor = report.Cursor{HiPower: st.Cursor.HiPower, LoPower: st.Cursor.LoPower}
	rep.Exhausted = st.Cursor.Exhausted()
	require.NoError(t, rep.Save(reportPath))

	// Journal: header plus one row per perfect number, in discovery order.
	f, err := os.Open(journalPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(wantPerfects)+1)
	assert.Equal(t, []string{"run_id", "ordinal", "value", "hi_power", "lo_power", "elapsed_seconds", "found_at"}, rows[0])
	for i, want := range []string{"6", "28", "496", "8128", "33550336"} {
		assert.Equal(t, st.RunID, rows[i+1][0])
		assert.Equal(t, want, rows[i+1][2])
	}

	// Report: reloads as written.
	loaded, err := report.Load(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "completed", loaded.Outcome)
	assert.Equal(t, uint64(search.CandidateCount), loaded.CandidatesTested)
	assert.Equal(t, wantPerfects, loaded.Values)
	assert.True(t, loaded.Exhausted)
	require.Len(t, loaded.Discoveries, len(wantPerfects))
	assert.Equal(t, uint32(33550336), loaded.Discoveries[4].Value)

	// Checkpoint: the completion save reflects the finished scan.
	cp, err := manager.Load()
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, wantPerfects, cp.Results)
	assert.True(t, cp.Cursor.Exhausted())
}
