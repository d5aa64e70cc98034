package search

import "testing"

func TestNewState(t *testing.T) {
	st := NewState()
	if st.RunID == "" {
		t.Error("expected a run ID")
	}
	if st.Cursor != InitialCursor() {
		t.Errorf("cursor = %s, want %s", st.Cursor, InitialCursor())
	}
	if len(st.Results) != 0 {
		t.Errorf("expected no results, got %v", st.Results)
	}
	if st.ElapsedSeconds != 0 {
		t.Errorf("elapsed = %f, want 0", st.ElapsedSeconds)
	}
}

func TestAppendResultDeduplicates(t *testing.T) {
	st := NewState()
	if !st.AppendResult(6) {
		t.Error("first append of 6 should succeed")
	}
	if !st.AppendResult(28) {
		t.Error("first append of 28 should succeed")
	}
	if st.AppendResult(6) {
		t.Error("second append of 6 should be dropped")
	}
	if len(st.Results) != 2 {
		t.Errorf("results = %v, want [6 28]", st.Results)
	}
	if st.NextOrdinal() != 3 {
		t.Errorf("NextOrdinal() = %d, want 3", st.NextOrdinal())
	}
}
