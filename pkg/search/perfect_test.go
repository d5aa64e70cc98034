package search

import "testing"

var knownPerfects = []uint32{6, 28, 496, 8128, 33550336}

func TestIsPerfectKnownValues(t *testing.T) {
	for _, v := range knownPerfects {
		if !IsPerfect(v) {
			t.Errorf("IsPerfect(%d) = false, want true", v)
		}
	}
}

func TestIsPerfectRejectsNeighbors(t *testing.T) {
	for _, v := range []uint32{4, 27, 29, 495, 497, 8127, 8129, 33550335, 33550337} {
		if IsPerfect(v) {
			t.Errorf("IsPerfect(%d) = true, want false", v)
		}
	}
}

func TestIsPerfectDegenerateInputs(t *testing.T) {
	for _, v := range []uint32{0, 1, 2, 3} {
		if IsPerfect(v) {
			t.Errorf("IsPerfect(%d) = true, want false", v)
		}
	}
}

func TestDivisorSum(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint64
	}{
		{1, 0},
		{2, 1},
		{4, 3},
		{6, 6},
		{7, 1},
		{12, 16},
		{28, 28},
		{36, 55},
		{496, 496},
	}

	for _, tt := range tests {
		if got := DivisorSum(tt.n); got != tt.want {
			t.Errorf("DivisorSum(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestIntegerSqrt(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint32
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{8, 2},
		{9, 3},
		{15, 3},
		{16, 4},
		{17, 4},
		{2147483646, 46340},
		{4294967295, 65535},
	}

	for _, tt := range tests {
		if got := integerSqrt(tt.n); got != tt.want {
			t.Errorf("integerSqrt(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestWalkFindsExactlyTheKnownPerfects(t *testing.T) {
	type hit struct {
		value   uint32
		hiPower uint32
		loPower uint32
	}
	want := []hit{
		{6, 3, 1},
		{28, 5, 2},
		{496, 9, 4},
		{8128, 13, 6},
		{33550336, 25, 12},
	}

	gen := NewGenerator(InitialCursor())
	var got []hit
	for {
		cand, ok := gen.Next()
		if !ok {
			break
		}
		if IsPerfect(cand.Value) {
			got = append(got, hit{cand.Value, cand.Cursor.HiPower, cand.Cursor.LoPower})
		}
	}

	if len(got) != len(want) {
		t.Fatalf("found %d perfect numbers, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("discovery %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
