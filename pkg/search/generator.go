package search

import "fmt"

// Candidates are differences of two powers of two, 2^hi - 2^lo. hi tops out
// below 32 so every candidate fits in a uint32.
const (
	minHiPower = 3
	maxHiPower = 32
)

// CandidateCount is the number of positions in the full search space.
const CandidateCount = (maxHiPower-2)*(maxHiPower-1)/2 - 1

// Cursor identifies a position in the candidate sequence by its power pair.
// The zero value is not a meaningful position; use InitialCursor to start
// from the beginning.
type Cursor struct {
	HiPower uint32
	LoPower uint32
}

// InitialCursor returns the first position of the candidate sequence.
func InitialCursor() Cursor {
	return Cursor{HiPower: minHiPower, LoPower: minHiPower - 1}
}

// EndCursor returns the canonical position just past the final candidate.
func EndCursor() Cursor {
	return Cursor{HiPower: maxHiPower, LoPower: maxHiPower - 1}
}

// Valid reports whether the cursor points at a generatable candidate.
func (c Cursor) Valid() bool {
	return c.HiPower >= minHiPower && c.HiPower < maxHiPower &&
		c.LoPower >= 1 && c.LoPower < c.HiPower
}

// Exhausted reports whether the cursor lies past the end of the sequence.
func (c Cursor) Exhausted() bool {
	return c.HiPower >= maxHiPower
}

// Value computes the candidate at this position. It is meaningful only for
// valid cursors.
func (c Cursor) Value() uint32 {
	return (1 << c.HiPower) - (1 << c.LoPower)
}

// Index returns the 0-based ordinal of this position in the walk. EndCursor
// maps to CandidateCount.
func (c Cursor) Index() int {
	hi := int(c.HiPower)
	block := (hi-2)*(hi-1)/2 - 1
	return block + (hi - 1 - int(c.LoPower))
}

func (c Cursor) String() string {
	return fmt.Sprintf("2^%d-2^%d", c.HiPower, c.LoPower)
}

// next advances to the following position, stepping the high exponent when
// the low exponent is used up.
func (c Cursor) next() Cursor {
	if c.LoPower > 1 {
		c.LoPower--
		return c
	}
	c.HiPower++
	c.LoPower = c.HiPower - 1
	return c
}

// Generator walks the candidate sequence. The walk is restartable from any
// cursor previously returned by Cursor.
type Generator struct {
	cur Cursor
}

// NewGenerator returns a generator positioned at cur. Cursors that are
// neither valid nor exhausted, including the zero value, start the walk from
// the beginning.
func NewGenerator(cur Cursor) *Generator {
	if !cur.Valid() && !cur.Exhausted() {
		cur = InitialCursor()
	}
	return &Generator{cur: cur}
}

// Candidate is a single value drawn from the sequence along with the cursor
// that produced it.
type Candidate struct {
	Value  uint32
	Cursor Cursor
}

// Next returns the candidate at the current position and advances past it.
// ok is false once the sequence is exhausted.
func (g *Generator) Next() (Candidate, bool) {
	if g.cur.Exhausted() {
		return Candidate{}, false
	}
	cand := Candidate{Value: g.cur.Value(), Cursor: g.cur}
	g.cur = g.cur.next()
	return cand, true
}

// Cursor returns the position of the next candidate Next would yield. This
// is the resume point checkpoints persist.
func (g *Generator) Cursor() Cursor {
	return g.cur
}
