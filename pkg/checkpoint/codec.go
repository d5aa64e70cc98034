package checkpoint

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"perfectscan/pkg/search"
)

// encode writes st in the on-disk layout: elapsed seconds, result count,
// result values, resume cursor. All fields are little-endian.
func encode(w io.Writer, st *search.State) error {
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(st.ElapsedSeconds))
	if _, err := w.Write(buf[:8]); err != nil {
		return err
	}

	if len(st.Results) > math.MaxUint16 {
		return fmt.Errorf("result count %d exceeds the format's 16-bit field", len(st.Results))
	}
	binary.LittleEndian.PutUint16(buf[:2], uint16(len(st.Results)))
	if _, err := w.Write(buf[:2]); err != nil {
		return err
	}

	for _, v := range st.Results {
		binary.LittleEndian.PutUint32(buf[:4], v)
		if _, err := w.Write(buf[:4]); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(buf[:4], st.Cursor.HiPower)
	binary.LittleEndian.PutUint32(buf[4:8], st.Cursor.LoPower)
	if _, err := w.Write(buf[:8]); err != nil {
		return err
	}

	return nil
}

// decoded is the raw content of a checkpoint file.
type decoded struct {
	elapsedSeconds float64
	results        []uint32
	// cursor is nil for files written before the trailer existed.
	cursor *search.Cursor
}

// decode reads the on-disk layout, failing on any truncation. A file that
// ends cleanly right after the results is a legacy checkpoint without a
// resume cursor.
func decode(r io.Reader) (*decoded, error) {
	var buf [8]byte

	if _, err := io.ReadFull(r, buf[:8]); err != nil {
		return nil, fmt.Errorf("elapsed time: %w", err)
	}
	elapsed := math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))

	if _, err := io.ReadFull(r, buf[:2]); err != nil {
		return nil, fmt.Errorf("result count: %w", err)
	}
	count := binary.LittleEndian.Uint16(buf[:2])

	results := make([]uint32, 0, count)
	for i := 0; i < int(count); i++ {
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return nil, fmt.Errorf("result %d of %d: %w", i+1, count, err)
		}
		results = append(results, binary.LittleEndian.Uint32(buf[:4]))
	}

	_, err := io.ReadFull(r, buf[:8])
	if err == io.EOF {
		return &decoded{elapsedSeconds: elapsed, results: results}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resume cursor: %w", err)
	}

	cursor := search.Cursor{
		HiPower: binary.LittleEndian.Uint32(buf[:4]),
		LoPower: binary.LittleEndian.Uint32(buf[4:8]),
	}
	if !cursor.Valid() && cursor != search.EndCursor() {
		return nil, fmt.Errorf("resume cursor %s is out of range", cursor)
	}

	return &decoded{elapsedSeconds: elapsed, results: results, cursor: &cursor}, nil
}
