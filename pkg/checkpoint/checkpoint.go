package checkpoint

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	errs "perfectscan/pkg/errors"
	"perfectscan/pkg/logger"
	"perfectscan/pkg/search"
)

// Manager owns the checkpoint file at a fixed path.
type Manager struct {
	path   string
	logger logger.Logger
}

// NewManager returns a manager for the checkpoint file at path.
func NewManager(path string) *Manager {
	return &Manager{
		path:   path,
		logger: logger.GetLogger(),
	}
}

// Path returns the checkpoint file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the checkpoint. A missing or unopenable file means a fresh
// start and returns (nil, nil); a file that opens but does not parse returns
// a corruption error so a damaged checkpoint is never silently discarded.
func (m *Manager) Load() (*search.State, error) {
	file, err := os.Open(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.WarnWithFields("checkpoint unreadable, starting from scratch", map[string]interface{}{
				"path":  m.path,
				"error": err.Error(),
			})
		}
		return nil, nil
	}
	defer file.Close()

	dec, err := decode(bufio.NewReader(file))
	if err != nil {
		return nil, errs.WrapPath(errs.ErrorTypeCheckpointCorrupt, "checkpoint file is corrupt", m.path, err)
	}

	st := search.NewState()
	st.ElapsedSeconds = dec.elapsedSeconds
	st.Results = dec.results
	if dec.cursor != nil {
		st.Cursor = *dec.cursor
	} else {
		// No resume cursor: rescan from the beginning. Re-derived values
		// are dropped at append time, so results stay free of duplicates.
		st.Cursor = search.InitialCursor()
	}

	m.logger.InfoWithFields("checkpoint loaded", map[string]interface{}{
		"path":            m.path,
		"found":           len(st.Results),
		"elapsed_seconds": st.ElapsedSeconds,
		"cursor":          st.Cursor.String(),
		"legacy":          dec.cursor == nil,
	})

	return st, nil
}

// Save writes st to disk atomically: encode into a temporary file next to
// the checkpoint, sync, then rename over the previous file.
func (m *Manager) Save(st *search.State) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to create checkpoint directory", m.path, err)
		}
	}

	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to create temporary checkpoint file", m.path, err)
	}

	w := bufio.NewWriter(file)
	if err := encode(w, st); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to encode checkpoint", m.path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to write checkpoint", m.path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to sync checkpoint file", m.path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to close checkpoint file", m.path, err)
	}
	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to replace checkpoint file", m.path, err)
	}

	m.logger.DebugWithFields("checkpoint saved", map[string]interface{}{
		"path":   m.path,
		"found":  len(st.Results),
		"cursor": st.Cursor.String(),
	})

	return nil
}

// Exists reports whether a checkpoint file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Delete removes the checkpoint file. Deleting a missing file is not an
// error.
func (m *Manager) Delete() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return errs.WrapPath(errs.ErrorTypeCheckpointWrite, "failed to delete checkpoint", m.path, err)
	}
	return nil
}

// Info describes a checkpoint file for display.
type Info struct {
	Path           string
	Size           int64
	ModTime        time.Time
	ElapsedSeconds float64
	Values         []uint32
	Cursor         search.Cursor
	// Legacy marks files that predate the resume cursor trailer.
	Legacy bool
}

// Info inspects the checkpoint file without touching it.
func (m *Manager) Info() (*Info, error) {
	stat, err := os.Stat(m.path)
	if err != nil {
		return nil, errs.WrapPath(errs.ErrorTypeCheckpointMissing, "no checkpoint file", m.path, err)
	}

	file, err := os.Open(m.path)
	if err != nil {
		return nil, errs.WrapPath(errs.ErrorTypeCheckpointMissing, "cannot open checkpoint file", m.path, err)
	}
	defer file.Close()

	dec, err := decode(bufio.NewReader(file))
	if err != nil {
		return nil, errs.WrapPath(errs.ErrorTypeCheckpointCorrupt, "checkpoint file is corrupt", m.path, err)
	}

	info := &Info{
		Path:           m.path,
		Size:           stat.Size(),
		ModTime:        stat.ModTime(),
		ElapsedSeconds: dec.elapsedSeconds,
		Values:         dec.results,
		Cursor:         search.InitialCursor(),
		Legacy:         dec.cursor == nil,
	}
	if dec.cursor != nil {
		info.Cursor = *dec.cursor
	}
	return info, nil
}

var _ search.Saver = (*Manager)(nil)
