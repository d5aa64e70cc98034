package journal

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"

	errs "perfectscan/pkg/errors"
	"perfectscan/pkg/logger"
)

const entryBuffer = 16

// header matches the column order written by writeRow.
var header = []string{"run_id", "ordinal", "value", "hi_power", "lo_power", "elapsed_seconds", "found_at"}

// Entry is one discovery row.
type Entry struct {
	RunID          string
	Ordinal        int
	Value          uint32
	HiPower        uint32
	LoPower        uint32
	ElapsedSeconds float64
	FoundAt        time.Time
}

// Writer appends discovery rows to a CSV file from a single goroutine.
// Entries arrive on a buffered channel so the scan loop does not wait on
// disk for every find.
type Writer struct {
	path     string
	compress bool
	logger   logger.Logger

	entries chan Entry
	done    chan struct{}

	file *os.File
	zw   *zstd.Encoder
	csv  *csv.Writer
}

// NewWriter prepares a journal writer for path. With compress set, rows are
// written as a zstd stream; successive runs append frames, which decoders
// read as one concatenated stream.
func NewWriter(path string, compress bool, log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Writer{
		path:     path,
		compress: compress,
		logger:   log,
		entries:  make(chan Entry, entryBuffer),
		done:     make(chan struct{}),
	}
}

// Path returns the journal file location.
func (w *Writer) Path() string {
	return w.path
}

// Start opens the journal for appending and begins draining entries. The
// header row is written only when the file is new or empty.
func (w *Writer) Start() error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.WrapPath(errs.ErrorTypeJournalWrite, "failed to create journal directory", w.path, err)
		}
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errs.WrapPath(errs.ErrorTypeJournalWrite, "failed to open journal", w.path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return errs.WrapPath(errs.ErrorTypeJournalWrite, "failed to stat journal", w.path, err)
	}
	fresh := stat.Size() == 0

	w.file = file
	var sink io.Writer = file
	if w.compress {
		zw, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return errs.WrapPath(errs.ErrorTypeJournalWrite, "failed to start compressed journal", w.path, err)
		}
		w.zw = zw
		sink = zw
	}
	w.csv = csv.NewWriter(sink)

	if fresh {
		if err := w.csv.Write(header); err != nil {
			w.closeSinks()
			return errs.WrapPath(errs.ErrorTypeJournalWrite, "failed to write journal header", w.path, err)
		}
	}

	go w.drain()

	w.logger.InfoWithFields("journal started", map[string]interface{}{
		"path":     w.path,
		"compress": w.compress,
	})
	return nil
}

// Record queues a discovery row. It must not be called after Stop.
func (w *Writer) Record(e Entry) {
	w.entries <- e
}

// Stop drains queued rows, flushes and closes the journal.
func (w *Writer) Stop() error {
	close(w.entries)
	<-w.done

	w.csv.Flush()
	err := w.csv.Error()
	if cerr := w.closeSinks(); err == nil {
		err = cerr
	}
	if err != nil {
		return errs.WrapPath(errs.ErrorTypeJournalWrite, "failed to finalize journal", w.path, err)
	}

	w.logger.Debug("journal closed")
	return nil
}

func (w *Writer) drain() {
	defer close(w.done)
	for e := range w.entries {
		if err := w.writeRow(e); err != nil {
			w.logger.ErrorWithFields("journal write failed", map[string]interface{}{
				"value": e.Value,
				"error": err.Error(),
			})
		}
	}
}

func (w *Writer) writeRow(e Entry) error {
	return w.csv.Write([]string{
		e.RunID,
		strconv.Itoa(e.Ordinal),
		strconv.FormatUint(uint64(e.Value), 10),
		strconv.FormatUint(uint64(e.HiPower), 10),
		strconv.FormatUint(uint64(e.LoPower), 10),
		strconv.FormatFloat(e.ElapsedSeconds, 'f', 3, 64),
		e.FoundAt.UTC().Format(time.RFC3339),
	})
}

func (w *Writer) closeSinks() error {
	var err error
	if w.zw != nil {
		err = w.zw.Close()
	}
	if serr := w.file.Sync(); err == nil {
		err = serr
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}
