// Package journal records every discovery as a durable CSV row, one line per
// perfect number, independent of the checkpoint. The checkpoint is a cursor
// that gets overwritten; the journal is the append-only history of what was
// found, when, and by which run.
package journal
