// Package checkpoint persists scan progress so long runs survive restarts.
//
// A checkpoint is a small little-endian binary file:
//   - cumulative elapsed seconds (float64)
//   - number of results (uint16)
//   - the result values (uint32 each)
//   - the resume cursor's power pair (two uint32)
//
// The cursor trailer is optional on read, so files written by older builds
// still load; those resume by rescanning from the beginning, and re-derived
// discoveries are dropped at append time. Saves go through a temporary file
// and rename, leaving the previous checkpoint intact if a write dies midway.
package checkpoint
