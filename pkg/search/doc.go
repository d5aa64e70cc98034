// Package search implements the perfect number scan over candidates of the
// form 2^hi - 2^lo.
//
// The search space is walked in a fixed order: hi ascends from 3 through 31,
// and for each hi the low exponent descends from hi-1 to 1. Every position in
// the walk is identified by a Cursor, which is what checkpoints persist to
// make the walk restartable.
//
// Engine drives the walk. It owns all scan state on a single goroutine,
// accepts operator Commands between candidate tests, publishes Events for
// discoveries, progress and checkpoints, and persists through a Saver.
package search
