// Package report produces the optional end-of-run JSON artifact. Unlike the
// checkpoint it is not read back by the scanner; it exists for scripts and
// dashboards that want a run's outcome without parsing logs.
package report
