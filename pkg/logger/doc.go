// Package logger provides a structured logging interface for the scanner.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Console output with colored level tags, or raw JSON
// - Optional log file output alongside the console
// - A process-wide logger initialized once from configuration
//
// Scanner-specific helpers (LogDiscovery, LogCheckpointSave, LogScanProgress)
// keep field names consistent across the engine, the journal, and the CLI.
package logger
