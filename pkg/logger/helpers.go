package logger

import (
	"github.com/rs/zerolog"
)

// LogDiscovery logs a found perfect number with its discovery context.
func LogDiscovery(ordinal int, value uint32, elapsedSeconds float64) {
	GetLogger().InfoWithFields("Perfect number found", map[string]interface{}{
		"ordinal":         ordinal,
		"value":           value,
		"elapsed_seconds": elapsedSeconds,
	})
}

// LogCheckpointSave logs the outcome of a checkpoint save.
func LogCheckpointSave(path string, count int, err error) {
	logger := GetLogger().WithFields(map[string]interface{}{
		"path":  path,
		"count": count,
	})

	if err != nil {
		logger.WithError(err).Warn("Checkpoint save failed")
	} else {
		logger.Info("Checkpoint saved")
	}
}

// LogScanProgress logs scanning progress
func LogScanProgress(candidate uint32, tested uint64, found int) {
	GetLogger().WithFields(map[string]interface{}{
		"candidate": candidate,
		"tested":    tested,
		"found":     found,
	}).Info("Scan progress")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	logger := GetLogger().WithField("component", component)

	if len(config) > 0 {
		logger = logger.WithFields(config)
	}

	logger.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// MustGetLogger gets the logger or panics if it fails
func MustGetLogger() Logger {
	logger := GetLogger()
	if logger == nil {
		panic("logger not initialized")
	}
	return logger
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
