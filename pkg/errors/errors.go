package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeCheckpointMissing ErrorType = "checkpoint_missing"
	ErrorTypeCheckpointCorrupt ErrorType = "checkpoint_corrupt"
	ErrorTypeCheckpointWrite   ErrorType = "checkpoint_write"
	ErrorTypeJournalWrite      ErrorType = "journal_write"
	ErrorTypeReportWrite       ErrorType = "report_write"
	ErrorTypeConfigInvalid     ErrorType = "config_invalid"
	ErrorTypeControl           ErrorType = "control_unavailable"
	ErrorTypeUnknown           ErrorType = "unknown"
)

// Error represents a scanner error with type information and the
// path of the file involved, when one is.
type Error struct {
	Type    ErrorType
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (%s): %v", e.Type, e.Message, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type.
func New(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Wrap creates an Error of the given type around an underlying cause.
func Wrap(errType ErrorType, message string, err error) *Error {
	return &Error{Type: errType, Message: message, Err: err}
}

// WrapPath creates an Error carrying the file path involved.
func WrapPath(errType ErrorType, message, path string, err error) *Error {
	return &Error{Type: errType, Message: message, Path: path, Err: err}
}

// TypeOf returns the ErrorType of err if it is (or wraps) an *Error,
// ErrorTypeUnknown otherwise.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// IsRetryable checks if an error type should be retried. Write failures
// are transient more often than not; corrupt or missing files never
// heal on their own.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeCheckpointWrite, ErrorTypeJournalWrite, ErrorTypeReportWrite:
		return true
	case ErrorTypeCheckpointMissing, ErrorTypeCheckpointCorrupt, ErrorTypeConfigInvalid, ErrorTypeControl:
		return false
	default:
		return false
	}
}

// IsRetryableError is the error-valued form of IsRetryable.
func IsRetryableError(err error) bool {
	return IsRetryable(TypeOf(err))
}
