package domain

import "fmt"

// ErrKind is the error taxonomy of the engine, independent of how an
// adapter chooses to surface it (HTTP status, CLI exit code, log level).
type ErrKind string

const (
	ErrBadRequest     ErrKind = "bad_request"
	ErrUnknownStation ErrKind = "unknown_station"
	ErrDataNotLoaded  ErrKind = "data_not_loaded"
	ErrTimeout        ErrKind = "timeout"
	ErrInternal       ErrKind = "internal"
	ErrLoader         ErrKind = "loader_error"
)

// AppError is the structured error type returned across core package
// boundaries. Validation failures are returned, never panicked or raised
// as exceptions — control flow stays in ordinary Go error returns per the
// engine's design.
type AppError struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// NewError constructs an AppError with no wrapped cause.
func NewError(kind ErrKind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError constructs an AppError wrapping an underlying cause.
func WrapError(kind ErrKind, cause error, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}
