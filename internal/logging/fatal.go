package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// ErrorType classifies a failure that ends the wrapper before or instead of
// a successful runtime invocation.
type ErrorType string

const (
	// ErrorTypePermission represents an unmet setuid-root precondition
	ErrorTypePermission ErrorType = "permission_denied"
	// ErrorTypeUsage represents malformed command-line arguments
	ErrorTypeUsage ErrorType = "usage_error"
	// ErrorTypeConfig represents an unusable launch profile
	ErrorTypeConfig ErrorType = "config_invalid"
	// ErrorTypeLaunch represents a runtime that could not be started
	ErrorTypeLaunch ErrorType = "launch_failed"
	// ErrorTypeSystemError represents any other failure
	ErrorTypeSystemError ErrorType = "system_error"
)

// FatalError is a classified failure that terminates the wrapper with status 1.
type FatalError struct {
	Type      ErrorType
	Message   string
	Component string
	RunID     string
	Err       error
}

// Error implements the error interface
func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v (component: %s, run_id: %s)", e.Type, e.Message, e.Err, e.Component, e.RunID)
	}
	return fmt.Sprintf("%s: %s (component: %s, run_id: %s)", e.Type, e.Message, e.Component, e.RunID)
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// HandleFatal writes the diagnostic line for fe to w and records the
// classified failure on logger. The console sees exactly fe.Message; the
// structured record carries the classification and the run ID.
func HandleFatal(w io.Writer, logger *slog.Logger, fe *FatalError) {
	// Best effort: there is nowhere left to report a failing stderr.
	_, _ = fmt.Fprintln(w, fe.Message)

	attrs := []any{
		"error_type", string(fe.Type),
		"error_message", fe.Message,
		"component", fe.Component,
		"run_id", fe.RunID,
	}
	if fe.Err != nil {
		attrs = append(attrs, "error", fe.Err.Error())
	}
	logger.Error("Fatal error occurred", attrs...)
}
