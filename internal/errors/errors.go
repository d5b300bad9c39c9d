package errors

import (
	"errors"
	"fmt"
)

// SDKError is the base interface for all SDK errors.
type SDKError interface {
	error
	IsGoSpatialSDKError() bool
}

// Compile-time verification that all error types implement SDKError.
var (
	_ SDKError = (*CLINotFoundError)(nil)
	_ SDKError = (*CLIConnectionError)(nil)
	_ SDKError = (*ProcessError)(nil)
	_ SDKError = (*UnknownToolError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionNotStarted indicates the session has not been started.
	ErrSessionNotStarted = errors.New("session not started")

	// ErrSessionAlreadyStarted indicates the session is already running.
	ErrSessionAlreadyStarted = errors.New("session already started")

	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.New("session closed: sessions are single-use, create a new one with NewSession()")

	// ErrTransportNotStarted indicates the transport has not been started.
	ErrTransportNotStarted = errors.New("transport not started")

	// ErrStdinClosed indicates stdin was closed due to context cancellation.
	ErrStdinClosed = errors.New("stdin closed")
)

// CLINotFoundError indicates the go-spatial binary was not found.
type CLINotFoundError struct {
	SearchedPaths []string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("go-spatial executable not found in: %v", e.SearchedPaths)
}

// IsGoSpatialSDKError implements SDKError.
func (e *CLINotFoundError) IsGoSpatialSDKError() bool { return true }

// CLIConnectionError indicates failure to spawn or wire up the go-spatial process.
type CLIConnectionError struct {
	Err error
}

func (e *CLIConnectionError) Error() string {
	return fmt.Sprintf("failed to start go-spatial: %v", e.Err)
}

func (e *CLIConnectionError) Unwrap() error {
	return e.Err
}

// IsGoSpatialSDKError implements SDKError.
func (e *CLIConnectionError) IsGoSpatialSDKError() bool { return true }

// ProcessError indicates the go-spatial process exited with a failure.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("go-spatial process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("go-spatial process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsGoSpatialSDKError implements SDKError.
func (e *ProcessError) IsGoSpatialSDKError() bool { return true }

// UnknownToolError indicates go-spatial did not recognize the requested tool name.
// The CLI reports this on its output stream rather than through the exit code,
// so the SDK detects the diagnostic line and converts it to a typed error.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unrecognized tool name %q, use ListTools for the available tools", e.Tool)
}

// IsGoSpatialSDKError implements SDKError.
func (e *UnknownToolError) IsGoSpatialSDKError() bool { return true }
