package gospatialsdk

import "github.com/jblindsay/gospatial-sdk-go/internal/errors"

// Re-export error types from internal package

// CLINotFoundError indicates the go-spatial binary was not found.
type CLINotFoundError = errors.CLINotFoundError

// CLIConnectionError indicates failure to spawn the go-spatial process.
type CLIConnectionError = errors.CLIConnectionError

// ProcessError indicates the go-spatial process exited with a failure.
type ProcessError = errors.ProcessError

// UnknownToolError indicates go-spatial did not recognize the requested tool name.
type UnknownToolError = errors.UnknownToolError

// SDKError is the base interface for all SDK errors.
type SDKError = errors.SDKError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionNotStarted indicates the session has not been started.
	ErrSessionNotStarted = errors.ErrSessionNotStarted

	// ErrSessionAlreadyStarted indicates the session is already running.
	ErrSessionAlreadyStarted = errors.ErrSessionAlreadyStarted

	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrTransportNotStarted indicates the transport has not been started.
	ErrTransportNotStarted = errors.ErrTransportNotStarted
)
