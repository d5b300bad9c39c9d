package config

import "context"

// Transport defines the interface for go-spatial process communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative execution methods (e.g., remote invocation).
//
// The default implementation is CLITransport which spawns a subprocess.
// Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start launches the process and prepares it for communication.
	// This is called before any output is read or input is sent.
	Start(ctx context.Context) error

	// ReadLines returns channels for receiving output lines and errors.
	// The line channel yields the merged stdout/stderr stream, one line
	// at a time, in arrival order. The error channel yields any errors
	// that occur during reading, including process exit failures.
	// Both channels are closed when the process output ends.
	ReadLines(ctx context.Context) (<-chan string, <-chan error)

	// SendCommand writes a command line to the process stdin.
	// A trailing newline is appended if missing.
	// This method must be safe for concurrent use.
	SendCommand(ctx context.Context, data []byte) error

	// Close terminates the transport and releases resources.
	// It's safe to call Close multiple times.
	Close() error

	// IsReady returns true if the transport is ready for communication.
	IsReady() bool

	// EndInput signals that no more input will be sent.
	// For process-based transports, this closes stdin.
	EndInput() error
}
