// Package config provides configuration types for the go-spatial SDK.
package config

import (
	"log/slog"
)

// Options configures how the SDK locates and runs the go-spatial executable.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// ExecutableDir is the directory containing the go-spatial binary.
	// The platform-appropriate binary name is appended (go-spatial.exe
	// on Windows). If empty, the binary is searched in PATH and common
	// install locations.
	ExecutableDir string

	// ExecutablePath is the explicit path to the go-spatial binary.
	// If set, it takes precedence over ExecutableDir and PATH search.
	ExecutablePath string

	// WorkingDir is the working directory passed to go-spatial via the
	// -cwd flag (or the cwd shell command for interactive sessions).
	// When set, tools resolve relative file names against it.
	WorkingDir string

	// Env provides additional environment variables for the process.
	Env map[string]string

	// SkipVersionCheck skips the go-spatial version probe during discovery.
	// Can also be controlled via the GOSPATIAL_SDK_SKIP_VERSION_CHECK env var.
	SkipVersionCheck bool

	// MaxLineSize sets the maximum bytes for a single output line.
	// If nil, a default of 1MB is used.
	MaxLineSize *int

	// Transport allows injecting a custom transport implementation.
	// If nil, the default CLITransport is created automatically.
	// This field is not serialized to JSON.
	Transport Transport `json:"-"`
}
