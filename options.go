package gospatialsdk

import (
	"log/slog"

	"github.com/jblindsay/gospatial-sdk-go/internal/config"
)

// Option configures Options using the functional options pattern.
// This is the primary option type for configuring queries and sessions.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithExecutableDir sets the directory containing the go-spatial binary.
// The platform-appropriate binary name is appended (go-spatial.exe on
// Windows). If not set, the binary is searched in PATH and common install
// locations.
func WithExecutableDir(dir string) Option {
	return func(o *Options) {
		o.ExecutableDir = dir
	}
}

// WithExecutablePath sets the explicit path to the go-spatial binary.
// If set, it takes precedence over WithExecutableDir and PATH search.
func WithExecutablePath(path string) Option {
	return func(o *Options) {
		o.ExecutablePath = path
	}
}

// WithWorkingDir sets the working directory go-spatial resolves relative
// file names against. When set, tool runs don't need complete file paths.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv provides additional environment variables for the process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithSkipVersionCheck skips the go-spatial version probe during discovery.
func WithSkipVersionCheck(skip bool) Option {
	return func(o *Options) {
		o.SkipVersionCheck = skip
	}
}

// WithMaxLineSize sets the maximum bytes for a single output line.
func WithMaxLineSize(size int) Option {
	return func(o *Options) {
		o.MaxLineSize = &size
	}
}

// WithTransport injects a custom transport implementation.
// The transport must implement the Transport interface.
func WithTransport(transport config.Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}
