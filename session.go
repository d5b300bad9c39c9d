package gospatialsdk

import (
	"context"
	"iter"
)

// Session provides an interactive, stateful interface to the go-spatial
// command shell.
//
// Unlike the one-shot functions, a Session keeps one go-spatial process
// alive across many tool runs, avoiding process startup per call. The shell
// working directory set with SetWorkingDir (or WithWorkingDir at Start)
// sticks for the life of the process.
//
// Lifecycle: Sessions are single-use. After Close(), create a new session
// with NewSession().
//
// Example usage:
//
//	session := NewSession()
//	defer session.Close()
//
//	err := session.Start(ctx,
//	    WithExecutableDir("/opt/gospatial"),
//	    WithWorkingDir("/data/JayStateForest"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Run a tool
//	if err := session.RunTool(ctx, "Aspect", []string{"DEM.dep", "aspect.dep"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Receive the output for this run (stops at the next shell prompt)
//	for ev, err := range session.ReceiveResponse(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // Process event...
//	}
type Session interface {
	// Start spawns the go-spatial shell and waits for it to become ready.
	// Must be called before any other methods.
	// Returns CLINotFoundError if the binary cannot be located,
	// or CLIConnectionError if the process fails to start.
	Start(ctx context.Context, opts ...Option) error

	// Command sends a raw shell command line (run, cwd, pwd, version,
	// listtools, toolhelp, toolargs, rasterformats, licence).
	// Returns immediately after sending; use ReceiveResponse() or
	// ReceiveLines() to read the output.
	Command(ctx context.Context, command string) error

	// RunTool sends a run command for the named tool with the given
	// arguments. Returns immediately after sending; use ReceiveResponse()
	// to stream the tool output.
	RunTool(ctx context.Context, tool string, args []string) error

	// SetWorkingDir changes the shell working directory. Tools run
	// afterwards resolve relative file names against it.
	SetWorkingDir(ctx context.Context, dir string) error

	// ReceiveLines returns an iterator that yields output events
	// indefinitely, until EOF, an error, or context cancellation.
	// Unlike ReceiveResponse, it does not stop at response boundaries.
	// Use iter.Pull2 if you need pull-based iteration instead of range.
	ReceiveLines(ctx context.Context) iter.Seq2[Event, error]

	// ReceiveResponse returns an iterator that yields output events until
	// the next shell prompt, which marks the end of the current command's
	// output. Events are yielded as they arrive for streaming consumption.
	// Use iter.Pull2 if you need pull-based iteration instead of range.
	ReceiveResponse(ctx context.Context) iter.Seq2[Event, error]

	// Close terminates the shell process and cleans up resources.
	// After Close(), the session cannot be reused. Safe to call multiple times.
	Close() error
}

// NewSession creates a new interactive session.
//
// Call Start() with options to spawn the shell:
//
//	session := NewSession()
//	err := session.Start(ctx,
//	    WithExecutableDir("/opt/gospatial"),
//	)
func NewSession() Session {
	return newSessionImpl()
}
