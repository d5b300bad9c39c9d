package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jblindsay/gospatial-sdk-go/internal/cli"
	"github.com/jblindsay/gospatial-sdk-go/internal/config"
	"github.com/jblindsay/gospatial-sdk-go/internal/errors"
)

const (
	// defaultMaxLineSize is the maximum buffer size for reading output lines.
	defaultMaxLineSize = 1024 * 1024 // 1MB
	// maxStderrBufferSize is the maximum size for the stderr buffer.
	// Stderr lines are always forwarded to the merged stream, but the
	// buffer kept for error reporting stops growing after this limit.
	maxStderrBufferSize = 10 * 1024 * 1024 // 10MB
)

// CLITransport implements Transport by spawning a go-spatial subprocess.
//
// In one-shot mode the process is launched with the flags for a single
// operation and stdin is closed immediately. In interactive mode the process
// is launched with no flags, go-spatial runs its command shell, and commands
// are written to stdin via SendCommand.
type CLITransport struct {
	log         *slog.Logger
	options     *config.Options
	inv         cli.Invocation
	interactive bool
	exePath     string
	args        []string
	env         []string
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	stderr      io.ReadCloser
	mu          sync.Mutex // Protects stdin writes
	closing     bool       // Whether Close() has been called (intentional shutdown)
	stdinClosed bool       // Whether stdin was closed (e.g., due to context cancellation)
}

// Compile-time verification that CLITransport implements the Transport interface.
var _ config.Transport = (*CLITransport)(nil)

// NewCLITransport creates a transport for a single flag-driven invocation.
//
// The logger is used for operation tracking and debugging. Binary discovery
// is deferred to Start(), which searches in the following order:
//  1. The explicit path in options.ExecutablePath (if provided)
//  2. options.ExecutableDir joined with the platform binary name
//  3. The system PATH
//  4. Common installation directories (/usr/local/bin, /usr/bin, ~/.local/bin)
//
// Start() returns CLINotFoundError if the binary cannot be located.
func NewCLITransport(
	log *slog.Logger,
	inv cli.Invocation,
	options *config.Options,
) *CLITransport {
	return &CLITransport{
		log:     log.With("component", "cli_transport"),
		options: options,
		inv:     inv,
	}
}

// NewShellTransport creates a transport for an interactive shell session.
//
// The process is launched with no flags so go-spatial enters its command
// loop. Commands are written to stdin via SendCommand; the prompt string is
// emitted on the line stream as its own token so callers can detect
// response boundaries.
func NewShellTransport(
	log *slog.Logger,
	options *config.Options,
) *CLITransport {
	return &CLITransport{
		log:         log.With("component", "shell_transport"),
		options:     options,
		interactive: true,
	}
}

// Start starts the go-spatial subprocess.
//
// This method discovers the binary, builds command arguments, and spawns the
// process with the configured environment. It sets up stdin, stdout, and
// stderr pipes for communication.
//
// Returns CLINotFoundError if the binary cannot be located,
// or CLIConnectionError if the process fails to start.
func (t *CLITransport) Start(ctx context.Context) error {
	// Run id for correlating log lines across goroutines
	t.log = t.log.With("run_id", ulid.Make().String())

	t.log.Info("Starting go-spatial subprocess")

	discoverer := cli.NewDiscoverer(&cli.Config{
		ExecutablePath:   t.options.ExecutablePath,
		ExecutableDir:    t.options.ExecutableDir,
		SkipVersionCheck: t.options.SkipVersionCheck,
		Logger:           t.log,
	})

	exePath, err := discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover go-spatial: %w", err)
	}

	t.exePath = exePath

	if !t.interactive {
		t.args = cli.BuildArgs(t.inv)
	}

	t.log.Debug("Built command arguments", "args", t.args)

	t.env = cli.BuildEnvironment(t.options)

	//nolint:gosec // G204: Subprocess launching with dynamic args is the purpose of this transport
	cmd := exec.CommandContext(ctx, t.exePath, t.args...)
	cmd.Env = t.env

	// go-spatial resolves its own relative paths against the directory it
	// runs in; tool file paths travel via the -cwd flag instead.
	if t.options.ExecutableDir != "" {
		cmd.Dir = t.options.ExecutableDir
		t.log.Debug("Set process directory", "dir", cmd.Dir)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.CLIConnectionError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	t.stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.CLIConnectionError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	t.stdout = stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.log.Error("Failed to create stderr pipe", "error", err)

		return &errors.CLIConnectionError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	t.stderr = stderr

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start go-spatial process", "error", err)

		return &errors.CLIConnectionError{Err: fmt.Errorf("start process: %w", err)}
	}

	t.cmd = cmd
	t.log.Info("go-spatial subprocess started successfully", "pid", cmd.Process.Pid)

	return nil
}

// ReadLines reads the merged stdout/stderr stream from the process.
//
// Two scanner goroutines feed a single line channel: one for stdout and one
// for stderr, so diagnostics interleave with regular output the way they
// would in a terminal. Stderr lines are additionally buffered (capped) for
// error reporting.
//
// The goroutines exit when:
//   - The process terminates
//   - The context is cancelled
//   - An unrecoverable read error occurs
//
// After both pipes drain, the process exit status is collected; a nonzero
// exit produces a ProcessError on the error channel unless Close() was
// called. Both channels are closed when reading completes.
func (t *CLITransport) ReadLines(
	ctx context.Context,
) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)

	maxLineSize := defaultMaxLineSize
	if t.options.MaxLineSize != nil && *t.options.MaxLineSize > 0 {
		maxLineSize = *t.options.MaxLineSize
	}

	var stderrBuffer strings.Builder

	var stderrMu sync.Mutex

	emit := func(line string) error {
		select {
		case lines <- line:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scanner := bufio.NewScanner(t.stdout)
		buf := make([]byte, maxLineSize)
		scanner.Buffer(buf, maxLineSize)

		if t.interactive {
			// Split on newlines and on the shell prompt so the prompt
			// (written without a trailing newline) becomes its own token.
			scanner.Split(scanShellTokens)
		}

		lineCount := 0

		for scanner.Scan() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if err := emit(scanner.Text()); err != nil {
				return err
			}

			lineCount++
		}

		t.log.Debug("Stdout stream ended", "line_count", lineCount)

		if err := scanner.Err(); err != nil {
			t.log.Error("Scanner error while reading stdout", "error", err)

			return fmt.Errorf("scan stdout: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		// Must finish reading before cmd.Wait().
		// See: https://pkg.go.dev/os/exec#Cmd.StderrPipe
		scanner := bufio.NewScanner(t.stderr)
		for scanner.Scan() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			line := scanner.Text()

			stderrMu.Lock()

			if stderrBuffer.Len() < maxStderrBufferSize {
				if stderrBuffer.Len() > 0 {
					stderrBuffer.WriteString("\n")
				}

				stderrBuffer.WriteString(line)
			}

			stderrMu.Unlock()

			if err := emit(line); err != nil {
				return err
			}
		}

		// Scanner errors are logged but not fatal - the process may
		// simply have exited.
		if err := scanner.Err(); err != nil {
			t.log.Debug("Stderr scanner error", "error", err)
		}

		return nil
	})

	go func() {
		defer close(lines)
		defer close(errs)
		defer t.log.Debug("ReadLines finished")

		scanErr := g.Wait()

		t.log.Debug("Waiting for go-spatial process to exit")

		waitErr := t.cmd.Wait()

		t.mu.Lock()
		isClosing := t.closing
		t.mu.Unlock()

		if isClosing {
			t.log.Debug("go-spatial process terminated during shutdown")

			return
		}

		if waitErr != nil {
			stderrMu.Lock()

			stderrOutput := stderrBuffer.String()

			stderrMu.Unlock()

			exitCode := 0

			if exitErr, ok := stderrors.AsType[*exec.ExitError](waitErr); ok {
				exitCode = exitErr.ExitCode()
			}

			t.log.Error("go-spatial process exited with error", "exit_code", exitCode, "stderr", stderrOutput)

			errs <- &errors.ProcessError{
				ExitCode: exitCode,
				Stderr:   stderrOutput,
				Err:      waitErr,
			}

			return
		}

		if scanErr != nil {
			errs <- scanErr

			return
		}

		t.log.Info("go-spatial process exited successfully")
	}()

	return lines, errs
}

// SendCommand writes a command line to the process stdin.
//
// A trailing newline is appended if missing. This method is safe for
// concurrent use and respects context cancellation even during blocking
// writes.
//
// If the context is cancelled during a blocked write, stdin is closed to
// unblock the write (safe since Go 1.9+). Subsequent calls return
// ErrStdinClosed.
func (t *CLITransport) SendCommand(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdin == nil {
		return errors.ErrTransportNotStarted
	}

	if t.stdinClosed {
		return errors.ErrStdinClosed
	}

	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.log.Debug("Sending command", "data_len", len(data))

	// Ensure data ends with newline
	// Use explicit copy to avoid mutating caller's backing array if slice has spare capacity
	if len(data) == 0 || data[len(data)-1] != '\n' {
		newData := make([]byte, len(data)+1)
		copy(newData, data)
		newData[len(data)] = '\n'
		data = newData
	}

	// Write in goroutine to respect context cancellation
	done := make(chan error, 1)

	go func() {
		_, err := t.stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.log.Error("Failed to write command", "error", err)

			return fmt.Errorf("write to stdin: %w", err)
		}

		t.log.Debug("Command sent successfully")

		return nil

	case <-ctx.Done():
		t.log.Debug("Context cancelled during write, closing stdin")

		if t.stdin != nil {
			_ = t.stdin.Close()
			t.stdinClosed = true
		}
		// Wait for goroutine to exit with timeout to prevent leak
		select {
		case <-done:
		case <-time.After(1 * time.Second):
			t.log.Warn("Write goroutine did not exit after stdin close, potential leak")
		}

		return ctx.Err()
	}
}

// IsReady checks if the transport is ready for communication.
//
// Returns true if the process is running and stdin is open.
func (t *CLITransport) IsReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cmd != nil && t.cmd.Process != nil && t.stdin != nil
}

// EndInput ends the input stream by closing stdin.
//
// For one-shot operations this is called immediately after Start since
// go-spatial reads nothing. For interactive sessions it makes the command
// loop see EOF and exit.
func (t *CLITransport) EndInput() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdin != nil && !t.stdinClosed {
		t.log.Debug("Closing stdin pipe")

		err := t.stdin.Close()
		t.stdinClosed = true
		t.stdin = nil

		return err
	}

	return nil
}

// Close terminates the go-spatial process.
//
// This forcefully kills the process using SIGKILL. It's safe to call Close
// multiple times or on an already-terminated process.
func (t *CLITransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true
	t.stdinClosed = true

	if t.cmd != nil && t.cmd.Process != nil {
		t.log.Debug("Killing go-spatial process", "pid", t.cmd.Process.Pid)

		if err := t.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("kill go-spatial process (pid %d): %w", t.cmd.Process.Pid, err)
		}
	}

	return nil
}

// shellPrompt is the prompt token matched by scanShellTokens.
var shellPrompt = []byte(cli.ShellPrompt)

// scanShellTokens is a bufio.SplitFunc that splits on newlines and on the
// interactive shell prompt. go-spatial writes the prompt without a trailing
// newline, so a plain line scanner would hold it in its buffer and glue it
// to the front of the next output line.
func scanShellTokens(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if bytes.HasPrefix(data, shellPrompt) {
		return len(shellPrompt), shellPrompt, nil
	}

	nl := bytes.IndexByte(data, '\n')
	pi := bytes.Index(data, shellPrompt)

	// Prompt embedded mid-buffer before any newline: emit the text before it
	// as a token, the prompt itself is picked up on the next call.
	if pi > 0 && (nl < 0 || pi < nl) {
		return pi, dropCR(data[:pi]), nil
	}

	if nl >= 0 {
		return nl + 1, dropCR(data[:nl]), nil
	}

	if atEOF {
		return len(data), dropCR(data), nil
	}

	// Request more data. A partially-written prompt stays buffered until the
	// rest of it arrives.
	return 0, nil, nil
}

// dropCR drops a terminal \r from the data.
func dropCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}

	return data
}
