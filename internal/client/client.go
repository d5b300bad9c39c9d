package client

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jblindsay/gospatial-sdk-go/internal/cli"
	"github.com/jblindsay/gospatial-sdk-go/internal/config"
	"github.com/jblindsay/gospatial-sdk-go/internal/errors"
	"github.com/jblindsay/gospatial-sdk-go/internal/output"
	"github.com/jblindsay/gospatial-sdk-go/internal/subprocess"
)

const (
	// defaultLineBufferSize is the buffer size for the lines channel.
	defaultLineBufferSize = 32

	// startupTimeout bounds the wait for the shell banner and first prompt.
	startupTimeout = 30 * time.Second
)

// Session implements the interactive go-spatial shell session.
//
// go-spatial launched without flags runs a command loop that prints a prompt,
// reads one command per line from stdin, and writes output until the next
// prompt. The session tracks prompt tokens on the output stream to know when
// a response is complete.
type Session struct {
	log       *slog.Logger
	transport config.Transport
	options   *config.Options

	// Line channel for data flow (includes prompt tokens)
	lines chan string

	// Fatal error storage
	errMu    sync.RWMutex
	fatalErr error

	// Errgroup for goroutine management
	eg *errgroup.Group

	// Lifecycle management
	mu        sync.Mutex
	done      chan struct{}
	started   bool
	closed    bool      // Tracks if Close() has been called
	closeOnce sync.Once // Ensures Close() only runs once
}

// New creates a new interactive session.
//
// The session is not running after creation. Call Start() with options to
// spawn the shell.
func New() *Session {
	return &Session{
		lines: make(chan string, defaultLineBufferSize),
		done:  make(chan struct{}),
	}
}

// setFatalError stores the first fatal error encountered.
func (s *Session) setFatalError(err error) {
	if err == nil {
		return
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()

	if s.fatalErr == nil {
		s.fatalErr = err
	}
}

// getFatalError returns the stored fatal error, if any.
func (s *Session) getFatalError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()

	return s.fatalErr
}

// isStarted returns true if the session is running.
// This method is safe to call from any goroutine.
func (s *Session) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.started
}

// Start spawns the go-spatial shell and waits for it to become ready.
//
// The startup banner and first prompt are consumed before Start returns, so
// the first ReceiveResponse sees only output produced by the first command.
//
// Returns CLINotFoundError if the binary cannot be located,
// or CLIConnectionError if the process fails to start.
func (s *Session) Start(ctx context.Context, options *config.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSessionClosed
	}

	if s.started {
		return errors.ErrSessionAlreadyStarted
	}

	if options == nil {
		options = &config.Options{}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.log = log.With("component", "session")
	s.options = options

	var transport config.Transport

	if options.Transport != nil {
		transport = options.Transport

		s.log.Debug("Using injected custom transport")
	} else {
		transport = subprocess.NewShellTransport(s.log, options)
	}

	if err := transport.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	s.transport = transport

	// Create errgroup with background context for goroutine management.
	// The caller's ctx may carry a startup timeout; the session should stay
	// alive until explicitly closed, with s.done providing shutdown signaling.
	var egCtx context.Context

	s.eg, egCtx = errgroup.WithContext(context.Background())

	s.eg.Go(func() error {
		return s.readLoop(egCtx)
	})

	// Consume the welcome banner up to the first prompt
	if err := s.awaitPrompt(ctx); err != nil {
		transport.Close()

		return fmt.Errorf("await shell prompt: %w", err)
	}

	// Point the working directory at the configured location before any tool runs
	if options.WorkingDir != "" {
		if err := transport.SendCommand(ctx, []byte(cli.ShellCwdCommand(options.WorkingDir))); err != nil {
			transport.Close()

			return fmt.Errorf("set working directory: %w", err)
		}

		if err := s.awaitPrompt(ctx); err != nil {
			transport.Close()

			return fmt.Errorf("await shell prompt: %w", err)
		}
	}

	s.started = true
	s.log.Info("Session started successfully")

	return nil
}

// awaitPrompt consumes lines until the next shell prompt token.
func (s *Session) awaitPrompt(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	for {
		line, err := s.receive(ctx)
		if err != nil {
			return err
		}

		if line == cli.ShellPrompt {
			return nil
		}

		s.log.Debug("Discarding banner line", "line", line)
	}
}

// readLoop routes transport output into the session line channel.
// Returns an error if a fatal transport error occurs, nil on normal completion.
func (s *Session) readLoop(ctx context.Context) error {
	defer s.log.Debug("Read loop stopped")
	defer close(s.lines)

	tlines, terrs := s.transport.ReadLines(ctx)

	for {
		select {
		case line, ok := <-tlines:
			if !ok {
				s.log.Debug("Transport line channel closed")

				// Errs is closed before lines, so this cannot block
				if err := <-terrs; err != nil {
					s.log.Error("Transport error", "error", err)
					s.setFatalError(err)

					return err
				}

				return nil
			}

			select {
			case s.lines <- line:
			case <-s.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}

		case <-s.done:
			return nil

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Command sends a raw shell command line to go-spatial.
//
// This method returns immediately after sending; use ReceiveResponse() or
// ReceiveLines() to read the output. Any command the shell understands can
// be sent: run, cwd, pwd, version, listtools, toolhelp, toolargs,
// rasterformats, licence.
func (s *Session) Command(ctx context.Context, command string) error {
	if !s.isStarted() {
		return errors.ErrSessionNotStarted
	}

	s.log.Debug("Sending shell command", "command", command)

	return s.transport.SendCommand(ctx, []byte(command))
}

// RunTool sends a run command for the named tool with the given arguments.
//
// This method returns immediately after sending; use ReceiveResponse() to
// stream the tool output.
func (s *Session) RunTool(ctx context.Context, tool string, args []string) error {
	return s.Command(ctx, cli.ShellRunCommand(tool, args))
}

// SetWorkingDir changes the shell working directory.
// Tools run afterwards resolve relative file names against it.
func (s *Session) SetWorkingDir(ctx context.Context, dir string) error {
	return s.Command(ctx, cli.ShellCwdCommand(dir))
}

// receive waits for and returns the next output token.
//
// This method blocks until a token is available, an error occurs, or the
// context is cancelled. Returns io.EOF when the session ends normally.
func (s *Session) receive(ctx context.Context) (string, error) {
	// Check for stored fatal error first
	if err := s.getFatalError(); err != nil {
		return "", err
	}

	select {
	case line, ok := <-s.lines:
		if !ok {
			// Channel closed, wait for errgroup and check for errors
			if s.eg != nil {
				if err := s.eg.Wait(); err != nil {
					s.setFatalError(err)

					return "", err
				}
			}

			return "", io.EOF
		}

		return line, nil

	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ReceiveLines returns an iterator that yields output events indefinitely.
// Events are yielded as they arrive until EOF, an error occurs, or the
// context is cancelled. Prompt tokens are skipped. Unlike ReceiveResponse,
// this iterator does not stop at response boundaries.
func (s *Session) ReceiveLines(ctx context.Context) iter.Seq2[output.Event, error] {
	return func(yield func(output.Event, error) bool) {
		if !s.isStarted() {
			yield(nil, errors.ErrSessionNotStarted)

			return
		}

		for {
			line, err := s.receive(ctx)
			if err != nil {
				yield(nil, err)

				return
			}

			if line == cli.ShellPrompt {
				continue
			}

			if !yield(output.ParseLine(line), nil) {
				return
			}
		}
	}
}

// ReceiveResponse returns an iterator that yields output events until the
// next shell prompt. The prompt marks the end of the current command's
// output; it is consumed but not yielded.
func (s *Session) ReceiveResponse(ctx context.Context) iter.Seq2[output.Event, error] {
	return func(yield func(output.Event, error) bool) {
		if !s.isStarted() {
			yield(nil, errors.ErrSessionNotStarted)

			return
		}

		for {
			line, err := s.receive(ctx)
			if err != nil {
				yield(nil, fmt.Errorf("receive response: %w", err))

				return
			}

			// Prompt marks the response boundary
			if line == cli.ShellPrompt {
				return
			}

			if !yield(output.ParseLine(line), nil) {
				return
			}
		}
	}
}

// Close terminates the session and cleans up resources.
//
// Stdin is closed first so the shell sees EOF and exits on its own; the
// process is then killed as a backstop. After Close(), the session cannot
// be reused - create a new one with New(). Safe to call multiple times.
func (s *Session) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		wasStarted := s.started
		s.started = false
		s.mu.Unlock()

		if !wasStarted {
			return
		}

		s.log.Info("Closing session")

		// Signal shutdown
		close(s.done)

		if s.transport != nil {
			_ = s.transport.EndInput()

			closeErr = s.transport.Close()
		}

		// Wait for errgroup goroutines to complete
		if s.eg != nil {
			if err := s.eg.Wait(); err != nil && closeErr == nil {
				closeErr = err
			}
		}

		s.log.Info("Session closed")
	})

	return closeErr
}
