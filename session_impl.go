package gospatialsdk

import (
	"context"
	"iter"

	"github.com/jblindsay/gospatial-sdk-go/internal/client"
	"github.com/jblindsay/gospatial-sdk-go/internal/config"
)

// sessionWrapper wraps the internal session to adapt it to the public interface.
type sessionWrapper struct {
	impl *client.Session
}

// Compile-time check that *sessionWrapper implements the Session interface.
var _ Session = (*sessionWrapper)(nil)

// newSessionImpl creates the internal session implementation.
func newSessionImpl() Session {
	return &sessionWrapper{impl: client.New()}
}

// Start spawns the go-spatial shell and waits for it to become ready.
func (s *sessionWrapper) Start(ctx context.Context, opts ...Option) error {
	return s.impl.Start(ctx, applyOptionsToConfig(opts))
}

// Command sends a raw shell command line.
func (s *sessionWrapper) Command(ctx context.Context, command string) error {
	return s.impl.Command(ctx, command)
}

// RunTool sends a run command for the named tool with the given arguments.
func (s *sessionWrapper) RunTool(ctx context.Context, tool string, args []string) error {
	return s.impl.RunTool(ctx, tool, args)
}

// SetWorkingDir changes the shell working directory.
func (s *sessionWrapper) SetWorkingDir(ctx context.Context, dir string) error {
	return s.impl.SetWorkingDir(ctx, dir)
}

// ReceiveLines returns an iterator that yields output events indefinitely.
func (s *sessionWrapper) ReceiveLines(ctx context.Context) iter.Seq2[Event, error] {
	return s.impl.ReceiveLines(ctx)
}

// ReceiveResponse returns an iterator that yields output events until the
// next shell prompt.
func (s *sessionWrapper) ReceiveResponse(ctx context.Context) iter.Seq2[Event, error] {
	return s.impl.ReceiveResponse(ctx)
}

// Close terminates the shell process and cleans up resources.
func (s *sessionWrapper) Close() error {
	return s.impl.Close()
}

// applyOptionsToConfig converts public options to internal config.Options.
func applyOptionsToConfig(opts []Option) *config.Options {
	// Options is a type alias to config.Options, so direct use works
	return applyOptions(opts)
}
