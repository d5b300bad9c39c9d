package gospatialsdk

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jblindsay/gospatial-sdk-go/internal/cli"
)

// fakeShell simulates the interactive go-spatial shell for lifecycle tests:
// a prompt on start and a scripted response plus prompt per command.
type fakeShell struct {
	mu        sync.Mutex
	responses map[string][]string
	sent      []string
	lines     chan string
	errs      chan error
	closed    bool
}

var _ Transport = (*fakeShell)(nil)

func newFakeShell() *fakeShell {
	return &fakeShell{
		responses: make(map[string][]string),
		lines:     make(chan string, 256),
		errs:      make(chan error, 1),
	}
}

func (f *fakeShell) Start(_ context.Context) error {
	f.lines <- "Welcome to GoSpatial!"
	f.lines <- cli.ShellPrompt

	return nil
}

func (f *fakeShell) ReadLines(_ context.Context) (<-chan string, <-chan error) {
	return f.lines, f.errs
}

func (f *fakeShell) SendCommand(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	command := strings.TrimSuffix(string(data), "\n")
	f.sent = append(f.sent, command)

	for _, line := range f.responses[command] {
		f.lines <- line
	}

	f.lines <- cli.ShellPrompt

	return nil
}

func (f *fakeShell) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.errs)
		close(f.lines)
	}

	return nil
}

func (f *fakeShell) IsReady() bool { return true }

func (f *fakeShell) EndInput() error { return nil }

func TestWithSession(t *testing.T) {
	shell := newFakeShell()
	shell.responses["run Aspect"] = []string{"Operation complete!"}

	ctx := context.Background()

	var lines []string

	err := WithSession(ctx, func(s Session) error {
		if err := s.RunTool(ctx, "Aspect", nil); err != nil {
			return err
		}

		for event, err := range s.ReceiveResponse(ctx) {
			if err != nil {
				return err
			}

			lines = append(lines, event.Line())
		}

		return nil
	}, WithTransport(shell))

	require.NoError(t, err)
	assert.Equal(t, []string{"Operation complete!"}, lines)
	assert.True(t, shell.closed, "session close tears down the transport")
}

func TestWithSession_CallbackError(t *testing.T) {
	shell := newFakeShell()
	wantErr := stderrors.New("callback failed")

	err := WithSession(context.Background(), func(Session) error {
		return wantErr
	}, WithTransport(shell))

	assert.ErrorIs(t, err, wantErr)
	assert.True(t, shell.closed, "transport closed even when the callback fails")
}

func TestWithSession_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithSession(ctx, func(Session) error {
		t.Fatal("callback must not run with a cancelled context")

		return nil
	}, WithTransport(newFakeShell()))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithSession_StartError(t *testing.T) {
	transport := &fakeTransport{
		startErr: &CLIConnectionError{Err: stderrors.New("spawn failed")},
	}

	err := WithSession(context.Background(), func(Session) error {
		t.Fatal("callback must not run when startup fails")

		return nil
	}, WithTransport(transport))

	var connErr *CLIConnectionError
	assert.ErrorAs(t, err, &connErr)
}
