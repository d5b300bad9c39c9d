package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jblindsay/gospatial-sdk-go/internal/cli"
	"github.com/jblindsay/gospatial-sdk-go/internal/config"
	"github.com/jblindsay/gospatial-sdk-go/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeFakeBinary writes a shell script standing in for the go-spatial
// binary and returns its path. Skips the test on Windows.
func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake binaries are shell scripts; skipping on Windows")
	}

	path := filepath.Join(t.TempDir(), "go-spatial")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))

	return path
}

func fakeOptions(exePath string) *config.Options {
	return &config.Options{
		ExecutablePath:   exePath,
		SkipVersionCheck: true,
	}
}

func collectLines(t *testing.T, lines <-chan string, errs <-chan error) ([]string, error) {
	t.Helper()

	var out []string

	for line := range lines {
		out = append(out, line)
	}

	// Errs is closed before lines, so this cannot block.
	return out, <-errs
}

func TestCLITransport_StreamsStdout(t *testing.T) {
	exe := writeFakeBinary(t, `
echo "line one"
echo "line two"
echo "Operation complete!"
`)

	transport := NewCLITransport(testLogger(), cli.Invocation{Op: cli.OpListTools}, fakeOptions(exe))

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))
	require.NoError(t, transport.EndInput())

	lines, errs := transport.ReadLines(ctx)

	got, err := collectLines(t, lines, errs)
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two", "Operation complete!"}, got)
}

func TestCLITransport_MergesStderr(t *testing.T) {
	exe := writeFakeBinary(t, `
echo "stdout line"
echo "stderr line" >&2
sleep 0.05
`)

	transport := NewCLITransport(testLogger(), cli.Invocation{Op: cli.OpHelp}, fakeOptions(exe))

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))
	require.NoError(t, transport.EndInput())

	lines, errs := transport.ReadLines(ctx)

	got, err := collectLines(t, lines, errs)
	require.NoError(t, err)

	// Stdout and stderr interleave nondeterministically; check membership.
	assert.Contains(t, got, "stdout line")
	assert.Contains(t, got, "stderr line")
}

func TestCLITransport_NonzeroExitProducesProcessError(t *testing.T) {
	exe := writeFakeBinary(t, `
echo "fatal: cannot read input" >&2
exit 3
`)

	transport := NewCLITransport(testLogger(), cli.Invocation{Op: cli.OpHelp}, fakeOptions(exe))

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))
	require.NoError(t, transport.EndInput())

	lines, errs := transport.ReadLines(ctx)

	_, err := collectLines(t, lines, errs)
	require.Error(t, err)

	procErr, ok := stderrors.AsType[*errors.ProcessError](err)
	require.True(t, ok)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Contains(t, procErr.Stderr, "fatal: cannot read input")
}

func TestCLITransport_PassesInvocationArgs(t *testing.T) {
	exe := writeFakeBinary(t, `
for arg in "$@"; do
  echo "$arg"
done
`)

	transport := NewCLITransport(testLogger(), cli.Invocation{
		Op:         cli.OpRun,
		Tool:       "Aspect",
		Args:       []string{"DEM.dep", "aspect.dep"},
		WorkingDir: "/data",
	}, fakeOptions(exe))

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))
	require.NoError(t, transport.EndInput())

	lines, errs := transport.ReadLines(ctx)

	got, err := collectLines(t, lines, errs)
	require.NoError(t, err)
	assert.Equal(t, []string{"-cwd", "/data", "-run", "Aspect", "-args", "DEM.dep;aspect.dep"}, got)
}

func TestCLITransport_StartBinaryNotFound(t *testing.T) {
	transport := NewCLITransport(testLogger(), cli.Invocation{Op: cli.OpHelp}, fakeOptions("/nonexistent/go-spatial"))

	err := transport.Start(context.Background())
	require.Error(t, err)

	_, ok := stderrors.AsType[*errors.CLINotFoundError](err)
	assert.True(t, ok)
}

func TestCLITransport_SendCommandBeforeStart(t *testing.T) {
	transport := NewShellTransport(testLogger(), fakeOptions("/nonexistent/go-spatial"))

	err := transport.SendCommand(context.Background(), []byte("run Aspect"))
	assert.ErrorIs(t, err, errors.ErrTransportNotStarted)
}

func TestCLITransport_SendCommandCancelledContext(t *testing.T) {
	exe := writeFakeBinary(t, `
cat > /dev/null
`)

	transport := NewShellTransport(testLogger(), fakeOptions(exe))
	require.NoError(t, transport.Start(context.Background()))

	defer func() { _ = transport.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := transport.SendCommand(ctx, []byte("run Aspect"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCLITransport_CloseBeforeStart(t *testing.T) {
	transport := NewShellTransport(testLogger(), fakeOptions("/nonexistent/go-spatial"))

	assert.NoError(t, transport.Close())
}

func TestCLITransport_CloseIsIdempotent(t *testing.T) {
	exe := writeFakeBinary(t, `
cat > /dev/null
`)

	transport := NewShellTransport(testLogger(), fakeOptions(exe))
	require.NoError(t, transport.Start(context.Background()))

	require.NoError(t, transport.Close())
	// Second close on a killed process must not panic; the kill itself may
	// report that the process already exited.
	_ = transport.Close()
}

func TestCLITransport_IsReady(t *testing.T) {
	exe := writeFakeBinary(t, `
cat > /dev/null
`)

	transport := NewShellTransport(testLogger(), fakeOptions(exe))
	assert.False(t, transport.IsReady())

	require.NoError(t, transport.Start(context.Background()))

	defer func() { _ = transport.Close() }()

	assert.True(t, transport.IsReady())
}

func TestCLITransport_CloseSuppressesProcessError(t *testing.T) {
	exe := writeFakeBinary(t, `
printf 'Please enter a command: '
cat > /dev/null
`)

	transport := NewShellTransport(testLogger(), fakeOptions(exe))

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	lines, errs := transport.ReadLines(ctx)

	// Wait for the prompt so we know the process is up.
	select {
	case line := <-lines:
		assert.Equal(t, cli.ShellPrompt, line)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for prompt")
	}

	require.NoError(t, transport.Close())

	// Killed during shutdown: the stream drains with no error reported.
	got, err := collectLines(t, lines, errs)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestCLITransport_InteractiveRoundTrip(t *testing.T) {
	exe := writeFakeBinary(t, `
printf 'Please enter a command: '
while read line; do
  echo "got: $line"
  printf 'Please enter a command: '
done
`)

	transport := NewShellTransport(testLogger(), fakeOptions(exe))

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	defer func() { _ = transport.Close() }()

	lines, errs := transport.ReadLines(ctx)

	readToken := func() string {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "line stream closed early")

			return line
		case err := <-errs:
			t.Fatalf("unexpected transport error: %v", err)

			return ""
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for output")

			return ""
		}
	}

	// The prompt arrives as its own token despite the missing newline.
	assert.Equal(t, cli.ShellPrompt, readToken())

	require.NoError(t, transport.SendCommand(ctx, []byte("run Aspect")))
	assert.Equal(t, "got: run Aspect", readToken())
	assert.Equal(t, cli.ShellPrompt, readToken())

	// EOF on stdin ends the command loop cleanly.
	require.NoError(t, transport.EndInput())

	for line := range lines {
		_ = line
	}

	assert.NoError(t, <-errs)
}

func TestScanShellTokens(t *testing.T) {
	scan := func(input string) []string {
		scanner := bufio.NewScanner(strings.NewReader(input))
		scanner.Split(scanShellTokens)

		var tokens []string
		for scanner.Scan() {
			tokens = append(tokens, scanner.Text())
		}

		require.NoError(t, scanner.Err())

		return tokens
	}

	t.Run("plain lines", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, scan("a\nb\n"))
	})

	t.Run("crlf", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, scan("a\r\nb\r\n"))
	})

	t.Run("trailing prompt without newline", func(t *testing.T) {
		assert.Equal(t,
			[]string{"banner", cli.ShellPrompt},
			scan("banner\n"+cli.ShellPrompt))
	})

	t.Run("prompt glued to next output", func(t *testing.T) {
		assert.Equal(t,
			[]string{cli.ShellPrompt, "Operation complete!"},
			scan(cli.ShellPrompt+"Operation complete!\n"))
	})

	t.Run("output then prompt mid-buffer", func(t *testing.T) {
		assert.Equal(t,
			[]string{"done", cli.ShellPrompt, cli.ShellPrompt},
			scan("done\n"+cli.ShellPrompt+cli.ShellPrompt))
	})

	t.Run("final line without newline", func(t *testing.T) {
		assert.Equal(t, []string{"a", "tail"}, scan("a\ntail"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, scan(""))
	})
}
