package gospatialsdk

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/jblindsay/gospatial-sdk-go/internal/cli"
	"github.com/jblindsay/gospatial-sdk-go/internal/config"
	sdkerrors "github.com/jblindsay/gospatial-sdk-go/internal/errors"
	"github.com/jblindsay/gospatial-sdk-go/internal/output"
	"github.com/jblindsay/gospatial-sdk-go/internal/subprocess"
)

// getLoggerWithComponent returns a logger with the component field set.
func getLoggerWithComponent(options *Options, component string) *slog.Logger {
	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	return log.With("component", component)
}

// newTransport creates a transport for a one-shot invocation, honoring an
// injected custom transport.
func newTransport(
	log *slog.Logger,
	inv cli.Invocation,
	options *Options,
) config.Transport {
	if options.Transport != nil {
		log.Debug("Using injected custom transport")

		return options.Transport
	}

	log.Debug("Creating CLI transport", "op", inv.Op)

	return subprocess.NewCLITransport(log, inv, options)
}

// capture runs a one-shot invocation and accumulates the merged output
// stream into a single string, preserving line breaks.
func capture(
	ctx context.Context,
	component string,
	inv cli.Invocation,
	opts []Option,
) (string, error) {
	options := applyOptions(opts)

	log := getLoggerWithComponent(options, component)
	log.Debug("Starting one-shot invocation")

	transport := newTransport(log, inv, options)

	if err := transport.Start(ctx); err != nil {
		log.Error("Failed to start go-spatial", "error", err)

		return "", err
	}

	defer transport.Close()

	// go-spatial reads nothing in flag mode
	if err := transport.EndInput(); err != nil {
		return "", fmt.Errorf("close stdin: %w", err)
	}

	lines, errs := transport.ReadLines(ctx)

	var b strings.Builder

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// Errs is closed before lines, so this cannot block
				if err := <-errs; err != nil {
					log.Error("Error from transport", "error", err)

					return "", err
				}

				return b.String(), nil
			}

			b.WriteString(line)
			b.WriteString("\n")

		case <-ctx.Done():
			log.Debug("Context cancelled")

			return "", ctx.Err()
		}
	}
}

// Help returns the go-spatial top-level help text, a listing of available
// commands.
func Help(ctx context.Context, opts ...Option) (string, error) {
	return capture(ctx, "help", cli.Invocation{Op: cli.OpHelp}, opts)
}

// Version returns the go-spatial version banner,
// e.g. "GoSpatial version 0.1.1".
func Version(ctx context.Context, opts ...Option) (string, error) {
	out, err := capture(ctx, "version", cli.Invocation{Op: cli.OpVersion}, opts)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// ListTools returns the tools the go-spatial executable provides, parsed
// from its -listtools output.
func ListTools(ctx context.Context, opts ...Option) ([]ToolInfo, error) {
	out, err := capture(ctx, "list_tools", cli.Invocation{Op: cli.OpListTools}, opts)
	if err != nil {
		return nil, err
	}

	return output.ParseToolList(out), nil
}

// ToolHelp returns the help documentation for the named tool.
//
// Returns UnknownToolError if go-spatial does not recognize the tool name.
func ToolHelp(ctx context.Context, tool string, opts ...Option) (string, error) {
	out, err := capture(ctx, "tool_help", cli.Invocation{Op: cli.OpToolHelp, Tool: tool}, opts)
	if err != nil {
		return "", err
	}

	if output.IsUnknownTool(out) {
		return "", &sdkerrors.UnknownToolError{Tool: tool}
	}

	return out, nil
}

// ToolArgs returns the argument descriptions for the named tool, parsed
// from its -toolargs output.
//
// Returns UnknownToolError if go-spatial does not recognize the tool name.
func ToolArgs(ctx context.Context, tool string, opts ...Option) ([]string, error) {
	out, err := capture(ctx, "tool_args", cli.Invocation{Op: cli.OpToolArgs, Tool: tool}, opts)
	if err != nil {
		return nil, err
	}

	if output.IsUnknownTool(out) {
		return nil, &sdkerrors.UnknownToolError{Tool: tool}
	}

	return output.ParseToolArgs(out), nil
}

// RunTool executes a go-spatial tool and returns an iterator of output events.
//
// Arguments are double-quote-stripped and semicolon-joined into the -args
// flag; the working directory from WithWorkingDir travels via -cwd. Each
// output line is trimmed and classified as it arrives: progress updates
// become *ProgressEvent, diagnostics become *ErrorEvent, everything else
// *TextEvent.
//
// Example usage:
//
//	ctx := context.Background()
//	for ev, err := range RunTool(ctx, "Aspect", []string{"DEM.dep", "aspect.dep"},
//	    WithExecutableDir("/opt/gospatial"),
//	    WithWorkingDir("/data/JayStateForest"),
//	) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if p, ok := ev.(*ProgressEvent); ok {
//	        fmt.Printf("Progress: %d%%\n", p.Percent)
//	    }
//	}
//
// Error Handling:
//
// Errors are yielded inline as the second return value. Spawn failures,
// context cancellation, and nonzero process exits stop iteration after
// yielding the error. An unknown tool name yields UnknownToolError. Callers
// can always stop iteration early by breaking from the loop.
func RunTool(
	ctx context.Context,
	tool string,
	args []string,
	opts ...Option,
) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		options := applyOptions(opts)

		log := getLoggerWithComponent(options, "run_tool")
		log.Debug("Starting tool run", "tool", tool, "arg_count", len(args))

		inv := cli.Invocation{
			Op:         cli.OpRun,
			Tool:       tool,
			Args:       args,
			WorkingDir: options.WorkingDir,
		}

		transport := newTransport(log, inv, options)

		if err := transport.Start(ctx); err != nil {
			log.Error("Failed to start go-spatial", "error", err)
			yield(nil, err)

			return
		}

		defer transport.Close()

		if err := transport.EndInput(); err != nil {
			yield(nil, fmt.Errorf("close stdin: %w", err))

			return
		}

		lines, errs := transport.ReadLines(ctx)

		log.Debug("Streaming tool output")

		for {
			select {
			case line, ok := <-lines:
				if !ok {
					// Errs is closed before lines, so this cannot block
					if err := <-errs; err != nil {
						log.Error("Error from transport", "error", err)
						yield(nil, err)
					}

					return
				}

				line = strings.TrimSpace(line)

				if output.IsUnknownTool(line) {
					yield(nil, &sdkerrors.UnknownToolError{Tool: tool})

					return
				}

				if !yield(output.ParseLine(line), nil) {
					log.Debug("Yield returned false, stopping iteration")

					return
				}

			case <-ctx.Done():
				log.Debug("Context cancelled")
				yield(nil, ctx.Err())

				return
			}
		}
	}
}

// RunToolFunc executes a go-spatial tool, invoking fn for each output event.
//
// This is the callback form of RunTool. It blocks until the tool finishes
// and returns the first error encountered, or nil on success:
//
//	err := RunToolFunc(ctx, "Aspect", []string{"DEM.dep", "aspect.dep"},
//	    func(ev Event) { fmt.Println(ev.Line()) },
//	    WithWorkingDir("/data/JayStateForest"),
//	)
func RunToolFunc(
	ctx context.Context,
	tool string,
	args []string,
	fn func(Event),
	opts ...Option,
) error {
	for ev, err := range RunTool(ctx, tool, args, opts...) {
		if err != nil {
			return err
		}

		if fn != nil {
			fn(ev)
		}
	}

	return nil
}
