package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jblindsay/gospatial-sdk-go/internal/config"
)

// Op identifies a go-spatial command-line operation.
type Op string

const (
	// OpHelp prints the top-level help listing.
	OpHelp Op = "help"
	// OpVersion prints the version banner.
	OpVersion Op = "version"
	// OpListTools lists all available tools.
	OpListTools Op = "listtools"
	// OpToolHelp prints help documentation for one tool.
	OpToolHelp Op = "toolhelp"
	// OpToolArgs prints the argument descriptions for one tool.
	OpToolArgs Op = "toolargs"
	// OpRun executes a tool with arguments.
	OpRun Op = "run"
)

// ShellPrompt is the prompt go-spatial writes (without a trailing newline)
// when running in interactive mode. The transport treats it as a line
// boundary so the session layer can detect when a response is complete.
const ShellPrompt = "Please enter a command: "

// Invocation describes a single go-spatial process invocation.
type Invocation struct {
	// Op selects which command-line flag set is built.
	Op Op

	// Tool is the tool name for OpToolHelp, OpToolArgs, and OpRun.
	Tool string

	// Args are the tool arguments for OpRun. They are quote-stripped
	// and semicolon-joined into the -args value.
	Args []string

	// WorkingDir is passed via -cwd for OpRun when non-empty.
	WorkingDir string
}

// BuildArgs constructs the command-line arguments for an invocation.
//
// Tool runs take the form: [-cwd <dir>] -run <tool> -args <a1;a2;...>.
// Query operations map directly to their flag (-help, -version, -listtools,
// -toolhelp <name>, -toolargs <name>).
func BuildArgs(inv Invocation) []string {
	switch inv.Op {
	case OpHelp:
		return []string{"-help"}
	case OpVersion:
		return []string{"-version"}
	case OpListTools:
		return []string{"-listtools"}
	case OpToolHelp:
		return []string{"-toolhelp", stripQuotes(inv.Tool)}
	case OpToolArgs:
		return []string{"-toolargs", stripQuotes(inv.Tool)}
	case OpRun:
		args := make([]string, 0, 6)

		if strings.TrimSpace(inv.WorkingDir) != "" {
			args = append(args, "-cwd", stripQuotes(inv.WorkingDir))
		}

		args = append(args, "-run", stripQuotes(strings.TrimSpace(inv.Tool)))
		args = append(args, "-args", JoinToolArgs(inv.Args))

		return args
	}

	return nil
}

// JoinToolArgs serializes tool arguments into the -args flag value.
// Each argument has embedded double quotes stripped, then the arguments
// are joined with semicolons, matching what the go-spatial parser expects.
func JoinToolArgs(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = stripQuotes(a)
	}

	return strings.Join(parts, ";")
}

// ShellRunCommand formats the interactive-shell command to run a tool.
// With arguments it takes the form: run <tool> "a1;a2;...".
func ShellRunCommand(tool string, args []string) string {
	tool = stripQuotes(strings.TrimSpace(tool))
	if len(args) == 0 {
		return "run " + tool
	}

	return fmt.Sprintf("run %s %q", tool, JoinToolArgs(args))
}

// ShellCwdCommand formats the interactive-shell command to change the
// working directory.
func ShellCwdCommand(dir string) string {
	return "cwd " + stripQuotes(dir)
}

// BuildEnvironment constructs the environment for the go-spatial process.
// The parent environment is inherited; options.Env entries are appended
// and therefore override inherited values.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	for key, value := range options.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
