package output

import (
	"strconv"
	"strings"
)

// unknownToolPrefix starts the diagnostic go-spatial prints for a tool name
// it does not recognize. It is reported on the output stream, not the exit
// code, so callers must detect it textually.
const unknownToolPrefix = "Unrecognized tool name"

// ParseLine classifies a single trimmed output line.
//
// Lines whose last whitespace-separated field is a percentage (e.g.
// "Filling depressions: 43%") become a *ProgressEvent. Lines mentioning
// "error" become an *ErrorEvent. Everything else is a *TextEvent.
func ParseLine(line string) Event {
	if strings.Contains(line, "%") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			last := fields[len(fields)-1]
			if pctStr, ok := strings.CutSuffix(last, "%"); ok {
				if pct, err := strconv.Atoi(strings.TrimSpace(pctStr)); err == nil {
					return &ProgressEvent{
						Label:   strings.TrimSpace(strings.TrimSuffix(line, last)),
						Percent: pct,
						raw:     line,
					}
				}
			}
		}
	}

	if strings.Contains(strings.ToLower(line), "error") {
		return &ErrorEvent{Text: line}
	}

	return &TextEvent{Text: line}
}

// IsUnknownTool reports whether the line is the go-spatial unknown-tool
// diagnostic.
func IsUnknownTool(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), unknownToolPrefix)
}

// ToolInfo describes one entry from the -listtools output.
type ToolInfo struct {
	Name        string
	Description string
}

// ParseToolList parses the -listtools output into tool entries.
//
// The listing has a header line followed by one line per tool, the name
// padded to a fixed column before the description:
//
//	The following 28 tools are available:
//	Aspect              Calculates aspect from a DEM.
//	BreachDepressions   Breaches depressions in a DEM.
func ParseToolList(s string) []ToolInfo {
	var tools []ToolInfo

	for line := range strings.Lines(s) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Header ends with a colon; tool lines never do.
		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		name := fields[0]
		tools = append(tools, ToolInfo{
			Name:        name,
			Description: strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), name)),
		})
	}

	return tools
}

// ParseToolArgs parses the -toolargs output into argument description lines.
// The header line ("The following arguments are listed for '<tool>':") is
// dropped; the remaining non-empty lines are returned in order.
func ParseToolArgs(s string) []string {
	var args []string

	for line := range strings.Lines(s) {
		line = strings.TrimSpace(strings.TrimRight(line, "\r\n"))
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") && strings.HasPrefix(line, "The following arguments") {
			continue
		}

		args = append(args, line)
	}

	return args
}
