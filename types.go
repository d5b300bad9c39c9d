package gospatialsdk

import (
	"github.com/jblindsay/gospatial-sdk-go/internal/config"
	"github.com/jblindsay/gospatial-sdk-go/internal/output"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// Options configures how the SDK locates and runs the go-spatial executable.
type Options = config.Options

// ===== Output Events =====

// Event is a classified line from the go-spatial output stream.
// Implementations: *ProgressEvent, *ErrorEvent, *TextEvent.
type Event = output.Event

// ProgressEvent is a progress update line, e.g. "Filling depressions: 43%".
type ProgressEvent = output.ProgressEvent

// ErrorEvent is a diagnostic line the tool reported on its output stream.
type ErrorEvent = output.ErrorEvent

// TextEvent is any other output line.
type TextEvent = output.TextEvent

// ===== Tool Metadata =====

// ToolInfo describes one tool from the ListTools listing.
type ToolInfo = output.ToolInfo
