package output

// Event is a classified line from the go-spatial output stream.
// Implementations: *ProgressEvent, *ErrorEvent, *TextEvent.
type Event interface {
	event() // marker method

	// Line returns the original output line text.
	Line() string
}

// Compile-time verification that all event types implement Event.
var (
	_ Event = (*ProgressEvent)(nil)
	_ Event = (*ErrorEvent)(nil)
	_ Event = (*TextEvent)(nil)
)

// ProgressEvent is a progress update line, e.g. "Filling depressions: 43%".
type ProgressEvent struct {
	// Label is the line text without the trailing percentage field.
	Label string

	// Percent is the reported completion percentage.
	Percent int

	raw string
}

func (*ProgressEvent) event() {}

// Line returns the original output line text.
func (e *ProgressEvent) Line() string { return e.raw }

// ErrorEvent is a diagnostic line the tool reported on its output stream.
type ErrorEvent struct {
	Text string
}

func (*ErrorEvent) event() {}

// Line returns the original output line text.
func (e *ErrorEvent) Line() string { return e.Text }

// TextEvent is any other output line.
type TextEvent struct {
	Text string
}

func (*TextEvent) event() {}

// Line returns the original output line text.
func (e *TextEvent) Line() string { return e.Text }
