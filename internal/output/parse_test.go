package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_Progress(t *testing.T) {
	event := ParseLine("Filling DEM depressions: 43%")

	progress, ok := event.(*ProgressEvent)
	require.True(t, ok)
	assert.Equal(t, "Filling DEM depressions:", progress.Label)
	assert.Equal(t, 43, progress.Percent)
	assert.Equal(t, "Filling DEM depressions: 43%", progress.Line())
}

func TestParseLine_ProgressComplete(t *testing.T) {
	event := ParseLine("Calculating aspect: 100%")

	progress, ok := event.(*ProgressEvent)
	require.True(t, ok)
	assert.Equal(t, 100, progress.Percent)
}

func TestParseLine_PercentNotLastField(t *testing.T) {
	// A percentage in the middle of a line is not a progress update
	event := ParseLine("Cells at 50% saturation were skipped")

	assert.IsType(t, &TextEvent{}, event)
}

func TestParseLine_Error(t *testing.T) {
	event := ParseLine("Error: input file not found")

	errEvent, ok := event.(*ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, "Error: input file not found", errEvent.Text)
	assert.Equal(t, "Error: input file not found", errEvent.Line())
}

func TestParseLine_ErrorCaseInsensitive(t *testing.T) {
	event := ParseLine("encountered an ERROR while reading header")

	assert.IsType(t, &ErrorEvent{}, event)
}

func TestParseLine_Text(t *testing.T) {
	event := ParseLine("Operation complete!")

	textEvent, ok := event.(*TextEvent)
	require.True(t, ok)
	assert.Equal(t, "Operation complete!", textEvent.Text)
	assert.Equal(t, "Operation complete!", textEvent.Line())
}

func TestIsUnknownTool(t *testing.T) {
	assert.True(t, IsUnknownTool("Unrecognized tool name 'Aspct'. Use the -listtools flag."))
	assert.True(t, IsUnknownTool("  Unrecognized tool name 'X'"))
	assert.False(t, IsUnknownTool("Operation complete!"))
	assert.False(t, IsUnknownTool(""))
}

func TestParseToolList(t *testing.T) {
	listing := "The following 3 tools are available:\n" +
		"Aspect              Calculates aspect from a DEM.\n" +
		"BreachDepressions   Breaches depressions in a DEM.\n" +
		"FillDepressions     Fills depressions in a DEM.\n"

	tools := ParseToolList(listing)

	require.Len(t, tools, 3)
	assert.Equal(t, ToolInfo{Name: "Aspect", Description: "Calculates aspect from a DEM."}, tools[0])
	assert.Equal(t, ToolInfo{Name: "BreachDepressions", Description: "Breaches depressions in a DEM."}, tools[1])
	assert.Equal(t, ToolInfo{Name: "FillDepressions", Description: "Fills depressions in a DEM."}, tools[2])
}

func TestParseToolList_SkipsBlankLines(t *testing.T) {
	listing := "\nThe following 1 tools are available:\n\nAspect   Calculates aspect from a DEM.\n\n"

	tools := ParseToolList(listing)

	require.Len(t, tools, 1)
	assert.Equal(t, "Aspect", tools[0].Name)
}

func TestParseToolList_Empty(t *testing.T) {
	assert.Empty(t, ParseToolList(""))
	assert.Empty(t, ParseToolList("The following 0 tools are available:\n"))
}

func TestParseToolArgs(t *testing.T) {
	out := "The following arguments are listed for 'FillDepressions':\n" +
		"InputDEM            Input digital elevation model.\n" +
		"OutputFile          Output DEM file.\n" +
		"FixFlats            Boolean; fix flat areas.\n"

	args := ParseToolArgs(out)

	require.Len(t, args, 3)
	assert.Equal(t, "InputDEM            Input digital elevation model.", args[0])
	assert.Equal(t, "FixFlats            Boolean; fix flat areas.", args[2])
}

func TestParseToolArgs_Empty(t *testing.T) {
	assert.Empty(t, ParseToolArgs(""))
	assert.Empty(t, ParseToolArgs("The following arguments are listed for 'X':\n"))
}
