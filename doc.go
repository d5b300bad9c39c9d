// Package gospatialsdk provides a Go SDK for scripting the go-spatial
// command-line tool.
//
// The SDK shells out to a separately-built go-spatial executable, streams its
// merged stdout/stderr output line by line, and surfaces it as typed events.
// All geospatial processing (terrain analysis, raster conversion, depression
// filling, and so on) happens inside the external binary; this package only
// builds invocations, spawns the process, and relays its output.
//
// # Basic Usage
//
// For one-shot queries, use the top-level functions:
//
//	ctx := context.Background()
//
//	tools, err := gospatialsdk.ListTools(ctx,
//	    gospatialsdk.WithExecutableDir("/opt/gospatial"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, tool := range tools {
//	    fmt.Printf("%s - %s\n", tool.Name, tool.Description)
//	}
//
// To run a tool and follow its progress, range over RunTool:
//
//	for ev, err := range gospatialsdk.RunTool(ctx, "Aspect",
//	    []string{"DEM.dep", "aspect.dep"},
//	    gospatialsdk.WithExecutableDir("/opt/gospatial"),
//	    gospatialsdk.WithWorkingDir("/data/JayStateForest"),
//	) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    switch e := ev.(type) {
//	    case *gospatialsdk.ProgressEvent:
//	        fmt.Printf("Progress: %d%%\n", e.Percent)
//	    case *gospatialsdk.ErrorEvent:
//	        fmt.Printf("ERROR: %s\n", e.Text)
//	    }
//	}
//
// RunToolFunc offers the same as a per-line callback instead of an iterator.
//
// # Interactive Sessions
//
// go-spatial launched without flags runs an interactive command shell. A
// Session keeps one shell process alive across many tool runs, avoiding
// process startup per call:
//
//	err := gospatialsdk.WithSession(ctx, func(s gospatialsdk.Session) error {
//	    if err := s.RunTool(ctx, "FillDepressions", []string{"DEM.dep", "filled.dep"}); err != nil {
//	        return err
//	    }
//	    for ev, err := range s.ReceiveResponse(ctx) {
//	        if err != nil {
//	            return err
//	        }
//	        // process event...
//	    }
//	    return nil
//	},
//	    gospatialsdk.WithExecutableDir("/opt/gospatial"),
//	    gospatialsdk.WithWorkingDir("/data/JayStateForest"),
//	)
//
// # Logging
//
// Logging is disabled by default. Use WithLogger for operation tracking:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	help, err := gospatialsdk.Help(ctx, gospatialsdk.WithLogger(logger))
//
// # Error Handling
//
// The SDK provides typed errors for different failure scenarios:
//
//	_, err := gospatialsdk.ToolHelp(ctx, "Aspect")
//	if err != nil {
//	    if nfErr, ok := errors.AsType[*gospatialsdk.CLINotFoundError](err); ok {
//	        log.Fatalf("go-spatial not installed, searched: %v", nfErr.SearchedPaths)
//	    }
//	    if procErr, ok := errors.AsType[*gospatialsdk.ProcessError](err); ok {
//	        log.Fatalf("go-spatial failed with exit code %d: %s", procErr.ExitCode, procErr.Stderr)
//	    }
//	    log.Fatal(err)
//	}
//
// # Requirements
//
// The go-spatial executable must be installed. Point the SDK at it with
// WithExecutableDir or WithExecutablePath, or make it reachable via PATH.
package gospatialsdk
