// Package cli provides binary discovery, version probing, and command
// building for the go-spatial executable.
//
// This package provides three main capabilities:
//
// # Binary Discovery
//
// The Discoverer interface locates and validates the go-spatial binary:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    ExecutableDir: "/opt/gospatial", // Optional
//	    Logger:        slog.Default(),
//	})
//	exePath, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.ExecutablePath (if provided)
//  2. Config.ExecutableDir joined with the platform binary name
//  3. System PATH
//  4. Common installation directories (/usr/local/bin, /usr/bin, ~/.local/bin)
//
// # Version Probing
//
// During discovery, `go-spatial -version` is run and the reported version is
// compared against MinimumVersion. A warning is logged if the version is below
// minimum. The probe can be skipped via Config.SkipVersionCheck or the
// GOSPATIAL_SDK_SKIP_VERSION_CHECK environment variable.
//
// # Command Building
//
// BuildArgs maps each SDK operation onto the go-spatial flag surface
// (-help, -version, -listtools, -toolhelp, -toolargs, -cwd/-run/-args),
// including the quote-stripped, semicolon-joined tool argument serialization.
// ShellRunCommand and ShellCwdCommand format commands for the interactive
// shell used by sessions.
package cli
