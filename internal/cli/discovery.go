package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/jblindsay/gospatial-sdk-go/internal/errors"
)

const (
	// MinimumVersion is the minimum supported go-spatial version.
	MinimumVersion = "0.1.0"

	// VersionCheckTimeout is the timeout for the version probe command.
	VersionCheckTimeout = 2 * time.Second
)

// BinaryName returns the platform-appropriate go-spatial binary name.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "go-spatial.exe"
	}

	return "go-spatial"
}

// Config holds configuration for binary discovery.
type Config struct {
	// ExecutablePath is an explicit binary path that skips all searching.
	ExecutablePath string

	// ExecutableDir is a directory expected to contain the binary.
	// Checked before PATH when ExecutablePath is empty.
	ExecutableDir string

	// SkipVersionCheck skips version validation during discovery.
	// Can also be controlled via the GOSPATIAL_SDK_SKIP_VERSION_CHECK env var.
	SkipVersionCheck bool

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates and validates the go-spatial binary.
type Discoverer interface {
	// Discover locates the go-spatial binary and probes its version.
	// Returns the path to the binary or an error.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new binary discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the go-spatial binary and probes its version.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	d.log.Debug("Discovering go-spatial binary")

	exePath, err := d.findBinary()
	if err != nil {
		d.log.Error("Failed to find go-spatial binary", "error", err)

		return "", err
	}

	d.log.Debug("Found go-spatial binary", "exe_path", exePath)

	d.checkVersion(ctx, exePath)

	return exePath, nil
}

// findBinary locates the go-spatial binary.
func (d *discoverer) findBinary() (string, error) {
	// If explicit path provided, use it and only it
	if d.cfg.ExecutablePath != "" {
		d.log.Debug("Using explicit executable path", "exe_path", d.cfg.ExecutablePath)

		if _, err := os.Stat(d.cfg.ExecutablePath); err == nil {
			return d.cfg.ExecutablePath, nil
		}

		d.log.Debug("Explicit executable path not found", "exe_path", d.cfg.ExecutablePath)

		return "", &errors.CLINotFoundError{SearchedPaths: []string{d.cfg.ExecutablePath}}
	}

	name := BinaryName()
	searchedPaths := make([]string, 0, 5)

	// Check the configured executable directory first
	if d.cfg.ExecutableDir != "" {
		path := filepath.Join(d.cfg.ExecutableDir, name)
		searchedPaths = append(searchedPaths, path)
		d.log.Debug("Checking executable directory", "path", path)

		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	// Search in PATH
	d.log.Debug("Searching for go-spatial in PATH")

	if path, err := exec.LookPath(name); err == nil {
		d.log.Debug("Found go-spatial in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	// Check common locations
	commonPaths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin", name))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)
		d.log.Debug("Checking common path", "path", path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found go-spatial at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("go-spatial not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.CLINotFoundError{SearchedPaths: searchedPaths}
}

// versionRe matches the go-spatial version banner, e.g.
// "GoSpatial version 0.1.1.no build stamp provided".
var versionRe = regexp.MustCompile(`GoSpatial version ([0-9]+\.[0-9]+\.[0-9]+)`)

// checkVersion probes the go-spatial version and warns if below minimum.
// Probe failures are silently ignored.
func (d *discoverer) checkVersion(ctx context.Context, exePath string) {
	// Skip if configured
	if d.cfg.SkipVersionCheck {
		d.log.Debug("Skipping version check (configured)")

		return
	}

	// Skip if env var is set
	if os.Getenv("GOSPATIAL_SDK_SKIP_VERSION_CHECK") != "" {
		d.log.Debug("Skipping version check (GOSPATIAL_SDK_SKIP_VERSION_CHECK set)")

		return
	}

	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exePath, "-version")

	output, err := cmd.Output()
	if err != nil {
		d.log.Debug("Version probe failed", "error", err)

		return
	}

	match := versionRe.FindStringSubmatch(strings.TrimSpace(string(output)))
	if match == nil {
		d.log.Debug("Could not parse go-spatial version", "output", strings.TrimSpace(string(output)))

		return
	}

	version := match[1]
	if compareVersions(version, MinimumVersion) < 0 {
		d.log.Warn("go-spatial version is unsupported by the SDK",
			"version", version,
			"minimum_required", MinimumVersion,
		)

		fmt.Fprintf(os.Stderr,
			"Warning: go-spatial version %s is unsupported by the SDK. "+
				"Minimum required version is %s. Some features may not work correctly.\n",
			version, MinimumVersion,
		)
	} else {
		d.log.Debug("Version check passed", "version", version, "minimum", MinimumVersion)
	}
}

// compareVersions compares two semantic versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func compareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := range 3 {
		aNum := 0
		bNum := 0

		if i < len(aParts) {
			aNum, _ = strconv.Atoi(aParts[i])
		}

		if i < len(bParts) {
			bNum, _ = strconv.Atoi(bParts[i])
		}

		if aNum < bNum {
			return -1
		}

		if aNum > bNum {
			return 1
		}
	}

	return 0
}
