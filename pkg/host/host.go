// Package host models the Claude Desktop application as an external
// collaborator: where its registry file lives on each platform, whether the
// app is installed and running, and how to launch it. Nothing here mutates
// the registry.
package host

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/verdantlabs/mcporter/pkg/logger"
)

// appConfig describes where a host application keeps its registry file and
// how to recognize its installation on each platform.
type appConfig struct {
	Description    string
	SettingsFile   string
	RelPath        []string
	PlatformPrefix map[string][]string
	// BundlePaths are install locations checked per platform, beyond the
	// settings directory.
	BundlePaths map[string][]string
	// ProcessNames identify the running application in the process table.
	ProcessNames []string
	// LaunchCommand starts the application, per platform.
	LaunchCommand map[string][]string
}

var claudeDesktop = appConfig{
	Description:  "Claude Desktop application",
	SettingsFile: "claude_desktop_config.json",
	RelPath:      []string{"Claude"},
	PlatformPrefix: map[string][]string{
		"linux":   {".config"},
		"darwin":  {"Library", "Application Support"},
		"windows": {"AppData", "Roaming"},
	},
	BundlePaths: map[string][]string{
		"darwin":  {"/Applications/Claude.app"},
		"windows": {`AppData\Local\AnthropicClaude`},
	},
	ProcessNames: []string{"Claude", "claude", "Claude.exe", "claude-desktop"},
	LaunchCommand: map[string][]string{
		"darwin":  {"open", "-a", "Claude"},
		"linux":   {"claude-desktop"},
		"windows": {"cmd", "/C", "start", "", "claude"},
	},
}

// App is the probe-and-launch surface for the host application.
type App struct {
	cfg appConfig

	// home is replaceable in tests.
	home func() (string, error)
}

// ClaudeDesktop returns the Claude Desktop host application.
func ClaudeDesktop() *App {
	return &App{cfg: claudeDesktop, home: os.UserHomeDir}
}

// RegistryPath returns the per-user path of the host application's registry
// file for the current platform.
func (a *App) RegistryPath() (string, error) {
	home, err := a.home()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return buildConfigFilePath(a.cfg.SettingsFile, a.cfg.RelPath, a.cfg.PlatformPrefix, []string{home}), nil
}

// probeResult is the outcome of one installation probe.
type probeResult int

const (
	probeUnknown probeResult = iota
	probeYes
)

// IsInstalled reports whether the host application appears to be installed.
// Probes are tried in order and the first conclusive result wins; if none is
// conclusive the application is reported as not installed.
func (a *App) IsInstalled() bool {
	probes := []func() probeResult{
		a.probeSettingsDir,
		a.probeBundlePaths,
	}
	for _, probe := range probes {
		if probe() == probeYes {
			return true
		}
	}
	return false
}

// probeSettingsDir checks for the application's settings directory. The app
// creates it on first run, so presence is conclusive and absence is not.
func (a *App) probeSettingsDir() probeResult {
	home, err := a.home()
	if err != nil {
		return probeUnknown
	}
	dir := buildConfigFilePath("", a.cfg.RelPath, a.cfg.PlatformPrefix, []string{home})
	if _, err := os.Stat(dir); err == nil {
		return probeYes
	}
	return probeUnknown
}

// probeBundlePaths checks the platform's application install locations.
func (a *App) probeBundlePaths() probeResult {
	paths, ok := a.cfg.BundlePaths[runtime.GOOS]
	if !ok {
		return probeUnknown
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			home, err := a.home()
			if err != nil {
				continue
			}
			p = filepath.Join(home, p)
		}
		if _, err := os.Stat(p); err == nil {
			return probeYes
		}
	}
	return probeUnknown
}

// IsRunning reports whether the host application has a live process.
func (a *App) IsRunning() (bool, error) {
	processes, err := process.Processes()
	if err != nil {
		return false, fmt.Errorf("failed to list processes: %w", err)
	}

	names := make(map[string]bool, len(a.cfg.ProcessNames))
	for _, name := range a.cfg.ProcessNames {
		names[name] = true
	}

	for _, p := range processes {
		name, err := p.Name()
		if err != nil {
			// Processes can exit between listing and inspection.
			continue
		}
		if names[name] {
			return true, nil
		}
	}
	return false, nil
}

// Launch starts the host application.
func (a *App) Launch() error {
	argv, ok := a.cfg.LaunchCommand[runtime.GOOS]
	if !ok {
		return fmt.Errorf("launching %s is not supported on %s", a.cfg.Description, runtime.GOOS)
	}

	logger.Debugw("launching host application", "command", argv)
	// #nosec G204 -- argv comes from the static per-platform table above
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", a.cfg.Description, err)
	}
	// The app detaches; don't hold the child process handle.
	return cmd.Process.Release()
}

func buildConfigFilePath(settingsFile string, relPath []string, platformPrefix map[string][]string, path []string) string {
	if prefix, ok := platformPrefix[runtime.GOOS]; ok {
		path = append(path, prefix...)
	}
	path = append(path, relPath...)
	if settingsFile != "" {
		path = append(path, settingsFile)
	}
	return filepath.Clean(filepath.Join(path...))
}
