// Package cosmic applies wallpapers to the COSMIC desktop.
//
// COSMIC reads its background settings from a RON file under
// ~/.config/cosmic/com.system76.CosmicBackground/v1/all and the cosmic-bg
// helper process picks the file up on start. Applying a wallpaper means
// rewriting that file and restarting the helper.
package cosmic

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cosmic-utils/bingwall/internal/fileutil"
	"github.com/cosmic-utils/bingwall/internal/xdgpath"
)

const backSettingsRelPath = "cosmic/com.system76.CosmicBackground/v1/all"

const backgroundTemplate = `(
    output: "all",
    source: Path("%s"),
    filter_by_theme: false,
    rotation_frequency: 300,
    filter_method: Lanczos,
    scaling_mode: Zoom,
    sampling_method: Alphanumeric,
)`

// Runner abstracts process execution so tests can stub out cosmic-bg.
type Runner interface {
	// Run executes a command and waits for it.
	Run(name string, args ...string) error
	// Start launches a command without waiting.
	Start(name string, args ...string) error
}

// ExecRunner runs commands on the host.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (ExecRunner) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Desktop applies wallpapers to a COSMIC session.
type Desktop struct {
	runner Runner
	// settingsPath overrides the background settings location in tests.
	settingsPath string
	// restartDelay is the pause between killing and respawning cosmic-bg.
	restartDelay time.Duration
}

// NewDesktop creates a Desktop against the running session.
func NewDesktop() *Desktop {
	return &Desktop{runner: ExecRunner{}, restartDelay: 500 * time.Millisecond}
}

// NewDesktopWithRunner creates a Desktop with a custom runner and settings
// path. Used in tests.
func NewDesktopWithRunner(runner Runner, settingsPath string) *Desktop {
	return &Desktop{runner: runner, settingsPath: settingsPath}
}

// BackgroundConfig renders the RON settings content for an image path.
func BackgroundConfig(imagePath string) string {
	return fmt.Sprintf(backgroundTemplate, imagePath)
}

func (d *Desktop) settingsFile() (string, error) {
	if d.settingsPath != "" {
		return d.settingsPath, nil
	}
	return xdgpath.DesktopConfigPath(backSettingsRelPath)
}

// Apply sets imagePath as the desktop background: it rewrites the COSMIC
// background settings and restarts cosmic-bg, verifying the helper came
// back up.
func (d *Desktop) Apply(imagePath string) error {
	path, err := d.settingsFile()
	if err != nil {
		return fmt.Errorf("could not determine background settings path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create background settings dir: %w", err)
	}
	if _, err := fileutil.AtomicWriteFile(path, []byte(BackgroundConfig(imagePath)), 0644); err != nil {
		return fmt.Errorf("failed to write background settings: %w", err)
	}

	// cosmic-bg only reads the settings file on start.
	_ = d.runner.Run("pkill", "-x", "cosmic-bg")
	time.Sleep(d.restartDelay)

	if err := d.runner.Start("cosmic-bg"); err != nil {
		return fmt.Errorf("failed to start cosmic-bg: %w", err)
	}
	time.Sleep(d.restartDelay / 2)

	if err := d.runner.Run("pgrep", "-x", "cosmic-bg"); err != nil {
		return fmt.Errorf("cosmic-bg failed to start: %w", err)
	}
	return nil
}
