// Package systemd installs and queries the user units for scheduled
// wallpaper updates. This is the alternative to the in-process scheduler
// for users who prefer the refresh to run without the tray.
package systemd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cosmic-utils/bingwall/internal/fileutil"
)

// Unit file names installed under ~/.config/systemd/user.
const (
	ServiceUnit      = "bingwall.service"
	TimerUnit        = "bingwall.timer"
	LoginServiceUnit = "bingwall-login.service"
)

const serviceTemplate = `[Unit]
Description=Fetch and set the Bing daily wallpaper for COSMIC
After=network-online.target graphical-session.target
Wants=network-online.target

[Service]
Type=oneshot
ExecStart=%s fetch
Environment=HOME=%%h
Environment=XDG_RUNTIME_DIR=/run/user/%%U

[Install]
WantedBy=default.target
`

const timerTemplate = `[Unit]
Description=Daily Bing wallpaper update timer

[Timer]
OnCalendar=*-*-* 08:00:00
OnBootSec=5min
RandomizedDelaySec=300
Persistent=true

[Install]
WantedBy=timers.target
`

const loginServiceTemplate = `[Unit]
Description=Fetch the Bing wallpaper on login
After=graphical-session.target network-online.target
Wants=network-online.target

[Service]
Type=oneshot
ExecStartPre=/bin/sleep 10
ExecStart=%s fetch
Environment=HOME=%%h
Environment=XDG_RUNTIME_DIR=/run/user/%%U

[Install]
WantedBy=graphical-session.target
`

// Runner abstracts systemctl invocations for testing.
type Runner interface {
	Systemctl(args ...string) (string, error)
}

// ExecRunner invokes systemctl --user on the host.
type ExecRunner struct{}

func (ExecRunner) Systemctl(args ...string) (string, error) {
	out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).Output()
	return strings.TrimSpace(string(out)), err
}

// Manager manages the bingwall user units.
type Manager struct {
	runner  Runner
	unitDir string
}

// NewManager creates a Manager for the current user.
func NewManager() (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user home directory: %w", err)
	}
	return &Manager{
		runner:  ExecRunner{},
		unitDir: filepath.Join(home, ".config", "systemd", "user"),
	}, nil
}

// NewManagerWithRunner creates a Manager with a custom runner and unit
// directory. Used in tests.
func NewManagerWithRunner(runner Runner, unitDir string) *Manager {
	return &Manager{runner: runner, unitDir: unitDir}
}

// Units returns the unit file contents keyed by unit name.
func (m *Manager) Units(executable string) map[string]string {
	return map[string]string{
		ServiceUnit:      fmt.Sprintf(serviceTemplate, executable),
		TimerUnit:        timerTemplate,
		LoginServiceUnit: fmt.Sprintf(loginServiceTemplate, executable),
	}
}

// Install writes the service, timer, and login units for the given
// executable and enables the timer.
func (m *Manager) Install(executable string) error {
	if err := os.MkdirAll(m.unitDir, 0755); err != nil {
		return fmt.Errorf("failed to create systemd directory: %w", err)
	}

	for name, content := range m.Units(executable) {
		path := filepath.Join(m.unitDir, name)
		if _, err := fileutil.AtomicWriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if _, err := m.runner.Systemctl("daemon-reload"); err != nil {
		return fmt.Errorf("failed to reload systemd: %w", err)
	}
	if _, err := m.runner.Systemctl("enable", "--now", TimerUnit); err != nil {
		return fmt.Errorf("failed to enable timer: %w", err)
	}
	if _, err := m.runner.Systemctl("enable", LoginServiceUnit); err != nil {
		return fmt.Errorf("failed to enable login service: %w", err)
	}
	return nil
}

// Uninstall disables the timer and removes the unit files.
func (m *Manager) Uninstall() error {
	if _, err := m.runner.Systemctl("disable", "--now", TimerUnit); err != nil {
		return fmt.Errorf("failed to disable timer: %w", err)
	}
	// The login service may not be enabled; ignore failures.
	_, _ = m.runner.Systemctl("disable", LoginServiceUnit)

	for _, name := range []string{ServiceUnit, TimerUnit, LoginServiceUnit} {
		_ = os.Remove(filepath.Join(m.unitDir, name))
	}

	_, _ = m.runner.Systemctl("daemon-reload")
	return nil
}

// Reload restarts the timer unit after a configuration change.
func (m *Manager) Reload() error {
	if _, err := m.runner.Systemctl("restart", TimerUnit); err != nil {
		return fmt.Errorf("failed to restart timer: %w", err)
	}
	return nil
}

// IsEnabled reports whether the timer unit is enabled.
func (m *Manager) IsEnabled() bool {
	_, err := m.runner.Systemctl("is-enabled", TimerUnit)
	return err == nil
}

// NextRun returns the next scheduled elapse of the timer as a display
// string. It returns "" when the timer is not active and "Scheduled" when
// systemd does not report a concrete time.
func (m *Manager) NextRun() string {
	active, err := m.runner.Systemctl("is-active", TimerUnit)
	if err != nil || active != "active" {
		return ""
	}

	out, err := m.runner.Systemctl("show", TimerUnit, "--property=NextElapseUSecRealtime")
	if err != nil {
		return "Scheduled"
	}

	raw := strings.TrimPrefix(out, "NextElapseUSecRealtime=")
	if raw == "" || raw == "n/a" {
		return "Scheduled"
	}

	usecs, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return raw
	}
	next := time.Unix(int64(usecs/1_000_000), 0).Local()
	return next.Format("Mon Jan 02 15:04")
}
