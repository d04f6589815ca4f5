// Package tray runs the system tray application. The tray embeds the
// scheduler and the D-Bus service so a single process serves menu
// clicks, bus calls, and the daily update.
package tray

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"fyne.io/systray"
	"github.com/fsnotify/fsnotify"

	"github.com/cosmic-utils/bingwall/internal/cosmic"
	"github.com/cosmic-utils/bingwall/internal/daemon"
	"github.com/cosmic-utils/bingwall/internal/xdgpath"
)

//go:embed icons/*.png
var iconFS embed.FS

// Light glyphs are for dark themes and dark glyphs for light themes.
// The off variants mark the daily update as disabled.
var (
	iconLight    []byte
	iconLightOff []byte
	iconDark     []byte
	iconDarkOff  []byte
)

func init() {
	iconLight, _ = iconFS.ReadFile("icons/icon_light.png")
	iconLightOff, _ = iconFS.ReadFile("icons/icon_light_off.png")
	iconDark, _ = iconFS.ReadFile("icons/icon_dark.png")
	iconDarkOff, _ = iconFS.ReadFile("icons/icon_dark_off.png")
}

// Tray is the system tray application.
type Tray struct {
	daemon   *daemon.Daemon
	cancel   context.CancelFunc
	lockFile string
	dark     bool

	mFetch   *systray.MenuItem
	mDaily   *systray.MenuItem
	mNextRun *systray.MenuItem
}

// New creates a Tray around a configured daemon.
func New(d *daemon.Daemon) *Tray {
	return &Tray{daemon: d}
}

// Run starts the scheduler in the background and blocks in the systray
// main loop until Quit is selected or the context ends.
func (t *Tray) Run(ctx context.Context) error {
	if err := t.acquireLock(); err != nil {
		return err
	}

	ctx, t.cancel = context.WithCancel(ctx)
	go func() {
		if err := t.daemon.Run(ctx); err != nil {
			slog.Error("Scheduler stopped with error", "err", err)
		}
	}()

	systray.Run(func() { t.onReady(ctx) }, t.onExit)
	return nil
}

func (t *Tray) onReady(ctx context.Context) {
	t.dark = cosmic.IsDarkMode()
	t.applyIcon()

	mTitle := systray.AddMenuItem("Bing Wallpaper", "")
	mTitle.Disable()
	systray.AddSeparator()

	t.mFetch = systray.AddMenuItem("Fetch Today's Wallpaper", "Download and apply today's image")
	t.mDaily = systray.AddMenuItemCheckbox("Daily Update", "Fetch a new wallpaper every morning", t.daemon.TimerEnabled())
	t.mNextRun = systray.AddMenuItem("", "")
	t.mNextRun.Disable()
	t.refreshNextRun()

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit Bing Wallpaper")

	go t.watchTheme(ctx)

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-t.mFetch.ClickedCh:
				t.fetchNow(ctx)
			case <-t.mDaily.ClickedCh:
				t.toggleDaily()
			case <-ticker.C:
				t.refreshNextRun()
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			case <-ctx.Done():
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	if t.cancel != nil {
		t.cancel()
	}
	t.releaseLock()
}

func (t *Tray) fetchNow(ctx context.Context) {
	t.mFetch.Disable()
	defer t.mFetch.Enable()

	if _, err := t.daemon.FetchAndApply(ctx, true); err != nil {
		slog.Error("Fetch from tray failed", "err", err)
	}
	t.refreshNextRun()
}

func (t *Tray) toggleDaily() {
	enabled := !t.mDaily.Checked()
	if err := t.daemon.SetTimerEnabled(enabled); err != nil {
		slog.Error("Failed to toggle daily update", "err", err)
		return
	}
	if enabled {
		t.mDaily.Check()
	} else {
		t.mDaily.Uncheck()
	}
	t.applyIcon()
	t.refreshNextRun()
}

func (t *Tray) refreshNextRun() {
	if next := t.daemon.TimerNextRun(); next != "" {
		t.mNextRun.SetTitle("Next update: " + next)
		t.mNextRun.Show()
	} else {
		t.mNextRun.Hide()
	}
}

func (t *Tray) applyIcon() {
	enabled := t.daemon.TimerEnabled()
	var icon []byte
	switch {
	case t.dark && enabled:
		icon = iconLight
	case t.dark:
		icon = iconLightOff
	case enabled:
		icon = iconDark
	default:
		icon = iconDarkOff
	}
	systray.SetIcon(icon)

	if enabled {
		systray.SetTooltip("Bing Wallpaper: daily update enabled")
	} else {
		systray.SetTooltip("Bing Wallpaper: daily update disabled")
	}
}

// watchTheme swaps the icon variant when the COSMIC theme mode file
// changes between dark and light.
func (t *Tray) watchTheme(ctx context.Context) {
	themePath, err := cosmic.ThemeModePath()
	if err != nil {
		slog.Debug("Theme watcher disabled", "err", err)
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("Failed to create theme watcher", "err", err)
		return
	}
	defer watcher.Close()

	// Watch the directory; COSMIC replaces the file on theme switch.
	if err := watcher.Add(filepath.Dir(themePath)); err != nil {
		slog.Debug("Theme directory not watchable", "dir", filepath.Dir(themePath), "err", err)
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(themePath) {
				continue
			}
			if dark := cosmic.IsDarkMode(); dark != t.dark {
				slog.Debug("Theme changed", "dark", dark)
				t.dark = dark
				t.applyIcon()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Theme watcher error", "err", err)
		case <-ctx.Done():
			return
		}
	}
}

// acquireLock prevents a second tray instance. A stale lock from a dead
// process is replaced.
func (t *Tray) acquireLock() error {
	path, err := xdgpath.StatePath("tray.lock")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		data, readErr := os.ReadFile(path)
		if readErr == nil {
			var pid int
			if _, err := fmt.Sscanf(string(data), "%d", &pid); err == nil && pid > 0 {
				if proc, err := os.FindProcess(pid); err == nil && proc.Signal(syscall.Signal(0)) == nil {
					return fmt.Errorf("bingwall tray is already running (pid %d)", pid)
				}
			}
		}
		_ = os.Remove(path)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to acquire tray lock: %w", err)
		}
	}
	fmt.Fprintf(f, "%d", os.Getpid())
	if err := f.Close(); err != nil {
		return err
	}

	t.lockFile = path
	return nil
}

func (t *Tray) releaseLock() {
	if t.lockFile != "" {
		_ = os.Remove(t.lockFile)
	}
}
