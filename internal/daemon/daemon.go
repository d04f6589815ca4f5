// Package daemon runs the long-lived wallpaper service: it fetches and
// applies the daily image, keeps the schedule, and backs the D-Bus
// control surface.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/cosmic-utils/bingwall/internal/bing"
	"github.com/cosmic-utils/bingwall/internal/config"
	"github.com/cosmic-utils/bingwall/internal/dbus"
	"github.com/cosmic-utils/bingwall/internal/gallery"
	"github.com/cosmic-utils/bingwall/internal/timer"
)

// Clock is an interface for time-related functions to allow for mocking.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) *time.Ticker
}

// RealClock is a real implementation of the Clock interface.
type RealClock struct{}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Ticker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// Fetcher retrieves image-of-the-day metadata and downloads images.
// Implemented by bing.Client.
type Fetcher interface {
	Today(ctx context.Context, market string) (*bing.Image, error)
	Download(ctx context.Context, img *bing.Image, dir, market string) (string, error)
}

// Applier sets an image as the desktop background. Implemented by
// cosmic.Desktop.
type Applier interface {
	Apply(imagePath string) error
}

// Emitter broadcasts daemon events. Implemented by dbus.Service; nil
// when no bus connection is available.
type Emitter interface {
	EmitWallpaperChanged(path, title string) error
	EmitTimerStateChanged(enabled bool) error
	EmitFetchProgress(state, message string) error
}

// Daemon is the main daemon struct.
type Daemon struct {
	cfg       *config.Config
	cfgPath   string
	state     *timer.State
	statePath string
	clock     Clock
	fetcher   Fetcher
	applier   Applier
	notifier  Notifier
	emitter   Emitter
	spread    func() time.Duration
	mu        sync.Mutex
}

// NewDaemon creates a new daemon.
func NewDaemon(cfg *config.Config, cfgPath string, state *timer.State, statePath string, clock Clock, fetcher Fetcher, applier Applier, notifier Notifier) *Daemon {
	return &Daemon{
		cfg:       cfg,
		cfgPath:   cfgPath,
		state:     state,
		statePath: statePath,
		clock:     clock,
		fetcher:   fetcher,
		applier:   applier,
		notifier:  notifier,
		spread:    timer.SpreadDelay,
	}
}

// SetEmitter attaches the signal emitter. Must be called before Run.
func (d *Daemon) SetEmitter(e Emitter) {
	d.emitter = e
}

// Run starts the daemon's main loop.
func (d *Daemon) Run(ctx context.Context) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if d.cfg.FetchOnStartup {
		if _, err := d.FetchAndApply(ctx, true); err != nil {
			slog.Error("Startup fetch failed", "err", err)
		}
	}

	ticker := d.clock.Ticker(1 * time.Minute)
	defer ticker.Stop()

	startedAt := d.clock.Now()
	lastCheckTime := startedAt
	for {
		slog.Debug("Daemon run loop tick")

		// A gap much larger than the tick interval means the system was
		// asleep and the schedule may have passed while suspended.
		if d.clock.Now().Sub(lastCheckTime) > 5*time.Minute {
			slog.Info("Detected time jump, forcing schedule check")
			d.checkSchedule(ctx, startedAt)
		}

		select {
		case <-ticker.C:
			d.checkSchedule(ctx, startedAt)
		case sig := <-sigs:
			slog.Info("Received shutdown signal, shutting down", "signal", sig)
			return d.Shutdown()
		case <-ctx.Done():
			slog.Debug("Parent context cancelled, shutting down")
			return d.Shutdown()
		}
		lastCheckTime = d.clock.Now()
	}
}

// Shutdown persists the scheduler state before exit.
func (d *Daemon) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.state.Save(d.statePath); err != nil {
		slog.Error("Failed to save scheduler state during shutdown", "err", err)
		return err
	}
	slog.Info("Scheduler state saved; shutdown complete.")
	return nil
}

// checkSchedule fetches when the daily update is enabled and due. The
// boot delay keeps the daemon from racing the network stack right after
// login; the spread delay staggers requests across machines.
func (d *Daemon) checkSchedule(ctx context.Context, startedAt time.Time) {
	d.mu.Lock()
	enabled := d.state.Enabled
	due := d.state.NeedsCatchup(d.clock.Now())
	d.mu.Unlock()

	if !enabled || !due {
		return
	}
	if d.clock.Now().Sub(startedAt) < timer.BootDelay {
		slog.Debug("Update due but still within boot delay")
		return
	}

	delay := d.spread()
	slog.Info("Scheduled update due", "spread_delay", delay)
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}

	if _, err := d.FetchAndApply(ctx, true); err != nil {
		slog.Error("Scheduled fetch failed", "err", err)
		if d.notifier != nil {
			if nerr := d.notifier.Notify("Bing Wallpaper", "Daily update failed: "+err.Error()); nerr != nil {
				slog.Warn("Failed to send notification", "err", nerr)
			}
		}
	}
}

// FetchAndApply downloads today's image and optionally sets it as the
// background. It records the fetch time, prunes old wallpapers, and
// emits progress signals along the way.
func (d *Daemon) FetchAndApply(ctx context.Context, apply bool) (dbus.WallpaperInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.emitProgress(dbus.ProgressStarting, "Fetching image of the day")

	img, err := d.fetcher.Today(ctx, d.cfg.Market)
	if err != nil {
		return dbus.WallpaperInfo{}, fmt.Errorf("failed to fetch image metadata: %w", err)
	}

	d.emitProgress(dbus.ProgressDownloading, img.Title)
	path, err := d.fetcher.Download(ctx, img, d.cfg.WallpaperDir, d.cfg.Market)
	if err != nil {
		return dbus.WallpaperInfo{}, fmt.Errorf("failed to download image: %w", err)
	}

	if n := gallery.Prune(d.cfg.WallpaperDir, d.cfg.KeepDays, d.clock.Now()); n > 0 {
		slog.Info("Pruned old wallpapers", "count", n)
	}

	if apply {
		d.emitProgress(dbus.ProgressApplying, path)
		if err := d.applier.Apply(path); err != nil {
			return dbus.WallpaperInfo{}, fmt.Errorf("failed to apply wallpaper: %w", err)
		}
		if d.emitter != nil {
			if err := d.emitter.EmitWallpaperChanged(path, img.Title); err != nil {
				slog.Warn("Failed to emit WallpaperChanged", "err", err)
			}
		}
		if d.notifier != nil {
			if err := d.notifier.Notify("Bing Wallpaper", img.Title); err != nil {
				slog.Warn("Failed to send notification", "err", err)
			}
		}
	}

	d.state.RecordFetch(d.clock.Now())
	if err := d.state.Save(d.statePath); err != nil {
		slog.Error("Failed to save scheduler state after fetch", "err", err)
	}

	d.emitProgress(dbus.ProgressComplete, path)

	slog.Info("Wallpaper fetched", "path", path, "applied", apply)
	return d.wallpaperInfo(path), nil
}

func (d *Daemon) emitProgress(state, message string) {
	if d.emitter == nil {
		return
	}
	if err := d.emitter.EmitFetchProgress(state, message); err != nil {
		slog.Warn("Failed to emit FetchProgress", "state", state, "err", err)
	}
}

func (d *Daemon) wallpaperInfo(path string) dbus.WallpaperInfo {
	filename := filepath.Base(path)
	return dbus.WallpaperInfo{
		Path:     path,
		Filename: filename,
		Date:     gallery.DateFromFilename(filename),
	}
}

// FetchWallpaper implements dbus.Controller.
func (d *Daemon) FetchWallpaper(apply bool) (dbus.WallpaperInfo, error) {
	return d.FetchAndApply(context.Background(), apply)
}

// ApplyWallpaper implements dbus.Controller.
func (d *Daemon) ApplyWallpaper(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("wallpaper not found: %w", err)
	}
	if err := d.applier.Apply(path); err != nil {
		return fmt.Errorf("failed to apply wallpaper: %w", err)
	}
	if d.emitter != nil {
		if err := d.emitter.EmitWallpaperChanged(path, ""); err != nil {
			slog.Warn("Failed to emit WallpaperChanged", "err", err)
		}
	}
	return nil
}

// ConfigJSON implements dbus.Controller.
func (d *Daemon) ConfigJSON() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := json.MarshalIndent(d.cfg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(doc), nil
}

// Market implements dbus.Controller.
func (d *Daemon) Market() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Market
}

// SetMarket implements dbus.Controller.
func (d *Daemon) SetMarket(code string) error {
	if !config.ValidMarket(code) {
		return fmt.Errorf("unknown market %q", code)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.Market = code
	return d.cfg.Save(d.cfgPath)
}

// WallpaperDir implements dbus.Controller.
func (d *Daemon) WallpaperDir() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.WallpaperDir
}

// TimerEnabled implements dbus.Controller.
func (d *Daemon) TimerEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Enabled
}

// SetTimerEnabled implements dbus.Controller. The config's auto_update
// field mirrors the scheduler state so a fresh state file starts with
// the configured value.
func (d *Daemon) SetTimerEnabled(enabled bool) error {
	d.mu.Lock()
	d.state.Enabled = enabled
	err := d.state.Save(d.statePath)
	if err == nil && d.cfg.AutoUpdate != enabled {
		d.cfg.AutoUpdate = enabled
		if cfgErr := d.cfg.Save(d.cfgPath); cfgErr != nil {
			slog.Warn("Failed to mirror auto_update into config", "err", cfgErr)
		}
	}
	d.mu.Unlock()
	if err != nil {
		return err
	}

	if d.emitter != nil {
		if err := d.emitter.EmitTimerStateChanged(enabled); err != nil {
			slog.Warn("Failed to emit TimerStateChanged", "err", err)
		}
	}
	return nil
}

// TimerNextRun implements dbus.Controller. It returns "" when the daily
// update is disabled.
func (d *Daemon) TimerNextRun() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.Enabled {
		return ""
	}
	return timer.FormatRun(timer.NextRun(d.clock.Now()))
}

// History implements dbus.Controller.
func (d *Daemon) History() ([]dbus.WallpaperInfo, error) {
	d.mu.Lock()
	dir := d.cfg.WallpaperDir
	d.mu.Unlock()

	wallpapers, err := gallery.Scan(dir)
	if err != nil {
		return nil, err
	}

	history := make([]dbus.WallpaperInfo, 0, len(wallpapers))
	for _, w := range wallpapers {
		history = append(history, dbus.WallpaperInfo{
			Path:     w.Path,
			Filename: w.Filename,
			Date:     w.Date,
		})
	}
	return history, nil
}

// DeleteWallpaper implements dbus.Controller. Only files inside the
// wallpaper directory can be removed.
func (d *Daemon) DeleteWallpaper(path string) error {
	d.mu.Lock()
	dir := d.cfg.WallpaperDir
	d.mu.Unlock()

	if filepath.Dir(path) != filepath.Clean(dir) {
		return fmt.Errorf("refusing to delete file outside wallpaper directory: %s", path)
	}
	return gallery.Delete(path)
}
