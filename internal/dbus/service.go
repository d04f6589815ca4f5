package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Controller is the surface the daemon exposes over the bus. The service
// translates bus calls into Controller calls and Controller errors into
// D-Bus errors.
type Controller interface {
	FetchWallpaper(apply bool) (WallpaperInfo, error)
	ApplyWallpaper(path string) error
	ConfigJSON() (string, error)
	Market() string
	SetMarket(code string) error
	WallpaperDir() string
	TimerEnabled() bool
	SetTimerEnabled(enabled bool) error
	TimerNextRun() string
	History() ([]WallpaperInfo, error)
	DeleteWallpaper(path string) error
}

// Service exports the wallpaper control interface on the session bus.
type Service struct {
	conn   *dbus.Conn
	logger *slog.Logger
	ctrl   Controller

	mu      sync.Mutex
	running bool
}

// NewService creates a Service backed by the given controller.
func NewService(ctrl Controller, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ctrl: ctrl, logger: logger}
}

// Start connects to the session bus, exports the object, and claims the
// well-known name. It fails when another instance already owns the name.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(Path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: wallpaperMethods(),
				Signals: wallpaperSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus wallpaper service started", "name", BusName, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus wallpaper service stopped")
	return nil
}

// FetchWallpaper fetches today's image and optionally applies it.
// D-Bus method: FetchWallpaper(b) -> (sss)
func (s *Service) FetchWallpaper(apply bool) (WallpaperInfo, *dbus.Error) {
	s.logger.Debug("FetchWallpaper called", "apply", apply)
	info, err := s.ctrl.FetchWallpaper(apply)
	if err != nil {
		return WallpaperInfo{}, dbus.MakeFailedError(err)
	}
	return info, nil
}

// ApplyWallpaper sets the given image as the desktop background.
// D-Bus method: ApplyWallpaper(s) -> nothing
func (s *Service) ApplyWallpaper(path string) *dbus.Error {
	s.logger.Debug("ApplyWallpaper called", "path", path)
	if err := s.ctrl.ApplyWallpaper(path); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// GetConfig returns the current configuration as a JSON document.
// D-Bus method: GetConfig() -> s
func (s *Service) GetConfig() (string, *dbus.Error) {
	doc, err := s.ctrl.ConfigJSON()
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return doc, nil
}

// GetMarket returns the configured Bing market code.
// D-Bus method: GetMarket() -> s
func (s *Service) GetMarket() (string, *dbus.Error) {
	return s.ctrl.Market(), nil
}

// SetMarket changes the Bing market code.
// D-Bus method: SetMarket(s) -> nothing
func (s *Service) SetMarket(code string) *dbus.Error {
	s.logger.Debug("SetMarket called", "market", code)
	if err := s.ctrl.SetMarket(code); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// GetWallpaperDir returns the wallpaper download directory.
// D-Bus method: GetWallpaperDir() -> s
func (s *Service) GetWallpaperDir() (string, *dbus.Error) {
	return s.ctrl.WallpaperDir(), nil
}

// GetTimerEnabled reports whether the daily update is enabled.
// D-Bus method: GetTimerEnabled() -> b
func (s *Service) GetTimerEnabled() (bool, *dbus.Error) {
	return s.ctrl.TimerEnabled(), nil
}

// SetTimerEnabled enables or disables the daily update.
// D-Bus method: SetTimerEnabled(b) -> nothing
func (s *Service) SetTimerEnabled(enabled bool) *dbus.Error {
	s.logger.Debug("SetTimerEnabled called", "enabled", enabled)
	if err := s.ctrl.SetTimerEnabled(enabled); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// GetTimerNextRun returns the next scheduled update as a display string.
// D-Bus method: GetTimerNextRun() -> s
func (s *Service) GetTimerNextRun() (string, *dbus.Error) {
	return s.ctrl.TimerNextRun(), nil
}

// GetHistory returns the downloaded wallpapers, newest first.
// D-Bus method: GetHistory() -> a(sss)
func (s *Service) GetHistory() ([]WallpaperInfo, *dbus.Error) {
	history, err := s.ctrl.History()
	if err != nil {
		return nil, dbus.MakeFailedError(err)
	}
	return history, nil
}

// DeleteWallpaper removes a downloaded wallpaper from disk.
// D-Bus method: DeleteWallpaper(s) -> nothing
func (s *Service) DeleteWallpaper(path string) *dbus.Error {
	s.logger.Debug("DeleteWallpaper called", "path", path)
	if err := s.ctrl.DeleteWallpaper(path); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func wallpaperMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "FetchWallpaper",
			Args: []introspect.Arg{
				{Name: "apply", Type: "b", Direction: "in"},
				{Name: "info", Type: "(sss)", Direction: "out"},
			},
		},
		{
			Name: "ApplyWallpaper",
			Args: []introspect.Arg{
				{Name: "path", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "GetConfig",
			Args: []introspect.Arg{
				{Name: "config", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "GetMarket",
			Args: []introspect.Arg{
				{Name: "market", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "SetMarket",
			Args: []introspect.Arg{
				{Name: "market", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "GetWallpaperDir",
			Args: []introspect.Arg{
				{Name: "dir", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "GetTimerEnabled",
			Args: []introspect.Arg{
				{Name: "enabled", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "SetTimerEnabled",
			Args: []introspect.Arg{
				{Name: "enabled", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "GetTimerNextRun",
			Args: []introspect.Arg{
				{Name: "next_run", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "GetHistory",
			Args: []introspect.Arg{
				{Name: "wallpapers", Type: "a(sss)", Direction: "out"},
			},
		},
		{
			Name: "DeleteWallpaper",
			Args: []introspect.Arg{
				{Name: "path", Type: "s", Direction: "in"},
			},
		},
	}
}

func wallpaperSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "WallpaperChanged",
			Args: []introspect.Arg{
				{Name: "path", Type: "s"},
				{Name: "title", Type: "s"},
			},
		},
		{
			Name: "TimerStateChanged",
			Args: []introspect.Arg{
				{Name: "enabled", Type: "b"},
			},
		},
		{
			Name: "FetchProgress",
			Args: []introspect.Arg{
				{Name: "state", Type: "s"},
				{Name: "message", Type: "s"},
			},
		},
	}
}
