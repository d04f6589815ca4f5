package dbus

import "fmt"

// EmitWallpaperChanged announces that a new wallpaper has been applied.
func (s *Service) EmitWallpaperChanged(path, title string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := s.conn.Emit(Path, Interface+".WallpaperChanged", path, title); err != nil {
		return fmt.Errorf("failed to emit WallpaperChanged signal: %w", err)
	}
	s.logger.Debug("emitted WallpaperChanged signal", "path", path)
	return nil
}

// EmitTimerStateChanged announces that the daily update was toggled.
func (s *Service) EmitTimerStateChanged(enabled bool) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := s.conn.Emit(Path, Interface+".TimerStateChanged", enabled); err != nil {
		return fmt.Errorf("failed to emit TimerStateChanged signal: %w", err)
	}
	s.logger.Debug("emitted TimerStateChanged signal", "enabled", enabled)
	return nil
}

// EmitFetchProgress reports fetch pipeline progress. The state is one of
// the Progress constants.
func (s *Service) EmitFetchProgress(state, message string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := s.conn.Emit(Path, Interface+".FetchProgress", state, message); err != nil {
		return fmt.Errorf("failed to emit FetchProgress signal: %w", err)
	}
	s.logger.Debug("emitted FetchProgress signal", "state", state, "message", message)
	return nil
}
