// Package dbus exposes the wallpaper service on the session bus and
// provides the matching client used by the CLI and tray.
package dbus

import "github.com/godbus/dbus/v5"

const (
	// BusName is the well-known bus name claimed by the daemon.
	BusName = "org.cosmicbing.Wallpaper1"
	// Interface is the wallpaper control interface name.
	Interface = "org.cosmicbing.Wallpaper1"
	// Path is the wallpaper object path.
	Path dbus.ObjectPath = "/org/cosmicbing/Wallpaper1"
)

// Fetch progress states emitted via the FetchProgress signal.
const (
	ProgressStarting    = "starting"
	ProgressDownloading = "downloading"
	ProgressApplying    = "applying"
	ProgressComplete    = "complete"
)

// WallpaperInfo describes a downloaded wallpaper. It crosses the bus as
// (sss): absolute path, file name, and the image date as YYYY-MM-DD.
type WallpaperInfo struct {
	Path     string
	Filename string
	Date     string
}

// ConnectionError indicates that the daemon could not be reached on the
// session bus. Callers can fall back to operating directly.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "wallpaper daemon is not reachable: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
