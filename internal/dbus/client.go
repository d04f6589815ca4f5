package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client calls the wallpaper service over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and checks that the daemon owns
// the wallpaper name. It returns a ConnectionError when the daemon is
// not running.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	var hasOwner bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&hasOwner)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if !hasOwner {
		return nil, &ConnectionError{Err: fmt.Errorf("no owner for %s", BusName)}
	}

	return &Client{conn: conn, obj: conn.Object(BusName, Path)}, nil
}

// FetchWallpaper asks the daemon to fetch today's image, optionally
// applying it as the background.
func (c *Client) FetchWallpaper(apply bool) (WallpaperInfo, error) {
	var info WallpaperInfo
	call := c.obj.Call(Interface+".FetchWallpaper", 0, apply)
	if call.Err != nil {
		return WallpaperInfo{}, call.Err
	}
	if err := call.Store(&info); err != nil {
		return WallpaperInfo{}, err
	}
	return info, nil
}

// ApplyWallpaper asks the daemon to set the given image as background.
func (c *Client) ApplyWallpaper(path string) error {
	return c.obj.Call(Interface+".ApplyWallpaper", 0, path).Err
}

// GetConfig returns the daemon's configuration as a JSON document.
func (c *Client) GetConfig() (string, error) {
	var doc string
	if err := c.obj.Call(Interface+".GetConfig", 0).Store(&doc); err != nil {
		return "", err
	}
	return doc, nil
}

// GetMarket returns the configured market code.
func (c *Client) GetMarket() (string, error) {
	var market string
	if err := c.obj.Call(Interface+".GetMarket", 0).Store(&market); err != nil {
		return "", err
	}
	return market, nil
}

// SetMarket changes the configured market code.
func (c *Client) SetMarket(code string) error {
	return c.obj.Call(Interface+".SetMarket", 0, code).Err
}

// GetWallpaperDir returns the wallpaper download directory.
func (c *Client) GetWallpaperDir() (string, error) {
	var dir string
	if err := c.obj.Call(Interface+".GetWallpaperDir", 0).Store(&dir); err != nil {
		return "", err
	}
	return dir, nil
}

// GetTimerEnabled reports whether the daily update is enabled.
func (c *Client) GetTimerEnabled() (bool, error) {
	var enabled bool
	if err := c.obj.Call(Interface+".GetTimerEnabled", 0).Store(&enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// SetTimerEnabled enables or disables the daily update.
func (c *Client) SetTimerEnabled(enabled bool) error {
	return c.obj.Call(Interface+".SetTimerEnabled", 0, enabled).Err
}

// GetTimerNextRun returns the next scheduled update as a display string.
func (c *Client) GetTimerNextRun() (string, error) {
	var next string
	if err := c.obj.Call(Interface+".GetTimerNextRun", 0).Store(&next); err != nil {
		return "", err
	}
	return next, nil
}

// GetHistory returns the downloaded wallpapers, newest first.
func (c *Client) GetHistory() ([]WallpaperInfo, error) {
	var history []WallpaperInfo
	if err := c.obj.Call(Interface+".GetHistory", 0).Store(&history); err != nil {
		return nil, err
	}
	return history, nil
}

// DeleteWallpaper asks the daemon to remove a downloaded wallpaper.
func (c *Client) DeleteWallpaper(path string) error {
	return c.obj.Call(Interface+".DeleteWallpaper", 0, path).Err
}
