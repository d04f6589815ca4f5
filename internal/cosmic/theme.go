package cosmic

import (
	"os"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/cosmic-utils/bingwall/internal/xdgpath"
)

const themeModeRelPath = "cosmic/com.system76.CosmicTheme.Mode/v1/is_dark"

// ThemeModePath returns the COSMIC theme mode file, watched by the tray
// for dark/light switches.
func ThemeModePath() (string, error) {
	return xdgpath.DesktopConfigPath(themeModeRelPath)
}

// IsDarkMode reports whether the session prefers a dark theme. It reads
// COSMIC's theme mode file first and falls back to the freedesktop
// settings portal. Tray panels are usually dark, so dark wins on doubt.
func IsDarkMode() bool {
	if path, err := ThemeModePath(); err == nil {
		if content, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(content)) == "true"
		}
	}

	if scheme, ok := portalColorScheme(); ok {
		// 1 = prefer dark, 2 = prefer light, 0 = no preference.
		switch scheme {
		case 1:
			return true
		case 2:
			return false
		}
	}

	return true
}

// portalColorScheme queries org.freedesktop.portal.Settings for the
// appearance color-scheme preference over the session bus.
func portalColorScheme() (uint32, bool) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, false
	}

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var value dbus.Variant
	err = obj.Call("org.freedesktop.portal.Settings.Read", 0,
		"org.freedesktop.appearance", "color-scheme").Store(&value)
	if err != nil {
		return 0, false
	}

	// The portal wraps the value in nested variants.
	inner := value
	for {
		next, ok := inner.Value().(dbus.Variant)
		if !ok {
			break
		}
		inner = next
	}

	scheme, ok := inner.Value().(uint32)
	return scheme, ok
}
