package cmd

import (
	"log/slog"
	"os"

	"github.com/cosmic-utils/bingwall/internal/bing"
	"github.com/cosmic-utils/bingwall/internal/config"
	"github.com/cosmic-utils/bingwall/internal/cosmic"
	"github.com/cosmic-utils/bingwall/internal/daemon"
	"github.com/cosmic-utils/bingwall/internal/dbus"
	"github.com/cosmic-utils/bingwall/internal/timer"
)

// tryClient connects to the running daemon. It returns nil when the
// daemon is not on the bus, letting commands fall back to working
// directly.
func tryClient() *dbus.Client {
	client, err := dbus.NewClient()
	if err != nil {
		slog.Debug("Daemon not reachable, operating directly", "err", err)
		return nil
	}
	return client
}

func loadConfig() (*config.Config, string, error) {
	path := configFlag
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// buildDaemon wires up a daemon instance for direct, in-process use by
// CLI commands when no daemon is running on the bus.
func buildDaemon() (*daemon.Daemon, error) {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return nil, err
	}

	statePath, err := timer.StatePath()
	if err != nil {
		return nil, err
	}
	state, err := timer.LoadState(statePath)
	if err != nil {
		return nil, err
	}
	// A fresh state file starts out with the configured auto_update value.
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		state.Enabled = cfg.AutoUpdate
	}

	return daemon.NewDaemon(
		cfg, cfgPath,
		state, statePath,
		&daemon.RealClock{},
		bing.NewClient(),
		cosmic.NewDesktop(),
		&daemon.BeeepNotifier{},
	), nil
}
