// Package config handles the bingwall configuration file and the table of
// Bing regional markets.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cosmic-utils/bingwall/internal/fileutil"
	"github.com/cosmic-utils/bingwall/internal/xdgpath"
)

// Config represents the structure of the config.toml file. The json tags
// shape the document served over the GetConfig D-Bus method.
type Config struct {
	// WallpaperDir is where downloaded wallpapers are stored.
	WallpaperDir string `toml:"wallpaper_dir" json:"wallpaper_dir" yaml:"wallpaper_dir"`
	// Market is the Bing regional market code, e.g. "en-US".
	Market string `toml:"market" json:"market" yaml:"market"`
	// AutoUpdate mirrors the in-process scheduler's enabled state.
	AutoUpdate bool `toml:"auto_update" json:"auto_update" yaml:"auto_update"`
	// KeepDays is the retention window for downloaded wallpapers.
	// 0 keeps them forever.
	KeepDays int `toml:"keep_days" json:"keep_days" yaml:"keep_days"`
	// FetchOnStartup fetches today's image when the daemon starts.
	FetchOnStartup bool `toml:"fetch_on_startup" json:"fetch_on_startup" yaml:"fetch_on_startup"`
}

// Default returns a Config with default values.
func Default() *Config {
	wallpaperDir := "~/Pictures/BingWallpapers"
	if pictures, err := xdgpath.PicturesDir(); err == nil {
		wallpaperDir = filepath.Join(pictures, "BingWallpapers")
	}
	return &Config{
		WallpaperDir:   wallpaperDir,
		Market:         "en-US",
		AutoUpdate:     false,
		KeepDays:       30,
		FetchOnStartup: true,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	return xdgpath.ConfigPath("config.toml")
}

// Load reads the config from path, falling back to defaults when the file
// does not exist. An empty path uses the default location. A file that
// exists but fails to parse is an error. Tilde in wallpaper_dir expands.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, fmt.Errorf("could not determine config path: %w", err)
		}
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Market != "" && !ValidMarket(cfg.Market) {
		return nil, fmt.Errorf("unknown market %q in %s", cfg.Market, path)
	}
	if cfg.Market == "" {
		cfg.Market = "en-US"
	}
	if cfg.KeepDays < 0 {
		return nil, fmt.Errorf("keep_days must not be negative in %s", path)
	}

	cfg.WallpaperDir = xdgpath.ExpandTilde(cfg.WallpaperDir)
	return cfg, nil
}

// Save writes the config atomically to path. An empty path uses the
// default location.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return fmt.Errorf("could not determine config path: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if _, err := fileutil.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
