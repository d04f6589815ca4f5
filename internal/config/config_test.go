package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "en-US", cfg.Market)
	assert.Equal(t, 30, cfg.KeepDays)
	assert.False(t, cfg.AutoUpdate)
	assert.True(t, cfg.FetchOnStartup)
	assert.Contains(t, cfg.WallpaperDir, "BingWallpapers")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "nope.toml"))
		assert.NoError(t, err)
		assert.Equal(t, "en-US", cfg.Market)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		content := `
wallpaper_dir = "/tmp/walls"
market = "de-DE"
auto_update = true
keep_days = 7
fetch_on_startup = false
`
		err := os.WriteFile(path, []byte(content), 0644)
		assert.NoError(t, err)

		cfg, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "/tmp/walls", cfg.WallpaperDir)
		assert.Equal(t, "de-DE", cfg.Market)
		assert.True(t, cfg.AutoUpdate)
		assert.Equal(t, 7, cfg.KeepDays)
		assert.False(t, cfg.FetchOnStartup)
	})

	t.Run("tilde expansion", func(t *testing.T) {
		path := filepath.Join(dir, "tilde.toml")
		err := os.WriteFile(path, []byte(`wallpaper_dir = "~/Walls"`+"\n"), 0644)
		assert.NoError(t, err)

		cfg, err := Load(path)
		assert.NoError(t, err)
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, "Walls"), cfg.WallpaperDir)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		err := os.WriteFile(path, []byte(`market = `), 0644)
		assert.NoError(t, err)

		_, err = Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown market", func(t *testing.T) {
		path := filepath.Join(dir, "market.toml")
		err := os.WriteFile(path, []byte(`market = "xx-XX"`+"\n"), 0644)
		assert.NoError(t, err)

		_, err = Load(path)
		assert.Error(t, err)
	})

	t.Run("negative keep_days", func(t *testing.T) {
		path := filepath.Join(dir, "keep.toml")
		err := os.WriteFile(path, []byte(`keep_days = -1`+"\n"), 0644)
		assert.NoError(t, err)

		_, err = Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Market = "ja-JP"
	cfg.AutoUpdate = true
	assert.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "ja-JP", loaded.Market)
	assert.True(t, loaded.AutoUpdate)
}

func TestMarkets(t *testing.T) {
	assert.True(t, ValidMarket("en-US"))
	assert.False(t, ValidMarket("xx-XX"))
	assert.Equal(t, "Germany", MarketName("de-DE"))
	assert.Equal(t, "xx-XX", MarketName("xx-XX"))
	assert.Len(t, Markets, 21)
}
