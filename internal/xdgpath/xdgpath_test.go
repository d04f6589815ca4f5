package xdgpath

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	path, err := StatePath("timer.json")
	if err != nil {
		t.Fatalf("StatePath failed: %v", err)
	}
	if path != filepath.Join(dir, "bingwall", "timer.json") {
		t.Errorf("unexpected path: %s", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "bingwall")); err != nil {
		t.Errorf("state dir was not created: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := ConfigPath("config.toml")
	if err != nil {
		t.Fatalf("ConfigPath failed: %v", err)
	}
	if path != filepath.Join(dir, "bingwall", "config.toml") {
		t.Errorf("unexpected path: %s", path)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	t.Run("leading tilde", func(t *testing.T) {
		got := ExpandTilde("~/Pictures/BingWallpapers")
		want := filepath.Join(home, "Pictures", "BingWallpapers")
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("bare tilde", func(t *testing.T) {
		if got := ExpandTilde("~"); got != home {
			t.Errorf("got %s, want %s", got, home)
		}
	})

	t.Run("no tilde", func(t *testing.T) {
		if got := ExpandTilde("/tmp/x"); got != "/tmp/x" {
			t.Errorf("got %s", got)
		}
	})

	t.Run("tilde mid-path", func(t *testing.T) {
		if got := ExpandTilde("/tmp/~x"); got != "/tmp/~x" {
			t.Errorf("got %s", got)
		}
	})
}
