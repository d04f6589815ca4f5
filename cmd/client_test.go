package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("market = \"de-DE\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	configFlag = path
	defer func() { configFlag = "" }()

	cfg, usedPath, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if usedPath != path {
		t.Errorf("loadConfig used %s, want %s", usedPath, path)
	}
	if cfg.Market != "de-DE" {
		t.Errorf("market = %s, want de-DE", cfg.Market)
	}
}

func TestLoadConfigDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFlag = ""

	cfg, _, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Market != "en-US" {
		t.Errorf("default market = %s, want en-US", cfg.Market)
	}
}

func TestOnOff(t *testing.T) {
	if onOff(true) != "enabled" || onOff(false) != "disabled" {
		t.Error("unexpected onOff labels")
	}
}
