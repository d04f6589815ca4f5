package systemd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeRunner struct {
	calls   [][]string
	outputs map[string]string
	fails   map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: make(map[string]string),
		fails:   make(map[string]bool),
	}
}

func (r *fakeRunner) Systemctl(args ...string) (string, error) {
	r.calls = append(r.calls, args)
	key := strings.Join(args, " ")
	if r.fails[key] {
		return "", fmt.Errorf("systemctl %s failed", key)
	}
	return r.outputs[key], nil
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner, filepath.Join(dir, "systemd", "user"))

	if err := m.Install("/usr/bin/bingwall"); err != nil {
		t.Fatalf("Install: %v", err)
	}

	for _, name := range []string{ServiceUnit, TimerUnit, LoginServiceUnit} {
		data, err := os.ReadFile(filepath.Join(dir, "systemd", "user", name))
		if err != nil {
			t.Fatalf("unit %s not written: %v", name, err)
		}
		if name != TimerUnit && !strings.Contains(string(data), "/usr/bin/bingwall fetch") {
			t.Errorf("unit %s missing exec line:\n%s", name, data)
		}
	}

	timerData, _ := os.ReadFile(filepath.Join(dir, "systemd", "user", TimerUnit))
	for _, want := range []string{"OnCalendar=*-*-* 08:00:00", "OnBootSec=5min", "RandomizedDelaySec=300", "Persistent=true"} {
		if !strings.Contains(string(timerData), want) {
			t.Errorf("timer unit missing %q", want)
		}
	}

	var sawReload, sawEnable bool
	for _, call := range runner.calls {
		joined := strings.Join(call, " ")
		if joined == "daemon-reload" {
			sawReload = true
		}
		if joined == "enable --now "+TimerUnit {
			sawEnable = true
		}
	}
	if !sawReload || !sawEnable {
		t.Errorf("expected daemon-reload and enable --now, got %v", runner.calls)
	}
}

func TestUninstall(t *testing.T) {
	dir := t.TempDir()
	unitDir := filepath.Join(dir, "systemd", "user")
	if err := os.MkdirAll(unitDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{ServiceUnit, TimerUnit, LoginServiceUnit} {
		if err := os.WriteFile(filepath.Join(unitDir, name), []byte("[Unit]\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	runner := newFakeRunner()
	m := NewManagerWithRunner(runner, unitDir)
	if err := m.Uninstall(); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}

	for _, name := range []string{ServiceUnit, TimerUnit, LoginServiceUnit} {
		if _, err := os.Stat(filepath.Join(unitDir, name)); !os.IsNotExist(err) {
			t.Errorf("unit %s still present after uninstall", name)
		}
	}
}

func TestIsEnabled(t *testing.T) {
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner, t.TempDir())
	if !m.IsEnabled() {
		t.Error("expected enabled when systemctl succeeds")
	}

	runner.fails["is-enabled "+TimerUnit] = true
	if m.IsEnabled() {
		t.Error("expected disabled when systemctl fails")
	}
}

func TestNextRun(t *testing.T) {
	t.Run("inactive timer", func(t *testing.T) {
		runner := newFakeRunner()
		runner.outputs["is-active "+TimerUnit] = "inactive"
		m := NewManagerWithRunner(runner, t.TempDir())
		if got := m.NextRun(); got != "" {
			t.Errorf("NextRun = %q, want empty", got)
		}
	})

	t.Run("no concrete elapse", func(t *testing.T) {
		runner := newFakeRunner()
		runner.outputs["is-active "+TimerUnit] = "active"
		runner.outputs["show "+TimerUnit+" --property=NextElapseUSecRealtime"] = "NextElapseUSecRealtime=n/a"
		m := NewManagerWithRunner(runner, t.TempDir())
		if got := m.NextRun(); got != "Scheduled" {
			t.Errorf("NextRun = %q, want Scheduled", got)
		}
	})

	t.Run("microsecond timestamp", func(t *testing.T) {
		next := time.Date(2026, 8, 31, 8, 2, 13, 0, time.Local)
		runner := newFakeRunner()
		runner.outputs["is-active "+TimerUnit] = "active"
		runner.outputs["show "+TimerUnit+" --property=NextElapseUSecRealtime"] =
			fmt.Sprintf("NextElapseUSecRealtime=%d", next.Unix()*1_000_000)
		m := NewManagerWithRunner(runner, t.TempDir())
		if got, want := m.NextRun(), next.Format("Mon Jan 02 15:04"); got != want {
			t.Errorf("NextRun = %q, want %q", got, want)
		}
	})
}
