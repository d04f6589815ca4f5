package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cosmic-utils/bingwall/internal/bing"
	"github.com/cosmic-utils/bingwall/internal/config"
	"github.com/cosmic-utils/bingwall/internal/timer"
)

type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

func (m *mockClock) Ticker(d time.Duration) *time.Ticker {
	// Return a ticker that will never fire, checks are driven manually
	return time.NewTicker(24 * time.Hour)
}

func (m *mockClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

type mockFetcher struct {
	img       *bing.Image
	todayErr  error
	downloads int
}

func (m *mockFetcher) Today(ctx context.Context, market string) (*bing.Image, error) {
	if m.todayErr != nil {
		return nil, m.todayErr
	}
	return m.img, nil
}

func (m *mockFetcher) Download(ctx context.Context, img *bing.Image, dir, market string) (string, error) {
	m.downloads++
	path := filepath.Join(dir, bing.Filename(market, time.Now()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte("jpeg"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type mockApplier struct {
	applied []string
}

func (m *mockApplier) Apply(imagePath string) error {
	m.applied = append(m.applied, imagePath)
	return nil
}

type mockNotifier struct {
	NotifyCount int
	LastTitle   string
	LastMessage string
}

func (m *mockNotifier) Notify(title, message string) error {
	m.NotifyCount++
	m.LastTitle = title
	m.LastMessage = message
	return nil
}

type mockEmitter struct {
	changed  []string
	toggled  []bool
	progress []string
}

func (m *mockEmitter) EmitWallpaperChanged(path, title string) error {
	m.changed = append(m.changed, path)
	return nil
}

func (m *mockEmitter) EmitTimerStateChanged(enabled bool) error {
	m.toggled = append(m.toggled, enabled)
	return nil
}

func (m *mockEmitter) EmitFetchProgress(state, message string) error {
	m.progress = append(m.progress, state)
	return nil
}

func newTestDaemon(t *testing.T) (*Daemon, *mockFetcher, *mockApplier, *mockNotifier, *mockEmitter, *mockClock) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.WallpaperDir = filepath.Join(dir, "wallpapers")
	cfgPath := filepath.Join(dir, "config.toml")

	clock := &mockClock{now: time.Now()}
	fetcher := &mockFetcher{img: &bing.Image{
		URL:   "https://www.bing.com/th?id=test.jpg",
		Title: "Aurora over Iceland",
	}}
	applier := &mockApplier{}
	notifier := &mockNotifier{}
	emitter := &mockEmitter{}

	d := NewDaemon(cfg, cfgPath, &timer.State{}, filepath.Join(dir, "timer.json"), clock, fetcher, applier, notifier)
	d.SetEmitter(emitter)
	return d, fetcher, applier, notifier, emitter, clock
}

func TestFetchAndApply(t *testing.T) {
	t.Run("apply path", func(t *testing.T) {
		d, _, applier, notifier, emitter, _ := newTestDaemon(t)

		info, err := d.FetchAndApply(context.Background(), true)
		if err != nil {
			t.Fatalf("FetchAndApply: %v", err)
		}

		if len(applier.applied) != 1 || applier.applied[0] != info.Path {
			t.Errorf("expected applied path %s, got %v", info.Path, applier.applied)
		}
		if notifier.NotifyCount != 1 || notifier.LastMessage != "Aurora over Iceland" {
			t.Errorf("expected one notification with title, got %+v", notifier)
		}
		if len(emitter.changed) != 1 {
			t.Errorf("expected WallpaperChanged emission, got %v", emitter.changed)
		}
		want := []string{"starting", "downloading", "applying", "complete"}
		if len(emitter.progress) != len(want) {
			t.Fatalf("progress states = %v, want %v", emitter.progress, want)
		}
		for i, state := range want {
			if emitter.progress[i] != state {
				t.Errorf("progress[%d] = %s, want %s", i, emitter.progress[i], state)
			}
		}
	})

	t.Run("fetch only", func(t *testing.T) {
		d, _, applier, notifier, _, _ := newTestDaemon(t)

		if _, err := d.FetchAndApply(context.Background(), false); err != nil {
			t.Fatalf("FetchAndApply: %v", err)
		}
		if len(applier.applied) != 0 {
			t.Error("wallpaper applied despite apply=false")
		}
		if notifier.NotifyCount != 0 {
			t.Error("notification sent despite apply=false")
		}
	})

	t.Run("records fetch time", func(t *testing.T) {
		d, _, _, _, _, clock := newTestDaemon(t)

		if _, err := d.FetchAndApply(context.Background(), false); err != nil {
			t.Fatalf("FetchAndApply: %v", err)
		}
		last, ok := d.state.LastFetchTime()
		if !ok {
			t.Fatal("fetch time not recorded")
		}
		// RFC 3339 persistence drops sub-second precision.
		if !last.Equal(clock.Now().Truncate(time.Second)) {
			t.Errorf("last fetch = %v, want %v", last, clock.Now())
		}
	})
}

func TestControllerSurface(t *testing.T) {
	t.Run("set market persists", func(t *testing.T) {
		d, _, _, _, _, _ := newTestDaemon(t)

		if err := d.SetMarket("ja-JP"); err != nil {
			t.Fatalf("SetMarket: %v", err)
		}
		if d.Market() != "ja-JP" {
			t.Errorf("Market = %s, want ja-JP", d.Market())
		}

		cfg, err := config.Load(d.cfgPath)
		if err != nil {
			t.Fatalf("reload config: %v", err)
		}
		if cfg.Market != "ja-JP" {
			t.Errorf("persisted market = %s, want ja-JP", cfg.Market)
		}
	})

	t.Run("set market rejects unknown code", func(t *testing.T) {
		d, _, _, _, _, _ := newTestDaemon(t)
		if err := d.SetMarket("xx-XX"); err == nil {
			t.Error("expected error for unknown market")
		}
	})

	t.Run("timer toggle emits signal", func(t *testing.T) {
		d, _, _, _, emitter, _ := newTestDaemon(t)

		if err := d.SetTimerEnabled(true); err != nil {
			t.Fatalf("SetTimerEnabled: %v", err)
		}
		if !d.TimerEnabled() {
			t.Error("timer not enabled")
		}
		if d.TimerNextRun() == "" {
			t.Error("expected a next run time while enabled")
		}

		if err := d.SetTimerEnabled(false); err != nil {
			t.Fatalf("SetTimerEnabled: %v", err)
		}
		if d.TimerNextRun() != "" {
			t.Error("expected empty next run while disabled")
		}

		if len(emitter.toggled) != 2 || !emitter.toggled[0] || emitter.toggled[1] {
			t.Errorf("TimerStateChanged emissions = %v, want [true false]", emitter.toggled)
		}
	})

	t.Run("history lists downloads", func(t *testing.T) {
		d, _, _, _, _, _ := newTestDaemon(t)

		info, err := d.FetchAndApply(context.Background(), false)
		if err != nil {
			t.Fatalf("FetchAndApply: %v", err)
		}

		history, err := d.History()
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) != 1 || history[0].Path != info.Path {
			t.Errorf("history = %+v, want single entry for %s", history, info.Path)
		}
	})

	t.Run("delete refuses paths outside wallpaper dir", func(t *testing.T) {
		d, _, _, _, _, _ := newTestDaemon(t)

		outside := filepath.Join(t.TempDir(), "other.jpg")
		if err := os.WriteFile(outside, []byte("jpeg"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := d.DeleteWallpaper(outside); err == nil {
			t.Error("expected error for path outside wallpaper dir")
		}

		info, err := d.FetchAndApply(context.Background(), false)
		if err != nil {
			t.Fatalf("FetchAndApply: %v", err)
		}
		if err := d.DeleteWallpaper(info.Path); err != nil {
			t.Errorf("DeleteWallpaper: %v", err)
		}
		if _, err := os.Stat(info.Path); !os.IsNotExist(err) {
			t.Error("wallpaper still on disk after delete")
		}
	})
}

func TestScheduleCatchup(t *testing.T) {
	d, fetcher, _, _, _, clock := newTestDaemon(t)
	d.state.Enabled = true
	d.spread = func() time.Duration { return 0 }

	// Last fetch yesterday, clock past today's schedule, boot delay elapsed.
	yesterday := time.Date(2026, 8, 29, 8, 5, 0, 0, time.Local)
	d.state.RecordFetch(yesterday)
	clock.now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	startedAt := clock.now.Add(-timer.BootDelay - time.Minute)

	d.checkSchedule(context.Background(), startedAt)
	if fetcher.downloads != 1 {
		t.Fatalf("expected catch-up fetch, downloads = %d", fetcher.downloads)
	}

	// A second check on the same day must not fetch again.
	d.checkSchedule(context.Background(), startedAt)
	if fetcher.downloads != 1 {
		t.Errorf("expected no repeat fetch, downloads = %d", fetcher.downloads)
	}
}
