// Package timer tracks the daily refresh schedule for the in-process
// scheduler: whether it is enabled, when the last successful fetch
// happened, and when the next run is due.
//
// The schedule fires daily at 08:00 local time. A run missed while the
// machine was off is caught up shortly after start, and every run is
// spread by a small random delay to avoid hammering the API at the top of
// the hour.
package timer

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/cosmic-utils/bingwall/internal/fileutil"
	"github.com/cosmic-utils/bingwall/internal/xdgpath"
)

// Scheduled run time, local.
const (
	ScheduledHour   = 8
	ScheduledMinute = 0
)

// BootDelay is how long a fresh daemon waits before a catch-up fetch.
const BootDelay = 5 * time.Minute

// MaxSpreadDelay is the upper bound of the random per-run delay.
const MaxSpreadDelay = 5 * time.Minute

// State is the persisted scheduler state.
type State struct {
	Enabled bool `json:"enabled"`
	// LastFetch is the last successful fetch, RFC 3339. Empty when the
	// scheduler never ran.
	LastFetch string `json:"last_fetch,omitempty"`
}

// StatePath returns the scheduler state file location.
func StatePath() (string, error) {
	return xdgpath.StatePath("timer.json")
}

// LoadState loads the scheduler state from path. A missing file yields a
// zero state.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save writes the scheduler state to path.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timer state: %w", err)
	}
	if _, err := fileutil.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write timer state: %w", err)
	}
	return nil
}

// LastFetchTime parses the recorded last fetch, if any.
func (s *State) LastFetchTime() (time.Time, bool) {
	if s.LastFetch == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.LastFetch)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(time.Local), true
}

// RecordFetch stores now as the last successful fetch.
func (s *State) RecordFetch(now time.Time) {
	s.LastFetch = now.Format(time.RFC3339)
}

// NextRun returns the next scheduled run after now: today at 08:00 if
// that is still ahead, otherwise tomorrow.
func NextRun(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(),
		ScheduledHour, ScheduledMinute, 0, 0, now.Location())
	if now.Before(today) {
		return today
	}
	return today.AddDate(0, 0, 1)
}

// NeedsCatchup reports whether a scheduled run was missed: today's run
// time has passed and the last successful fetch is from before today.
func (s *State) NeedsCatchup(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(),
		ScheduledHour, ScheduledMinute, 0, 0, now.Location())
	if now.Before(today) {
		return false
	}

	if last, ok := s.LastFetchTime(); ok {
		ly, lm, ld := last.Date()
		ny, nm, nd := now.Date()
		if ly > ny || (ly == ny && (lm > nm || (lm == nm && ld >= nd))) {
			return false
		}
	}
	return true
}

// SpreadDelay returns a random delay in [0, MaxSpreadDelay).
func SpreadDelay() time.Duration {
	return time.Duration(rand.Int63n(int64(MaxSpreadDelay)))
}

// FormatRun renders a run time the way the tray and CLI display it.
func FormatRun(t time.Time) string {
	return t.Format("Mon Jan 02 15:04")
}
