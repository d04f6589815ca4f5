// Package gallery manages the directory of downloaded wallpapers.
package gallery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Wallpaper is one downloaded image in the history.
type Wallpaper struct {
	Path     string
	Filename string
	// Date is the YYYY-MM-DD date parsed from the filename tail, or the
	// bare filename when no date is present.
	Date string
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// DateFromFilename extracts a trailing YYYY-MM-DD date from a wallpaper
// filename such as "bing-en-US-2026-08-30.jpg". Filenames without a date
// return the name without extension.
func DateFromFilename(filename string) string {
	name := filename
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}

	if len(name) >= 10 {
		tail := name[len(name)-10:]
		if _, err := time.ParseInLocation("2006-01-02", tail, time.Local); err == nil {
			return tail
		}
	}
	return name
}

// Scan lists the wallpapers in dir, newest first. A missing directory
// yields an empty list.
func Scan(dir string) ([]Wallpaper, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wallpaper directory: %w", err)
	}

	var items []Wallpaper
	for _, entry := range entries {
		if entry.IsDir() || !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		items = append(items, Wallpaper{
			Path:     filepath.Join(dir, entry.Name()),
			Filename: entry.Name(),
			Date:     DateFromFilename(entry.Name()),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items, nil
}

// Prune deletes bing-*.jpg wallpapers older than keepDays and returns how
// many were removed. keepDays == 0 disables retention.
func Prune(dir string, keepDays int, now time.Time) int {
	if keepDays == 0 {
		return 0
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	cutoff := now.AddDate(0, 0, -keepDays)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "bing-") || !strings.HasSuffix(name, ".jpg") {
			continue
		}

		dateStr := DateFromFilename(name)
		fileDate, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			continue
		}

		if fileDate.Before(cutoff) {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil {
				slog.Warn("Failed to prune wallpaper", "path", path, "err", err)
				continue
			}
			deleted++
		}
	}
	return deleted
}

// Delete removes a single wallpaper by path.
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete wallpaper: %w", err)
	}
	return nil
}
