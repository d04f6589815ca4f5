package bing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const archiveJSON = `{
  "images": [
    {
      "url": "/th?id=OHR.Test_EN-US123_1920x1080.jpg",
      "copyright": "A test valley (© Somebody/Somewhere)",
      "title": "Test valley",
      "startdate": "20260830"
    }
  ]
}`

func newTestServer(t *testing.T, imageBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/HPImageArchive.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mkt") == "" {
			http.Error(w, "missing mkt", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(archiveJSON))
	})
	mux.HandleFunc("/th", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(imageBody))
	})
	return httptest.NewServer(mux)
}

func TestToday(t *testing.T) {
	srv := newTestServer(t, "jpegbytes")
	defer srv.Close()

	client := NewClientWithBase(srv.URL, srv.Client())

	t.Run("resolves partial url", func(t *testing.T) {
		img, err := client.Today(context.Background(), "en-US")
		if err != nil {
			t.Fatalf("Today failed: %v", err)
		}
		if img.URL != srv.URL+"/th?id=OHR.Test_EN-US123_1920x1080.jpg" {
			t.Errorf("unexpected url: %s", img.URL)
		}
		if img.Title != "Test valley" {
			t.Errorf("unexpected title: %s", img.Title)
		}
		if img.StartDate != "20260830" {
			t.Errorf("unexpected startdate: %s", img.StartDate)
		}
	})

	t.Run("empty images array", func(t *testing.T) {
		empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"images":[]}`))
		}))
		defer empty.Close()

		_, err := NewClientWithBase(empty.URL, empty.Client()).Today(context.Background(), "en-US")
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
	})

	t.Run("server error", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer failing.Close()

		_, err := NewClientWithBase(failing.URL, failing.Client()).Today(context.Background(), "en-US")
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t, "jpegbytes")
	defer srv.Close()

	client := NewClientWithBase(srv.URL, srv.Client())
	dir := filepath.Join(t.TempDir(), "walls")

	img, err := client.Today(context.Background(), "en-US")
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}

	path, err := client.Download(context.Background(), img, dir, "en-US")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	want := filepath.Join(dir, Filename("en-US", time.Now()))
	if path != want {
		t.Errorf("got path %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Errorf("got %q", data)
	}

	t.Run("idempotent", func(t *testing.T) {
		// Point the image at a failing URL; the existing file must win.
		img.URL = srv.URL + "/missing"
		again, err := client.Download(context.Background(), img, dir, "en-US")
		if err != nil {
			t.Fatalf("second Download failed: %v", err)
		}
		if again != path {
			t.Errorf("got %s, want %s", again, path)
		}
	})

	t.Run("no partial files", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 file, got %d", len(entries))
		}
	})
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	if got := Filename("de-DE", date); got != "bing-de-DE-2026-08-30.jpg" {
		t.Errorf("got %s", got)
	}
}
