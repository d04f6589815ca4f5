// Package bing fetches daily image metadata from the Bing Homepage Image
// Archive and downloads the images.
//
// The archive is queried at
// https://www.bing.com/HPImageArchive.aspx?format=js&idx=0&n=1&mkt=<market>
// and returns partial image URLs that need the https://www.bing.com prefix.
package bing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "https://www.bing.com"

// Image is today's image of the day, with the download URL already
// resolved against the Bing domain.
type Image struct {
	URL       string
	Copyright string
	Title     string
	// StartDate is the day the image was featured, formatted YYYYMMDD.
	StartDate string
}

type apiResponse struct {
	Images []apiImage `json:"images"`
}

type apiImage struct {
	URL       string `json:"url"`
	Copyright string `json:"copyright"`
	Title     string `json:"title"`
	StartDate string `json:"startdate"`
}

// Client talks to the Bing image archive.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public Bing endpoint.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBase creates a client against a custom base URL.
// Used in tests.
func NewClientWithBase(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Today fetches today's image metadata for the given market.
func (c *Client) Today(ctx context.Context, market string) (*Image, error) {
	endpoint := fmt.Sprintf("%s/HPImageArchive.aspx?format=js&idx=0&n=1&mkt=%s",
		c.baseURL, url.QueryEscape(market))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Bing API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Bing API returned status %s", resp.Status)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse Bing response: %w", err)
	}

	if len(parsed.Images) == 0 {
		return nil, fmt.Errorf("no images in Bing response for market %s", market)
	}

	img := parsed.Images[0]
	return &Image{
		URL:       c.baseURL + img.URL,
		Copyright: img.Copyright,
		Title:     img.Title,
		StartDate: img.StartDate,
	}, nil
}

// Filename returns the wallpaper filename for a market and date,
// e.g. "bing-en-US-2026-08-30.jpg".
func Filename(market string, date time.Time) string {
	return fmt.Sprintf("bing-%s-%s.jpg", market, date.Format("2006-01-02"))
}

// Download saves the image into dir under a date and market based filename
// and returns the path. The download is skipped when the file already
// exists, making the operation idempotent within a day.
func (c *Client) Download(ctx context.Context, img *Image, dir, market string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create wallpaper directory: %w", err)
	}

	path := filepath.Join(dir, Filename(market, time.Now()))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, ".bing-*.part")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}
