// Package fetch retrieves the schedule export over HTTP with a small
// disk-backed cache, so repeated runs revalidate with ETag/Last-Modified
// instead of re-downloading, and a flaky network can fall back to the
// last good copy.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	appLog "github.com/barometz/mch-schedule-reflow/internal/log"
)

// cacheEntry holds HTTP revalidation metadata for one URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads schedule documents with conditional requests against
// an on-disk cache keyed by a hash of the URL.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// New creates a Fetcher caching under cacheDir.
func New(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/schedule-cache"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cacheDir: cacheDir,
	}
}

// Fetch returns the document at url. fromCache reports whether the body
// came from the disk cache (304 response, or a network failure with a
// cached copy available).
func (f *Fetcher) Fetch(ctx context.Context, url string) (body []byte, fromCache bool, err error) {
	if url == "" {
		return nil, false, errors.New("fetch: url is empty")
	}

	cachePath := f.cachePathForURL(url)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return nil, false, err
	}

	meta, _ := loadCacheMeta(cachePath)
	cachedBody, _ := os.ReadFile(bodyFile(cachePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Info("fetch start", "url", url)

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("fetch failed, using cached body", err, "url", url)
			return cachedBody, true, nil
		}
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		fresh, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, false, readErr
		}
		newMeta := cacheEntry{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := saveCache(cachePath, newMeta, fresh); err != nil {
			appLog.Error("fetch cache save failed", err, "url", url)
		}
		appLog.Info("fetch done", "url", url, "bytes", len(fresh))
		return fresh, false, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, false, errors.New("fetch: 304 Not Modified but no cached body")
		}
		appLog.Info("fetch not modified, using cache", "url", url)
		return cachedBody, true, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("fetch non-OK, using cached body", errors.New(resp.Status), "url", url, "status", resp.StatusCode)
			return cachedBody, true, nil
		}
		return nil, false, fmt.Errorf("fetch: %s", resp.Status)
	}
}

// Retain writes body next to the cache as a diagnostic artifact and
// returns its path. Used when a fetched document later turns out to be
// malformed, so a human can inspect what the server actually sent.
func (f *Fetcher) Retain(name string, body []byte) (string, error) {
	if err := os.MkdirAll(f.cacheDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(f.cacheDir, name)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (f *Fetcher) cachePathForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func bodyFile(cachePath string) string {
	return filepath.Join(cachePath, "body.json")
}

func loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Body first, so meta never points at a missing body.
	if err := os.WriteFile(bodyFile(cachePath), body, 0o600); err != nil {
		return err
	}
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}
