// Package fetch retrieves the planning-site HTML page.
//
// The site has no API and no stable caching headers policy, so the fetcher
// keeps a disk-backed copy of the last good body per URL and falls back to
// it whenever the network or the site misbehaves. Requests carry an
// operator session cookie and a browser User-Agent; without both the site
// serves a login page instead of the planning table.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	appLog "planboard/internal/log"
)

// Result contains the outcome of fetching the planning page.
type Result struct {
	URL       string
	Body      []byte // HTML payload (either freshly fetched or from cache)
	FromCache bool   // true if the cached body was reused
	FetchedAt time.Time
}

// cacheEntry holds HTTP cache metadata for a single URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher fetches the planning page with conditional requests
// (ETag / Last-Modified) and a disk-backed cache.
type Fetcher struct {
	client        *http.Client
	cacheDir      string
	sessionCookie string
	userAgent     string
}

// NewFetcher creates a planning-page Fetcher.
//
// cacheDir is where per-URL cache subdirectories are stored. sessionCookie
// is a raw Cookie header value; userAgent is sent verbatim.
func NewFetcher(cacheDir, sessionCookie, userAgent string) *Fetcher {
	if cacheDir == "" {
		// Caller should set this explicitly; fall back to a relative dir
		// so that development runs without root permissions.
		cacheDir = "./var/cache"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		cacheDir:      cacheDir,
		sessionCookie: sessionCookie,
		userAgent:     userAgent,
	}
}

// Fetch retrieves the planning page at url, honoring ETag and
// Last-Modified, and falling back to the cached body on failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Result, error) {
	if url == "" {
		return Result{}, errors.New("planning URL is empty")
	}

	cachePath, err := f.cachePathForURL(url)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return Result{}, err
	}

	meta, _ := f.loadCacheMeta(cachePath)
	cachedBody, _ := f.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}

	if f.sessionCookie != "" {
		req.Header.Set("Cookie", f.sessionCookie)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Info("planning fetch start", "url", redactURL(url))

	resp, err := f.client.Do(req)
	if err != nil {
		// Network error; if we have a cached body, fall back to it.
		if len(cachedBody) > 0 {
			appLog.Error("planning fetch network error, using cached body", err, "url", redactURL(url))
			return Result{URL: url, Body: cachedBody, FromCache: true, FetchedAt: meta.UpdatedAt}, nil
		}
		return Result{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return Result{}, readErr
		}

		newMeta := cacheEntry{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := f.saveCache(cachePath, newMeta, body); err != nil {
			// Log but still return the freshly fetched body.
			appLog.Error("planning cache save failed", err, "url", redactURL(url))
		}

		appLog.Info("planning fetch success", "url", redactURL(url), "status", resp.StatusCode, "bytes", len(body))
		return Result{URL: url, Body: body, FetchedAt: newMeta.UpdatedAt}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return Result{}, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Info("planning fetch not modified; using cache", "url", redactURL(url))
		return Result{URL: url, Body: cachedBody, FromCache: true, FetchedAt: meta.UpdatedAt}, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("planning fetch non-OK, using cached body", errors.New(resp.Status), "url", redactURL(url), "status", resp.StatusCode)
			return Result{URL: url, Body: cachedBody, FromCache: true, FetchedAt: meta.UpdatedAt}, nil
		}
		return Result{}, errors.New(resp.Status)
	}
}

func (f *Fetcher) cachePathForURL(url string) (string, error) {
	if url == "" {
		return "", errors.New("empty url")
	}
	sum := sha256.Sum256([]byte(url))
	// First 16 hex chars are enough to avoid collisions here.
	dir := hex.EncodeToString(sum[:8])
	return filepath.Join(f.cacheDir, dir), nil
}

func (f *Fetcher) loadCacheMeta(cachePath string) (cacheEntry, error) {
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

func (f *Fetcher) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.html"))
}

func (f *Fetcher) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.html"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL hides path and query of a planning URL for logging: the query
// string routinely carries the session identifiers.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := -1
	for idx := 0; idx+2 < len(u); idx++ {
		if u[idx:idx+3] == "://" {
			i = idx + 3
			break
		}
	}
	if i == -1 {
		return "planning://...(redacted)"
	}

	j := i
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
