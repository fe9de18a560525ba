// Package imagecache keeps downloaded images on disk so repeated runs
// against the same URL skip the network.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/dominant/internal/util/http"
)

// Options configures the cache.
type Options struct {
	// Dir is the cache directory. If empty, DefaultDir is used.
	Dir string

	// Refresh downloads the image even when a cached copy exists.
	Refresh bool

	// Fetch configures the download.
	Fetch httputil.FetchOptions
}

// DefaultDir returns ~/.cache/dominant/images or the platform equivalent.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "dominant", "images"), nil
	}
	return filepath.Join(cacheDir, "dominant", "images"), nil
}

// Filename maps a URL to its cache entry name: a hash of the URL plus the
// URL's extension, so the loader still sees formats such as .xz.
func Filename(url string) string {
	sum := sha256.Sum256([]byte(url))

	base := url
	if idx := strings.IndexAny(base, "?#"); idx != -1 {
		base = base[:idx]
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" || len(ext) > 5 || strings.ContainsRune(ext, '/') {
		ext = ".img"
	}

	return fmt.Sprintf("%x%s", sum[:16], ext)
}

// Fetch returns the local path of url's cached copy, downloading it first
// when it is missing or opts.Refresh is set.
func Fetch(ctx context.Context, url string, opts Options) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cached := filepath.Join(dir, Filename(url))
	if !opts.Refresh {
		if _, err := os.Stat(cached); err == nil {
			return cached, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so concurrent readers never see a partial file.
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cached); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}

	return cached, nil
}
