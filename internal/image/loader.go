// Package image provides utilities for loading images from files and URLs.
package image

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/dominant/internal/compression"
	httputil "github.com/jmylchreest/dominant/internal/util/http"
	"github.com/jmylchreest/dominant/internal/util/imagecache"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	// Every error it returns matches ErrDecode.
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF (first frame), WebP, BMP, TIFF,
// optionally wrapped in gzip, bzip2 or xz compression.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, decodeErr(path, "image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, decodeErr(path, "image file not found")
		}
		return nil, decodeErr(path, "failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, decodeErr(path, "path is a directory, not a file")
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, decodeErr(path, "failed to open image file: %w", err)
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if format := compression.Detect(path); format != compression.None {
		r, err = compression.NewReader(r, format, 0)
		if err != nil {
			return nil, decodeErr(path, "failed to open %s stream: %w", format, err)
		}
	}

	return decode(path, r)
}

func decode(path string, r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if format == "" {
			return nil, decodeErr(path, "unsupported or invalid image format: %w", err)
		}
		return nil, decodeErr(path, "failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader
	fetch      httputil.FetchOptions
	cacheDir   string
	refresh    bool
}

// NewSmartLoader creates a new SmartLoader instance. fetch configures
// URL downloads; its zero value uses the httputil defaults. A non-empty
// cacheDir keeps downloaded images there and reuses them on later loads
// unless refresh is set.
func NewSmartLoader(fetch httputil.FetchOptions, cacheDir string, refresh bool) *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		fetch:      fetch,
		cacheDir:   cacheDir,
		refresh:    refresh,
	}
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if IsURL(path) {
		return l.loadFromURL(ctx, path)
	}
	return l.fileLoader.Load(ctx, path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if l.cacheDir != "" {
		cached, err := imagecache.Fetch(ctx, url, imagecache.Options{Dir: l.cacheDir, Refresh: l.refresh, Fetch: l.fetch})
		if err != nil {
			return nil, decodeErr(url, "failed to fetch image from URL: %w", err)
		}
		img, err := l.fileLoader.Load(ctx, cached)
		if err != nil {
			return nil, decodeErr(url, "failed to load cached image: %w", err)
		}
		return img, nil
	}

	data, err := httputil.Fetch(ctx, url, l.fetch)
	if err != nil {
		return nil, decodeErr(url, "failed to fetch image from URL: %w", err)
	}
	return decode(url, bytes.NewReader(data))
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// isImageFile checks if a file has a supported image extension, looking
// through a trailing compression extension.
func isImageFile(path string) bool {
	name := strings.ToLower(compression.Strip(path))
	return slices.Contains(SupportedImageExtensions(), filepath.Ext(name))
}

// ScanDirectoryForImages scans a directory and returns all image files in
// name order. It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}

	return imageFiles, nil
}

// ExpandPaths replaces every directory in paths with the images it holds.
// Files and URLs pass through untouched, including ones that do not
// exist, so the failure is reported per input when it is loaded.
func ExpandPaths(paths []string) ([]string, error) {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsURL(p) {
			expanded = append(expanded, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			expanded = append(expanded, p)
			continue
		}
		files, err := ScanDirectoryForImages(p)
		if err != nil {
			return nil, &DecodeError{Path: p, Err: err}
		}
		expanded = append(expanded, files...)
	}
	return expanded, nil
}
