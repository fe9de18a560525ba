// Package compression unwraps single compressed files so that images stored
// as .gz, .bz2 or .xz can be decoded like plain ones.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// MaxDecompressedBytes bounds how much a compressed file may expand to.
const MaxDecompressedBytes int64 = 256 << 20

// ErrSizeLimit is returned once a stream expands past its limit.
var ErrSizeLimit = errors.New("decompression size limit exceeded")

// Format identifies a compression wrapper.
type Format string

const (
	None  Format = ""
	Gzip  Format = "gzip"
	Bzip2 Format = "bzip2"
	XZ    Format = "xz"
)

var extensions = map[string]Format{
	".gz":  Gzip,
	".bz2": Bzip2,
	".xz":  XZ,
}

// Detect returns the compression format implied by path's extension.
// Matching is case-insensitive.
func Detect(path string) Format {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Strip removes a trailing compression extension, so "a.png.xz" becomes
// "a.png". Other paths are returned unchanged.
func Strip(path string) string {
	if Detect(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// NewReader wraps r in a decompressor for f, limited to maxBytes of output.
// A zero maxBytes uses MaxDecompressedBytes. None returns r unchanged.
func NewReader(r io.Reader, f Format, maxBytes int64) (io.Reader, error) {
	if maxBytes <= 0 {
		maxBytes = MaxDecompressedBytes
	}

	var dr io.Reader
	switch f {
	case None:
		return r, nil
	case Gzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dr = gzr
	case Bzip2:
		dr = bzip2.NewReader(r)
	case XZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", f)
	}

	return NewLimitedReader(dr, maxBytes), nil
}

// LimitedReader wraps an io.Reader and fails once more than Remaining
// bytes have been read.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		// At the limit: a clean EOF is fine, one more byte is not.
		var extra [1]byte
		n, err := io.ReadFull(l.R, extra[:])
		switch {
		case n > 0:
			return 0, ErrSizeLimit
		case err == io.EOF:
			return 0, io.EOF
		default:
			return 0, err
		}
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
