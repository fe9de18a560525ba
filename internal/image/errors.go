package image

import (
	"errors"
	"fmt"
)

// ErrDecode is matched by every loader failure: a missing or unreadable
// resource, or bytes that are not a supported image.
var ErrDecode = errors.New("image decode failed")

// DecodeError records the resource that could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeErr(path string, format string, args ...any) error {
	return &DecodeError{Path: path, Err: fmt.Errorf(format, args...)}
}
