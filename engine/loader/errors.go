package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat reports a file whose extension or content type has no backend.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrMalformed reports a file whose contents could not be decoded.
	ErrMalformed = errors.New("malformed file")
)

// LoadError is returned for any failure to read or decode a model or texture file.
type LoadError struct {
	// Path is the file that failed to load.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// malformed wraps a decode failure with ErrMalformed.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
