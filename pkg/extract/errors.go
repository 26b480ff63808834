package extract

import (
	"errors"
	"fmt"
)

// ErrExtraction is returned when a file's bytes cannot be decoded as an
// image with metadata. The decoder's own error is not included.
var ErrExtraction = errors.New("EXIF metadata extraction failed")

// ReadError is returned when an input file cannot be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
