// Package decoder turns raw image bytes into a queryable set of metadata
// fields.
//
// The extraction engine only depends on the Decoder and Metadata
// interfaces; Exif is the implementation used by the command line tool.
package decoder

import "errors"

// ErrUnsupportedFormat is returned when the bytes are not an image format
// the decoder understands.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Metadata is the decoded metadata of a single image.
type Metadata interface {
	// HasMetadata reports whether the image carries any metadata at all.
	HasMetadata() bool

	// Fields lists the names of all present fields.
	Fields() []string

	// Get returns the decoded value of a field.
	Get(name string) (any, bool)
}

// Decoder decodes the raw bytes of an image file.
type Decoder interface {
	Decode(data []byte) (Metadata, error)
}
