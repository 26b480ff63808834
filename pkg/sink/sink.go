// Package sink opens output files for exported tables, optionally
// compressing what is written to them.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrDestinationExists is returned when NoClobber is set and the output
	// file already exists.
	ErrDestinationExists = errors.New("destination file already exists")
)

// Compression selects the stream compression of an output file.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// CompressionFor picks the compression from the file extension: ".gz" for
// gzip, ".zst" for zstd, none otherwise.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CompressionGzip
	case ".zst":
		return CompressionZstd
	}
	return CompressionNone
}

// Options configures Create.
type Options struct {
	// NoClobber refuses to replace an existing file.
	// By default an existing file is truncated.
	NoClobber bool

	// Compression of the written stream.
	Compression Compression
}

// File is an output file opened by Create.
type File struct {
	path   string
	file   *os.File
	w      io.Writer
	closer io.Closer
	opts   Options
}

// Create opens path for writing, creating parent directories as needed.
func Create(path string, opts Options) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if opts.NoClobber {
		flags |= os.O_EXCL
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrDestinationExists
		}
		return nil, fmt.Errorf("create destination: %w", err)
	}

	out := &File{path: path, file: f, w: f, opts: opts}
	switch opts.Compression {
	case CompressionNone:
	case CompressionGzip:
		gw := gzip.NewWriter(f)
		out.w, out.closer = gw, gw
	case CompressionZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = out.abort()
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		out.w, out.closer = zw, zw
	default:
		_ = out.abort()
		return nil, fmt.Errorf("unknown compression %q", opts.Compression)
	}
	return out, nil
}

// Name returns the path the file was created at.
func (f *File) Name() string {
	return f.path
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

// Close flushes the compressor, syncs the file to disk and closes it.
func (f *File) Close() error {
	if f.closer != nil {
		if err := f.closer.Close(); err != nil {
			_ = f.abort()
			return fmt.Errorf("flush: %w", err)
		}
	}
	if err := f.file.Sync(); err != nil {
		_ = f.abort()
		return fmt.Errorf("sync: %w", err)
	}
	return f.file.Close()
}

// Abort closes the file without flushing. A file created with NoClobber is
// removed again, since nothing existed at its path before.
func (f *File) Abort() error {
	if f.closer != nil {
		_ = f.closer.Close()
	}
	return f.abort()
}

func (f *File) abort() error {
	err := f.file.Close()
	if f.opts.NoClobber {
		_ = os.Remove(f.path)
	}
	return err
}
