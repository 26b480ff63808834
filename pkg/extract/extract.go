package extract

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/quidome/exif-extract-go/pkg/coords"
	"github.com/quidome/exif-extract-go/pkg/createdat"
	"github.com/quidome/exif-extract-go/pkg/decoder"
)

// Options configures Files.
type Options struct {
	// FS, when set, is used to open paths instead of the operating system.
	FS fs.FS

	// Decoder decodes file contents. If nil, decoder.Exif is used.
	Decoder decoder.Decoder

	// Logger receives per-file progress. If nil, nothing is logged.
	Logger *slog.Logger

	// CreatedAt adds the created_at and created_at_source fields.
	CreatedAt bool

	// Location is used for creation timestamps without a timezone.
	// If nil, time.Local is used.
	Location *time.Location
}

// Files extracts one record per file with metadata, in path order.
//
// It returns a *ReadError for files that cannot be read and an error
// matching ErrExtraction for files that cannot be decoded. Either aborts
// the batch.
func Files(paths []string, opts Options) (*Table, error) {
	dec := opts.Decoder
	if dec == nil {
		dec = decoder.Exif{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	table := NewTable()
	for _, path := range paths {
		logger.Info("reading file", "path", path)

		data, modTime, err := readFile(opts.FS, path)
		if err != nil {
			return nil, err
		}

		md, err := dec.Decode(data)
		if err != nil {
			logger.Debug("decode failed", "path", path, "error", err)
			return nil, fmt.Errorf("%s: %w", path, ErrExtraction)
		}
		if !md.HasMetadata() {
			logger.Info("no EXIF metadata found, skipping file", "path", path)
			continue
		}

		record := buildRecord(path, md)
		if opts.CreatedAt {
			res := createdat.Determine(path, record, modTime, createdat.Options{Location: opts.Location})
			createdAt := ""
			if !res.CreatedAt.IsZero() {
				createdAt = res.CreatedAt.Format(time.RFC3339)
			}
			record.set(FieldCreatedAt, createdAt)
			record.set(FieldCreatedAtSource, string(res.Source))
		}
		table.add(record)
	}
	return table, nil
}

// buildRecord copies every decoded field into a new record and adds the
// decimal GPS coordinates when the raw fields allow it.
func buildRecord(path string, md decoder.Metadata) *Record {
	r := NewRecord(path)
	for _, name := range md.Fields() {
		v, ok := md.Get(name)
		if !ok {
			continue
		}
		r.set(name, v)
	}

	deriveDecimal(r, FieldGPSLatitude, FieldGPSLatitudeRef, FieldGPSLatDecimal)
	deriveDecimal(r, FieldGPSLongitude, FieldGPSLongitudeRef, FieldGPSLonDecimal)
	return r
}

// deriveDecimal sets out when both the coordinate and its reference are
// present and well formed. Anything else leaves the record unchanged.
func deriveDecimal(r *Record, coordField, refField, out string) {
	v, ok := r.Get(coordField)
	if !ok {
		return
	}
	refVal, ok := r.Get(refField)
	if !ok {
		return
	}
	ref, ok := refVal.(string)
	if !ok {
		return
	}
	dms, ok := coords.FromValue(v)
	if !ok {
		return
	}
	r.set(out, coords.Decimal(dms, ref))
}

// readFile reads the whole file and its modification time. The handle is
// closed before returning.
func readFile(fsys fs.FS, path string) ([]byte, time.Time, error) {
	var (
		f   fs.File
		err error
	)
	if fsys != nil {
		f, err = fsys.Open(path)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, time.Time{}, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, &ReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, time.Time{}, &ReadError{Path: path, Err: fs.ErrInvalid}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, time.Time{}, &ReadError{Path: path, Err: err}
	}
	return data, info.ModTime(), nil
}
