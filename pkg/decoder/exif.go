package decoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

var registerMakerNotes sync.Once

// Exif decodes EXIF metadata from JPEG and TIFF images using goexif.
//
// Field names are goexif field names in snake case, so GPSLatitude becomes
// gps_latitude and DateTimeOriginal becomes date_time_original.
type Exif struct {
	// MakerNotes enables the Canon and Nikon maker note parsers. The
	// parsers are registered process-wide the first time it is used.
	MakerNotes bool
}

// Decode implements Decoder.
func (e Exif) Decode(data []byte) (Metadata, error) {
	if e.MakerNotes {
		registerMakerNotes.Do(func() {
			exif.RegisterParsers(mknote.All...)
		})
	}

	switch {
	case isJPEG(data):
		if !hasExifSegment(data) {
			return exifMetadata{}, nil
		}
	case isTIFF(data):
	default:
		return nil, ErrUnsupportedFormat
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// exif.Decode returns a partially-populated *Exif for non-critical
		// errors; keep whatever was read.
		if exif.IsCriticalError(err) || x == nil {
			return nil, fmt.Errorf("decode exif: %w", err)
		}
	}

	w := &fieldWalker{values: make(map[string]any)}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("walk exif: %w", err)
	}
	sort.Strings(w.names)

	return exifMetadata{
		present: isJPEG(data) || len(w.names) > 0,
		names:   w.names,
		values:  w.values,
	}, nil
}

type exifMetadata struct {
	present bool
	names   []string
	values  map[string]any
}

func (m exifMetadata) HasMetadata() bool {
	return m.present
}

func (m exifMetadata) Fields() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

func (m exifMetadata) Get(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

type fieldWalker struct {
	names  []string
	values map[string]any
}

func (w *fieldWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	v, ok := tagValue(tag)
	if !ok {
		return nil
	}
	key := FieldName(string(name))
	if _, dup := w.values[key]; !dup {
		w.names = append(w.names, key)
	}
	w.values[key] = v
	return nil
}

// FieldName converts a goexif field name to the snake case name used in
// records.
func FieldName(name string) string {
	return strcase.ToSnake(name)
}

// tagValue converts a TIFF tag to a Go value: strings for ASCII, int64 or
// []int64 for integer types, float64 or []float64 for rational and float
// types, and the raw bytes for everything else.
func tagValue(tag *tiff.Tag) (any, bool) {
	n := int(tag.Count)

	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, false
		}
		return strings.TrimRight(s, "\x00"), true

	case tiff.IntVal:
		vals := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Int64(i)
			if err != nil {
				return nil, false
			}
			vals = append(vals, v)
		}
		if n == 1 {
			return vals[0], true
		}
		return vals, true

	case tiff.RatVal:
		vals := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return nil, false
			}
			if den == 0 {
				vals = append(vals, 0)
				continue
			}
			vals = append(vals, float64(num)/float64(den))
		}
		if n == 1 {
			return vals[0], true
		}
		return vals, true

	case tiff.FloatVal:
		vals := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Float(i)
			if err != nil {
				return nil, false
			}
			vals = append(vals, v)
		}
		if n == 1 {
			return vals[0], true
		}
		return vals, true
	}

	raw := make([]byte, len(tag.Val))
	copy(raw, tag.Val)
	return raw, true
}

func isJPEG(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8
}

func isTIFF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))
}

// hasExifSegment walks the JPEG marker segments up to the start of scan and
// reports whether an APP1 segment with an EXIF header is present.
func hasExifSegment(data []byte) bool {
	i := 2
	for i+1 < len(data) {
		if data[i] != 0xFF {
			return false
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			// fill byte
			i++
			continue
		case marker == 0xD9 || marker == 0xDA:
			return false
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			i += 2
			continue
		}

		if i+4 > len(data) {
			return false
		}
		length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if length < 2 {
			return false
		}
		payload := data[i+4 : min(i+2+length, len(data))]
		if marker == 0xE1 && bytes.HasPrefix(payload, []byte("Exif\x00\x00")) {
			return true
		}
		i += 2 + length
	}
	return false
}
