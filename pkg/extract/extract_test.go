package extract_test

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/quidome/exif-extract-go/pkg/decoder"
	"github.com/quidome/exif-extract-go/pkg/decoder/exiftest"
	"github.com/quidome/exif-extract-go/pkg/extract"
)

// fakeMetadata keeps fields in declaration order.
type fakeMetadata struct {
	fields []extract.Field
}

func (m fakeMetadata) HasMetadata() bool { return len(m.fields) > 0 }

func (m fakeMetadata) Fields() []string {
	names := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		names = append(names, f.Name)
	}
	return names
}

func (m fakeMetadata) Get(name string) (any, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// fakeDecoder maps file contents to metadata. Contents it does not know
// fail to decode.
type fakeDecoder struct {
	byContent map[string]fakeMetadata
	calls     int
}

func (d *fakeDecoder) Decode(data []byte) (decoder.Metadata, error) {
	d.calls++
	md, ok := d.byContent[string(data)]
	if !ok {
		return nil, errors.New("boom")
	}
	return md, nil
}

func TestFiles_TwoFileScenario(t *testing.T) {
	fsys := fstest.MapFS{
		"a.jpg": &fstest.MapFile{Data: []byte("A")},
		"b.jpg": &fstest.MapFile{Data: []byte("B")},
	}
	dec := &fakeDecoder{byContent: map[string]fakeMetadata{
		"A": {fields: []extract.Field{
			{Name: "make", Value: "Sony"},
			{Name: "gps_latitude", Value: []float64{10, 30, 0}},
			{Name: "gps_latitude_ref", Value: "N"},
			{Name: "gps_longitude", Value: []float64{20, 0, 0}},
			{Name: "gps_longitude_ref", Value: "W"},
		}},
		"B": {fields: []extract.Field{
			{Name: "make", Value: "Canon"},
			{Name: "model", Value: "G5"},
		}},
	}}

	table, err := extract.Files([]string{"a.jpg", "b.jpg"}, extract.Options{FS: fsys, Decoder: dec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFields := []string{
		"filename", "gps_lat_decimal", "gps_lon_decimal", "make",
		"gps_latitude", "gps_latitude_ref", "gps_longitude", "gps_longitude_ref", "model",
	}
	if got := table.Fields(); !reflect.DeepEqual(got, wantFields) {
		t.Fatalf("unexpected fields\n got: %#v\nwant: %#v", got, wantFields)
	}

	records := table.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	a, b := records[0], records[1]
	if a.Filename() != "a.jpg" || b.Filename() != "b.jpg" {
		t.Fatalf("unexpected record order: %q, %q", a.Filename(), b.Filename())
	}
	if lat, _ := a.Get("gps_lat_decimal"); lat != 10.5 {
		t.Fatalf("gps_lat_decimal = %#v, want 10.5", lat)
	}
	if lon, _ := a.Get("gps_lon_decimal"); lon != -20.0 {
		t.Fatalf("gps_lon_decimal = %#v, want -20.0", lon)
	}
	if b.Has("gps_lat_decimal") || b.Has("gps_lon_decimal") {
		t.Fatalf("record without GPS must not carry decimal fields")
	}
	if a.Has("model") {
		t.Fatalf("record a must not carry model")
	}
}

func TestFiles_EveryRecordFieldIsInSchema(t *testing.T) {
	fsys := fstest.MapFS{
		"a.jpg": &fstest.MapFile{Data: []byte("A")},
		"b.jpg": &fstest.MapFile{Data: []byte("B")},
		"c.jpg": &fstest.MapFile{Data: []byte("A")},
	}
	dec := &fakeDecoder{byContent: map[string]fakeMetadata{
		"A": {fields: []extract.Field{{Name: "make", Value: "x"}, {Name: "iso", Value: int64(100)}}},
		"B": {fields: []extract.Field{{Name: "iso", Value: int64(200)}, {Name: "flash", Value: int64(0)}}},
	}}

	table, err := extract.Files([]string{"a.jpg", "b.jpg", "c.jpg"}, extract.Options{FS: fsys, Decoder: dec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := table.Fields()
	seen := make(map[string]bool)
	for _, f := range fields {
		if seen[f] {
			t.Fatalf("duplicate field %q in %v", f, fields)
		}
		seen[f] = true
	}
	for _, r := range table.Records() {
		for _, f := range r.Fields() {
			if !seen[f] {
				t.Fatalf("record field %q missing from schema %v", f, fields)
			}
		}
	}

	want := []string{"filename", "make", "iso", "flash"}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("unexpected fields\n got: %#v\nwant: %#v", fields, want)
	}
}

func TestFiles_SkipsFilesWithoutMetadata(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.jpg": &fstest.MapFile{Data: []byte("E")},
		"a.jpg":     &fstest.MapFile{Data: []byte("A")},
	}
	dec := &fakeDecoder{byContent: map[string]fakeMetadata{
		"E": {},
		"A": {fields: []extract.Field{{Name: "make", Value: "x"}}},
	}}

	logs := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(logs, nil))

	table, err := extract.Files([]string{"empty.jpg", "a.jpg"}, extract.Options{FS: fsys, Decoder: dec, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 1 || table.Records()[0].Filename() != "a.jpg" {
		t.Fatalf("expected only a.jpg, got %d records", table.Len())
	}
	if !strings.Contains(logs.String(), "no EXIF metadata found") {
		t.Fatalf("expected skip notice, got %q", logs.String())
	}
}

func TestFiles_DecodeFailureAbortsBatch(t *testing.T) {
	fsys := fstest.MapFS{
		"a.jpg":   &fstest.MapFile{Data: []byte("A")},
		"bad.jpg": &fstest.MapFile{Data: []byte("garbage")},
		"c.jpg":   &fstest.MapFile{Data: []byte("A")},
	}
	dec := &fakeDecoder{byContent: map[string]fakeMetadata{
		"A": {fields: []extract.Field{{Name: "make", Value: "x"}}},
	}}

	table, err := extract.Files([]string{"a.jpg", "bad.jpg", "c.jpg"}, extract.Options{FS: fsys, Decoder: dec})
	if !errors.Is(err, extract.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if strings.Contains(err.Error(), "boom") {
		t.Fatalf("decoder cause must not leak into the error: %v", err)
	}
	if table != nil {
		t.Fatalf("expected no table on failure")
	}
	if dec.calls != 2 {
		t.Fatalf("expected processing to stop after the failing file, decoder called %d times", dec.calls)
	}
}

func TestFiles_MissingFileIsReadError(t *testing.T) {
	_, err := extract.Files([]string{"missing.jpg"}, extract.Options{FS: fstest.MapFS{}, Decoder: &fakeDecoder{}})

	var readErr *extract.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
	if readErr.Path != "missing.jpg" {
		t.Fatalf("unexpected path %q", readErr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if errors.Is(err, extract.ErrExtraction) {
		t.Fatalf("read errors must be distinguishable from extraction errors")
	}
}

func TestFiles_MalformedGPSSkipsDerivation(t *testing.T) {
	fsys := fstest.MapFS{
		"a.jpg": &fstest.MapFile{Data: []byte("A")},
	}
	dec := &fakeDecoder{byContent: map[string]fakeMetadata{
		"A": {fields: []extract.Field{
			{Name: "gps_latitude", Value: []float64{10, 30, 0}},
			{Name: "gps_longitude", Value: []float64{20, 0}},
			{Name: "gps_longitude_ref", Value: "E"},
		}},
	}}

	table, err := extract.Files([]string{"a.jpg"}, extract.Options{FS: fsys, Decoder: dec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := table.Records()[0]
	if r.Has("gps_lat_decimal") {
		t.Fatalf("latitude without reference must not be derived")
	}
	if r.Has("gps_lon_decimal") {
		t.Fatalf("malformed longitude must not be derived")
	}
}

func TestFiles_DecodesRealExif(t *testing.T) {
	img := exiftest.WithGPS(
		exiftest.Camera("Sony", "XZ2", "2021:06:07 08:09:10"),
		[3]uint32{51, 30, 0}, "N",
		[3]uint32{0, 7, 30}, "W",
	)
	fsys := fstest.MapFS{
		"gps.jpg":   &fstest.MapFile{Data: exiftest.JPEG(img)},
		"plain.jpg": &fstest.MapFile{Data: exiftest.PlainJPEG()},
		"cam.jpg":   &fstest.MapFile{Data: exiftest.JPEG(exiftest.Camera("Canon", "G5", ""))},
	}

	loc := time.FixedZone("TEST", 3600)
	table, err := extract.Files([]string{"gps.jpg", "plain.jpg", "cam.jpg"}, extract.Options{
		FS:        fsys,
		CreatedAt: true,
		Location:  loc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", table.Len())
	}

	gps := table.Records()[0]
	lat, _ := gps.Get("gps_lat_decimal")
	if got, ok := lat.(float64); !ok || math.Abs(got-51.5) > 1e-9 {
		t.Fatalf("gps_lat_decimal = %#v", lat)
	}
	lon, _ := gps.Get("gps_lon_decimal")
	if got, ok := lon.(float64); !ok || math.Abs(got+0.125) > 1e-9 {
		t.Fatalf("gps_lon_decimal = %#v", lon)
	}
	if got, _ := gps.Get("created_at"); got != "2021-06-07T08:09:10+01:00" {
		t.Fatalf("created_at = %#v", got)
	}
	if got, _ := gps.Get("created_at_source"); got != "metadata" {
		t.Fatalf("created_at_source = %#v", got)
	}

	fields := table.Fields()
	if fields[0] != "filename" || fields[1] != "gps_lat_decimal" || fields[2] != "gps_lon_decimal" {
		t.Fatalf("unexpected leading fields %v", fields)
	}
}

func TestFiles_UnsupportedBytesFailWithExifDecoder(t *testing.T) {
	fsys := fstest.MapFS{
		"notes.txt": &fstest.MapFile{Data: []byte("hello")},
	}
	_, err := extract.Files([]string{"notes.txt"}, extract.Options{FS: fsys})
	if !errors.Is(err, extract.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
