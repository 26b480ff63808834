package createdat

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// Source describes where a CreatedAt timestamp was derived from.
//
// The priority order is:
//  1. metadata
//  2. filename
//  3. mtime
//  4. unknown
type Source string

const (
	SourceMetadata Source = "metadata"
	SourceFilename Source = "filename"
	SourceMtime    Source = "mtime"
	SourceUnknown  Source = "unknown"
)

// MetadataFields lists the decoded fields consulted for an embedded
// timestamp, in order of preference.
var MetadataFields = []string{"date_time_original", "date_time_digitized", "date_time"}

// exifLayout is the EXIF DateTime format. It carries no timezone.
const exifLayout = "2006:01:02 15:04:05"

// Result contains a best-effort creation timestamp and its source.
type Result struct {
	CreatedAt time.Time
	Source    Source
}

// Fields looks up decoded metadata values by field name.
type Fields interface {
	Get(name string) (any, bool)
}

// Options configures Determine.
type Options struct {
	// Location is used for timestamps that carry no timezone.
	// If nil, time.Local is used.
	Location *time.Location
}

// Determine returns the best-effort creation timestamp for the file at path.
//
// fields may be nil when no metadata was decoded.
func Determine(path string, fields Fields, modTime time.Time, opts Options) Result {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	if fields != nil {
		if t, ok := fromMetadata(fields, loc); ok {
			return Result{CreatedAt: t, Source: SourceMetadata}
		}
	}
	if t, ok := parseFromFilename(filepath.Base(path), loc); ok {
		return Result{CreatedAt: t, Source: SourceFilename}
	}
	if !modTime.IsZero() {
		return Result{CreatedAt: modTime, Source: SourceMtime}
	}
	return Result{Source: SourceUnknown}
}

func fromMetadata(fields Fields, loc *time.Location) (time.Time, bool) {
	for _, name := range MetadataFields {
		v, ok := fields.Get(name)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		t, err := time.ParseInLocation(exifLayout, s, loc)
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// filenamePattern matches a naming scheme and names the submatch index of
// each date component; 0 means the component is absent and defaults to 0.
type filenamePattern struct {
	re                                     *regexp.Regexp
	year, month, day, hour, minute, second int
}

var filenamePatterns = []filenamePattern{
	// IMG_20240102_030405, VID_20240102_030405
	{re: regexp.MustCompile(`(?i)^(?:IMG|VID)_(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})`), year: 1, month: 2, day: 3, hour: 4, minute: 5, second: 6},
	// PXL_20240102_030405123
	{re: regexp.MustCompile(`(?i)^PXL_(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})\d{3,}`), year: 1, month: 2, day: 3, hour: 4, minute: 5, second: 6},
	// 2024-01-02 03.04.05
	{re: regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ _](\d{2})\.(\d{2})\.(\d{2})`), year: 1, month: 2, day: 3, hour: 4, minute: 5, second: 6},
	// IMG-20240102-WA0001
	{re: regexp.MustCompile(`(?i)^IMG-(\d{4})(\d{2})(\d{2})-WA\d+`), year: 1, month: 2, day: 3},
	// Screenshot_2024-01-02-03-04-05
	{re: regexp.MustCompile(`(?i)^Screenshot_(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})`), year: 1, month: 2, day: 3, hour: 4, minute: 5, second: 6},
}

func parseFromFilename(filename string, loc *time.Location) (time.Time, bool) {
	for _, p := range filenamePatterns {
		m := p.re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}

		var parts [6]int
		for i, idx := range []int{p.year, p.month, p.day, p.hour, p.minute, p.second} {
			if idx == 0 {
				continue
			}
			n, err := strconv.Atoi(m[idx])
			if err != nil {
				return time.Time{}, false
			}
			parts[i] = n
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, loc), true
	}
	return time.Time{}, false
}
