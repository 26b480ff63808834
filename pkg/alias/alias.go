// Package alias derives human readable labels for metadata field names.
//
// Labels are used for CSV headers and the pretty printed report only; they
// never identify fields.
package alias

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Overrides replace the generated label of the derived decimal GPS fields.
// The double space in the latitude label lines it up with the longitude
// label.
var Overrides = map[string]string{
	"gps_lat_decimal": "GPS Latitude  (decimal degrees)",
	"gps_lon_decimal": "GPS Longitude (decimal degrees)",
}

// acronyms are applied in order after title casing.
var acronyms = [][2]string{
	{"Gps", "GPS"},
	{"Jpeg", "JPEG"},
	{"Exif", "EXIF"},
	{"Id", "ID"},
}

// Map maps field names to labels.
type Map map[string]string

// Build returns the labels for fields.
func Build(fields []string) Map {
	caser := cases.Title(language.Und)
	m := make(Map, len(fields))
	for _, f := range fields {
		m[f] = label(caser, f)
	}
	for f, l := range Overrides {
		if _, ok := m[f]; ok {
			m[f] = l
		}
	}
	return m
}

// Label returns the generated label for a single field name. It does not
// apply Overrides.
func Label(field string) string {
	return label(cases.Title(language.Und), field)
}

func label(caser cases.Caser, field string) string {
	s := caser.String(strings.ReplaceAll(field, "_", " "))
	for _, a := range acronyms {
		s = strings.ReplaceAll(s, a[0], a[1])
	}
	return s
}

// Get returns the label of field, falling back to the generated label for
// names that were not part of the map.
func (m Map) Get(field string) string {
	if l, ok := m[field]; ok {
		return l
	}
	if l, ok := Overrides[field]; ok {
		return l
	}
	return Label(field)
}

// Labels returns the labels of fields in the same order.
func (m Map) Labels(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = m.Get(f)
	}
	return out
}
