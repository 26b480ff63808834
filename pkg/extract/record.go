package extract

// Well-known field names.
const (
	FieldFilename        = "filename"
	FieldGPSLatDecimal   = "gps_lat_decimal"
	FieldGPSLonDecimal   = "gps_lon_decimal"
	FieldGPSLatitude     = "gps_latitude"
	FieldGPSLatitudeRef  = "gps_latitude_ref"
	FieldGPSLongitude    = "gps_longitude"
	FieldGPSLongitudeRef = "gps_longitude_ref"
	FieldCreatedAt       = "created_at"
	FieldCreatedAtSource = "created_at_source"
)

// Field is a single named value.
type Field struct {
	Name  string
	Value any
}

// Record holds the metadata fields of one file in insertion order.
//
// A Record is not modified once it has been added to a Table.
type Record struct {
	names  []string
	values map[string]any
}

// NewRecord returns a record with the filename field followed by fields.
// A repeated name replaces the earlier value and keeps its position.
func NewRecord(filename string, fields ...Field) *Record {
	r := &Record{values: make(map[string]any, len(fields)+1)}
	r.set(FieldFilename, filename)
	for _, f := range fields {
		r.set(f.Name, f.Value)
	}
	return r
}

func (r *Record) set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the value of a field.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the record carries the field.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Filename returns the value of the filename field.
func (r *Record) Filename() string {
	s, _ := r.values[FieldFilename].(string)
	return s
}

// Fields returns the field names in insertion order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.names)
}
