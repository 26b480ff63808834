package extract

// seedFields are the leading schema fields of every table.
var seedFields = []string{FieldFilename, FieldGPSLatDecimal, FieldGPSLonDecimal}

// derivedGPSFields are dropped from Fields when no record carries them.
var derivedGPSFields = map[string]bool{
	FieldGPSLatDecimal: true,
	FieldGPSLonDecimal: true,
}

// Table is the ordered list of records of one extraction run together with
// the union of their field names.
type Table struct {
	schema  *Schema
	records []*Record
	present map[string]bool
}

// NewTable returns a table holding records in the given order.
func NewTable(records ...*Record) *Table {
	t := &Table{
		schema:  NewSchema(seedFields...),
		present: make(map[string]bool),
	}
	for _, r := range records {
		t.add(r)
	}
	return t
}

func (t *Table) add(r *Record) {
	t.records = append(t.records, r)
	names := r.Fields()
	t.schema.Merge(names)
	for _, name := range names {
		if derivedGPSFields[name] {
			t.present[name] = true
		}
	}
}

// Fields returns the table's field names in schema order.
//
// filename always comes first, followed by gps_lat_decimal and
// gps_lon_decimal when at least one record has them, then every other
// field in the order it was first seen.
func (t *Table) Fields() []string {
	names := t.schema.Names()
	out := names[:0]
	for _, name := range names {
		if derivedGPSFields[name] && !t.present[name] {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Records returns the records in processing order.
func (t *Table) Records() []*Record {
	out := make([]*Record, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}
