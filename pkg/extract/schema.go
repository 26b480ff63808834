package extract

// Union returns current followed by the names in keys that current does
// not contain, in the order they first appear in keys. current is not
// modified.
func Union(current, keys []string) []string {
	seen := make(map[string]bool, len(current)+len(keys))
	out := make([]string, 0, len(current)+len(keys))
	for _, name := range current {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range keys {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Schema is an ordered set of field names that only grows at the end.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema returns a schema holding seed, without duplicates.
func NewSchema(seed ...string) *Schema {
	s := &Schema{index: make(map[string]int)}
	s.Merge(seed)
	return s
}

// Merge appends the names s does not already contain, keeping their order.
func (s *Schema) Merge(names []string) {
	for _, name := range names {
		if _, ok := s.index[name]; ok {
			continue
		}
		s.index[name] = len(s.names)
		s.names = append(s.names, name)
	}
}

// Contains reports whether name is part of the schema.
func (s *Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the field names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of field names.
func (s *Schema) Len() int {
	return len(s.names)
}
