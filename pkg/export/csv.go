package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/quidome/exif-extract-go/pkg/alias"
	"github.com/quidome/exif-extract-go/pkg/extract"
)

// WriteCSV writes the table as CSV: one header line of field names (or
// their aliases) followed by one line per record, in schema order.
//
// Fields a record lacks are empty. Every double quote in a value is
// doubled, and a value is wrapped in double quotes only when it contains a
// comma. A value with quotes but no comma is therefore written unquoted,
// which strict CSV readers will not accept. Existing consumers of the
// exif_extract format depend on it. Header cells are not escaped.
func WriteCSV(w io.Writer, table *extract.Table, useAliases bool) error {
	fields := table.Fields()
	header := fields
	if useAliases {
		header = alias.Build(fields).Labels(fields)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(header, ","))
	bw.WriteByte('\n')

	for _, r := range table.Records() {
		for i, name := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			v, _ := r.Get(name)
			bw.WriteString(EscapeCSV(FormatValue(v)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// EscapeCSV doubles every double quote in s and wraps the result in double
// quotes when s contains a comma.
func EscapeCSV(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	if strings.Contains(s, ",") {
		s = `"` + s + `"`
	}
	return s
}
