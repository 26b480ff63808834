package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/quidome/exif-extract-go/pkg/alias"
	"github.com/quidome/exif-extract-go/pkg/extract"
)

var rule = strings.Repeat("-", 78)

// WritePretty writes one "<alias>: <value>" line per field of r, in the
// order of fields. The filename field and fields with an empty value are
// left out.
func WritePretty(w io.Writer, fields []string, aliases alias.Map, r *extract.Record) error {
	bw := bufio.NewWriter(w)
	for _, name := range fields {
		if name == extract.FieldFilename {
			continue
		}
		v, ok := r.Get(name)
		if !ok {
			continue
		}
		s := FormatValue(v)
		if s == "" {
			continue
		}
		fmt.Fprintf(bw, "%s: %s\n", aliases.Get(name), s)
	}
	return bw.Flush()
}

// WriteReport pretty prints every record of the table, each preceded by a
// banner naming the file.
func WriteReport(w io.Writer, table *extract.Table) error {
	fields := table.Fields()
	aliases := alias.Build(fields)

	for _, r := range table.Records() {
		if _, err := fmt.Fprintf(w, "\n%s\nFILE: %s\n%s\n", rule, r.Filename(), rule); err != nil {
			return err
		}
		if err := WritePretty(w, fields, aliases, r); err != nil {
			return err
		}
	}
	return nil
}
