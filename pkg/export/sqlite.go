package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/quidome/exif-extract-go/pkg/extract"
)

// DefaultTable is the table name used by WriteSQLite when none is given.
const DefaultTable = "exif"

// WriteSQLite stores the table in the SQLite database at path.
//
// The target table is dropped and recreated with one TEXT column per field
// in schema order. Values are stored as formatted by FormatValue; fields a
// record lacks are NULL. All rows are written in a single transaction.
func WriteSQLite(ctx context.Context, path, tableName string, table *extract.Table) error {
	if tableName == "" {
		tableName = DefaultTable
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	fields := table.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdent(f)
	}
	ident := quoteIdent(tableName)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c + " TEXT"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident, strings.Join(cols, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(fields))
	for _, r := range table.Records() {
		for i, name := range fields {
			v, ok := r.Get(name)
			if !ok {
				args[i] = nil
				continue
			}
			args[i] = FormatValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", r.Filename(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
