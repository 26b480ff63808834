package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "output:\n  aliases: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Output.Aliases {
		t.Fatalf("aliases=false want true")
	}
	if cfg.Output.Format != FormatCSV {
		t.Fatalf("format=%q want csv", cfg.Output.Format)
	}
	if cfg.Output.SQLiteTable != "exif" {
		t.Fatalf("sqlite_table=%q want exif", cfg.Output.SQLiteTable)
	}
	if cfg.Input.MaxDepth != -1 {
		t.Fatalf("max_depth=%d want -1", cfg.Input.MaxDepth)
	}
	if len(cfg.Input.Extensions) == 0 {
		t.Fatalf("expected default extensions")
	}
}

func TestLoad_AllFields(t *testing.T) {
	path := writeTempConfig(t, `
output:
  path: out/exif.csv.gz
  format: JSON
  pretty: true
  silent: true
  sqlite: exif.db
  sqlite_table: photos
  no_clobber: true
input:
  max_depth: 2
  extensions: [".jpg", "tif"]
extract:
  created_at: true
  maker_notes: true
  timezone: UTC
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Config{
		Output: OutputConfig{
			Path:        "out/exif.csv.gz",
			Format:      FormatJSON,
			Pretty:      true,
			Silent:      true,
			SQLite:      "exif.db",
			SQLiteTable: "photos",
			NoClobber:   true,
		},
		Input: InputConfig{
			MaxDepth:   2,
			Extensions: []string{".jpg", "tif"},
		},
		Extract: ExtractConfig{
			CreatedAt:  true,
			MakerNotes: true,
			Timezone:   "UTC",
		},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("cfg=%+v\nwant %+v", cfg, want)
	}

	loc, err := cfg.Extract.ParseLocation()
	if err != nil {
		t.Fatalf("ParseLocation() error: %v", err)
	}
	if loc != time.UTC {
		t.Fatalf("loc=%v want UTC", loc)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "UnknownFormat",
			contents: "output:\n  format: xml\n",
			want:     "output.format must be csv or json",
		},
		{
			name:     "MaxDepthTooSmall",
			contents: "input:\n  max_depth: -2\n",
			want:     "input.max_depth must be >= -1",
		},
		{
			name:     "SQLiteWithoutTable",
			contents: "output:\n  sqlite: exif.db\n  sqlite_table: ''\n",
			want:     "output.sqlite_table is required when output.sqlite is set",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.contents))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	_, err := Load(writeTempConfig(t, "extract:\n  timezone: Nowhere/Atlantis\n"))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "extract.timezone: ") {
		t.Fatalf("error=%q", err.Error())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	if _, err := Load(writeTempConfig(t, "output: [\n")); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestParseLocation_DefaultsToLocal(t *testing.T) {
	loc, err := ExtractConfig{}.ParseLocation()
	if err != nil {
		t.Fatalf("ParseLocation() error: %v", err)
	}
	if loc != time.Local {
		t.Fatalf("loc=%v want Local", loc)
	}
}
