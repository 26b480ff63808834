package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quidome/exif-extract-go/pkg/config"
	"github.com/quidome/exif-extract-go/pkg/decoder"
	"github.com/quidome/exif-extract-go/pkg/export"
	"github.com/quidome/exif-extract-go/pkg/extract"
	"github.com/quidome/exif-extract-go/pkg/scan"
	"github.com/quidome/exif-extract-go/pkg/sink"
)

const version = "0.1.0"

var errNoInput = errors.New("no input files found")

type options struct {
	configPath  string
	pretty      bool
	aliases     bool
	silent      bool
	output      string
	format      string
	sqlite      string
	sqliteTable string
	noClobber   bool
	createdAt   bool
	makerNotes  bool
	maxDepth    int
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "exif-extract [flags] infile...",
		Short: "Extract EXIF metadata from images into a single table",
		Long: "exif-extract reads the EXIF metadata of a set of JPEG or TIFF images and " +
			"consolidates it into one table with a column for every field found in any " +
			"image. The table can be pretty printed, written as CSV or JSON, or exported " +
			"to SQLite. GPS coordinates are also given in decimal degrees.",
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&opts.pretty, "prettyprint", "p", false, "write metadata to stdout in a pretty format")
	flags.BoolVarP(&opts.aliases, "aliases", "a", false, `use "pretty print" aliases for CSV headings`)
	flags.BoolVarP(&opts.silent, "silent", "s", false, "do not write progress to stderr")
	flags.StringVarP(&opts.output, "output", "o", "", `file to write the table to ("-" for stdout, .gz/.zst to compress)`)
	flags.StringVarP(&opts.format, "format", "f", defaults.Output.Format, "output format: csv or json")
	flags.StringVar(&opts.sqlite, "sqlite", "", "also export the table to this SQLite database")
	flags.StringVar(&opts.sqliteTable, "sqlite-table", defaults.Output.SQLiteTable, "SQLite table name")
	flags.BoolVar(&opts.noClobber, "no-clobber", false, "do not overwrite an existing output file")
	flags.BoolVar(&opts.createdAt, "created-at", false, "add created_at and created_at_source fields")
	flags.BoolVar(&opts.makerNotes, "maker-notes", false, "decode Canon and Nikon maker notes")
	flags.IntVar(&opts.maxDepth, "max-depth", defaults.Input.MaxDepth, "maximum recursion depth for directory inputs (-1 = unlimited)")

	return rootCmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Output.Silent)

	paths, err := scan.Expand(args, scan.Options{
		MaxDepth:   cfg.Input.MaxDepth,
		Extensions: cfg.Input.Extensions,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errNoInput
	}

	loc, err := cfg.Extract.ParseLocation()
	if err != nil {
		return err
	}

	table, err := extract.Files(paths, extract.Options{
		Decoder:   decoder.Exif{MakerNotes: cfg.Extract.MakerNotes},
		Logger:    logger,
		CreatedAt: cfg.Extract.CreatedAt,
		Location:  loc,
	})
	if err != nil {
		return err
	}
	logger.Debug("extraction finished", "files", len(paths), "records", table.Len(), "fields", len(table.Fields()))

	if cfg.Output.Pretty || (cfg.Output.Path == "" && cfg.Output.SQLite == "") {
		if err := export.WriteReport(cmd.OutOrStdout(), table); err != nil {
			return err
		}
	}

	if cfg.Output.Path != "" {
		if !cfg.Output.Silent {
			cmd.PrintErrf("Writing extracted EXIF metadata to %s file: %s\n",
				strings.ToUpper(cfg.Output.Format), cfg.Output.Path)
		}
		if err := writeOutput(cmd.OutOrStdout(), cfg.Output, table); err != nil {
			return err
		}
	}

	if cfg.Output.SQLite != "" {
		if !cfg.Output.Silent {
			cmd.PrintErrf("Writing extracted EXIF metadata to SQLite table %s: %s\n",
				cfg.Output.SQLiteTable, cfg.Output.SQLite)
		}
		if err := export.WriteSQLite(cmd.Context(), cfg.Output.SQLite, cfg.Output.SQLiteTable, table); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig reads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("prettyprint") {
		cfg.Output.Pretty = opts.pretty
	}
	if flags.Changed("aliases") {
		cfg.Output.Aliases = opts.aliases
	}
	if flags.Changed("silent") {
		cfg.Output.Silent = opts.silent
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLite = opts.sqlite
	}
	if flags.Changed("sqlite-table") {
		cfg.Output.SQLiteTable = opts.sqliteTable
	}
	if flags.Changed("no-clobber") {
		cfg.Output.NoClobber = opts.noClobber
	}
	if flags.Changed("created-at") {
		cfg.Extract.CreatedAt = opts.createdAt
	}
	if flags.Changed("maker-notes") {
		cfg.Extract.MakerNotes = opts.makerNotes
	}
	if flags.Changed("max-depth") {
		cfg.Input.MaxDepth = opts.maxDepth
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// writeOutput writes the table to the configured output file, or to stdout
// when the path is "-".
func writeOutput(stdout io.Writer, out config.OutputConfig, table *extract.Table) error {
	write := func(w io.Writer) error {
		if out.Format == config.FormatJSON {
			return export.WriteJSON(w, table)
		}
		return export.WriteCSV(w, table, out.Aliases)
	}

	if out.Path == "-" {
		return write(stdout)
	}

	f, err := sink.Create(out.Path, sink.Options{
		NoClobber:   out.NoClobber,
		Compression: sink.CompressionFor(out.Path),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", out.Path, err)
	}
	if err := write(f); err != nil {
		_ = f.Abort()
		return err
	}
	return f.Close()
}

// newLogger logs progress as text without timestamps. Every line carries the
// id of this run. Silent mode keeps warnings and errors only.
func newLogger(w io.Writer, silent bool) *slog.Logger {
	level := slog.LevelInfo
	if silent {
		level = slog.LevelWarn
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(h).With("run", uuid.NewString())
}
