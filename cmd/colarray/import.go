package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/arrowconv"
	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/colfile"
	"github.com/hupe1980/colarray/internal/text"
	"github.com/hupe1980/colarray/sqlsource"
)

// importFlags are shared by the import subcommands.
type importFlags struct {
	name    string
	replace bool
	sortBy  []string
	attrs   []string
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "table name (default: derived from the source)")
	cmd.Flags().BoolVar(&f.replace, "replace", false, "replace an existing table")
	cmd.Flags().StringSliceVar(&f.sortBy, "sort-by", nil, "sort rows by these columns before saving")
	cmd.Flags().StringArrayVar(&f.attrs, "attr", nil, "global attribute name=value (repeatable)")
}

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a table from CSV, Arrow IPC or SQL",
	}
	cmd.AddCommand(newImportCSVCmd(a), newImportArrowCmd(a), newImportSQLCmd(a))
	return cmd
}

func newImportCSVCmd(a *app) *cobra.Command {
	var flags importFlags
	cmd := &cobra.Command{
		Use:   "csv <file|->",
		Short: "Import a CSV file whose first line holds the column names",
		Long: `Each column is stored as the narrowest kind that holds all of its values;
empty fields are missing values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()
			f, err := readCSV(r)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return a.save(cmd.Context(), flags, defaultName(args[0]), f)
		},
	}
	flags.register(cmd)
	return cmd
}

func newImportArrowCmd(a *app) *cobra.Command {
	var flags importFlags
	cmd := &cobra.Command{
		Use:   "arrow <file>",
		Short: "Import an Arrow IPC file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			f, err := readArrow(file)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return a.save(cmd.Context(), flags, defaultName(args[0]), f)
		},
	}
	flags.register(cmd)
	return cmd
}

func newImportSQLCmd(a *app) *cobra.Command {
	var (
		flags   importFlags
		driver  string
		dsn     string
		query   string
		maxRows int
	)
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Import the result of a SQL query",
		Long: `Column kinds follow the database column types. Drivers: pgx (PostgreSQL)
and mysql.

Example:
  colarray import sql --driver pgx --dsn postgres://localhost/obs \
    --query "SELECT time, depth, temp FROM ctd WHERE cast_id = 7" --name cast-7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.name == "" {
				return fmt.Errorf("--name is required")
			}
			db, err := sql.Open(driver, dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			f, err := sqlsource.Query(cmd.Context(), db, query, nil, sqlsource.WithMaxRows(maxRows))
			if err != nil {
				return err
			}
			return a.save(cmd.Context(), flags, "", f)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&driver, "driver", "pgx", "database/sql driver (pgx, mysql)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "data source name")
	cmd.Flags().StringVar(&query, "query", "", "SELECT statement")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "stop after this many rows (0: all)")
	_ = cmd.MarkFlagRequired("dsn")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

// save applies the import flags to f and stores it.
func (a *app) save(ctx context.Context, flags importFlags, fallbackName string, f *colfile.File) error {
	name := flags.name
	if name == "" {
		name = fallbackName
	}
	if f.Attributes == nil {
		f.Attributes = attributes.New()
	}
	for _, kv := range flags.attrs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return fmt.Errorf("--attr %q: want name=value", kv)
		}
		f.Attributes.SetString(strings.TrimSpace(k), v)
	}
	if len(flags.sortBy) > 0 {
		keys := make([]int, len(flags.sortBy))
		ascending := make([]bool, len(flags.sortBy))
		for i, col := range flags.sortBy {
			keys[i] = f.ColumnIndex(col)
			if keys[i] < 0 {
				return fmt.Errorf("--sort-by: no column %q", col)
			}
			ascending[i] = true
		}
		if err := f.Table().Sort(keys, ascending); err != nil {
			return err
		}
	}

	cat, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	if flags.replace {
		return cat.Save(ctx, name, f)
	}
	return cat.Create(ctx, name, f)
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

func defaultName(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readCSV reads a header line and rows of comma separated values. Columns
// are read as text and then simplified to the narrowest kind.
func readCSV(r io.Reader) (*colfile.File, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)

	var (
		header []string
		cols   []*array.StringArray
		line   int
	)
	for sc.Scan() {
		line++
		s := sc.Text()
		if strings.TrimSpace(s) == "" {
			continue
		}
		fields := text.SplitCSV(s)
		if header == nil {
			header = fields
			cols = make([]*array.StringArray, len(header))
			for i := range cols {
				cols[i] = array.NewString(1024, false)
			}
			continue
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("line %d: %d fields, want %d", line, len(fields), len(header))
		}
		for i, v := range fields {
			cols[i].Add(v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("no header line")
	}

	f := &colfile.File{Attributes: attributes.New(), Columns: make([]colfile.Column, len(header))}
	for i, name := range header {
		f.Columns[i] = colfile.Column{Name: name, Data: cols[i].Simplify()}
	}
	return f, nil
}

func readArrow(r ipc.ReadAtSeeker) (*colfile.File, error) {
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	recs := make([]arrow.RecordBatch, 0, fr.NumRecords())
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for i := range fr.NumRecords() {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, err
		}
		rec.Retain()
		recs = append(recs, rec)
	}
	return arrowconv.FromRecordBatches(recs...)
}
