package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	"github.com/hupe1980/colarray/arrowconv"
	"github.com/hupe1980/colarray/colfile"
	"github.com/hupe1980/colarray/internal/text"
	"github.com/hupe1980/colarray/sqlsource"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a table to CSV, Arrow IPC or SQL",
	}
	cmd.AddCommand(newExportCSVCmd(a), newExportArrowCmd(a), newExportSQLCmd(a))
	return cmd
}

func newExportCSVCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "csv <table>",
		Short: "Write a table as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			return writeCSV(cmd.OutOrStdout(), f)
		},
	}
}

func newExportArrowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "arrow <table> <file>",
		Short: "Write a table as an Arrow IPC file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := writeArrow(out, f); err != nil {
				_ = out.Close()
				return err
			}
			return out.Close()
		},
	}
}

func newExportSQLCmd(a *app) *cobra.Command {
	var (
		driver      string
		dsn         string
		tableName   string
		placeholder string
		batchSize   int
	)
	cmd := &cobra.Command{
		Use:   "sql <table>",
		Short: "Create a database table and insert the rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if placeholder == "" {
				placeholder = "question"
				if driver == "pgx" {
					placeholder = "dollar"
				}
			}
			p, err := sqlsource.ParsePlaceholder(placeholder)
			if err != nil {
				return err
			}
			if tableName == "" {
				tableName = args[0]
			}
			f, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			db, err := sql.Open(driver, dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			return sqlsource.Write(cmd.Context(), db, tableName, f,
				sqlsource.WithPlaceholder(p), sqlsource.WithBatchSize(batchSize))
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "pgx", "database/sql driver (pgx, mysql)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "data source name")
	cmd.Flags().StringVar(&tableName, "table", "", "database table name (default: the catalog table name)")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "bind parameter style, question or dollar (default: by driver)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "rows per INSERT statement")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}

func (a *app) load(cmd *cobra.Command, name string) (*colfile.File, error) {
	cat, err := a.catalog(cmd.Context())
	if err != nil {
		return nil, err
	}
	return cat.Load(cmd.Context(), name)
}

// writeCSV writes a header line with the column names followed by one line
// per row. Missing values are written as empty fields.
func writeCSV(w io.Writer, f *colfile.File) error {
	bw := bufio.NewWriter(w)
	fields := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		fields[i] = text.QuoteCSV(c.Name)
	}
	if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
		return err
	}
	t := f.Table()
	for row := range t.NRows() {
		for i, c := range f.Columns {
			if c.Data.IsMissing(row) {
				fields[i] = ""
				continue
			}
			fields[i] = text.QuoteCSV(c.Data.GetString(row))
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeArrow(w io.Writer, f *colfile.File) error {
	rec, err := arrowconv.ToRecordBatch(f, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("arrow: %w", err)
	}
	return fw.Close()
}
