package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hupe1980/colarray/internal/num"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tables of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Rows", "Columns", "Size", "Compression", "Created"})
			for _, info := range cat.List() {
				table.Append([]string{
					info.Name,
					humanize.Comma(int64(info.Rows)),
					strconv.Itoa(len(info.Columns)),
					humanize.Bytes(uint64(info.Size)),
					info.Compression,
					humanize.Time(info.CreatedAt),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <table>",
		Short: "Show the columns, statistics and attributes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			f, err := cat.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s rows\n", args[0], humanize.Comma(int64(f.Table().NRows())))
			if f.Attributes != nil && f.Attributes.Len() > 0 {
				fmt.Fprint(out, f.Attributes.NCString("  :", ""))
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Column", "Kind", "N", "Min", "Max", "Mean", "Attributes"})
			for _, c := range f.Columns {
				stats := c.Data.CalculateStats()
				var attrs []string
				if c.Attributes != nil {
					for _, name := range c.Attributes.Names() {
						attrs = append(attrs, name+"="+c.Attributes.Get(name).String())
					}
				}
				table.Append([]string{
					c.Name,
					c.Data.Kind().String(),
					strconv.Itoa(stats.N),
					num.FormatDouble(stats.Min),
					num.FormatDouble(stats.Max),
					num.FormatDouble(stats.Mean()),
					strings.Join(attrs, "; "),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newHeadCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head <table>",
		Short: "Print the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			f, err := cat.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			header := make([]string, len(f.Columns))
			for i, c := range f.Columns {
				header[i] = c.Name
			}
			t := f.Table()
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader(header)
			table.SetAutoFormatHeaders(false)
			for row := range min(n, t.NRows()) {
				table.Append(t.Row(row))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 10, "number of rows")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <table> <column> <value>",
		Short: "Binary search an ascending numeric column without loading the table",
		Long: `search prints the row holding value. If there is none it prints
-(insertion point) - 1, where the insertion point is the row value would be
inserted at.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseValue(args[2])
			if err != nil {
				return err
			}
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			row, err := cat.Search(cmd.Context(), args[0], args[1], v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), row)
			return nil
		},
	}
}

func newRangeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "range <table> <column> <low> <high>",
		Short: "Print the first and last rows of an ascending column within [low, high]",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := parseValue(args[2])
			if err != nil {
				return err
			}
			hi, err := parseValue(args[3])
			if err != nil {
				return err
			}
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			first, last, err := cat.Range(cmd.Context(), args[0], args[1], lo, hi)
			if err != nil {
				return err
			}
			if first > last {
				fmt.Fprintln(cmd.OutOrStdout(), "no rows")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", first, last)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table>...",
		Short: "Delete tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := cat.Delete(cmd.Context(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newVacuumCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vacuum",
		Short: "Delete unreferenced column files and manifests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			n, err := cat.Vacuum(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d blobs\n", n)
			return nil
		},
	}
}

func parseValue(s string) (float64, error) {
	v := num.ParseDouble(s)
	if v != v {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
