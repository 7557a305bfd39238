package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/asaidimu/go-facets/core/filter"
	"github.com/asaidimu/go-facets/core/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rowsOptions struct {
	filters filterFlags
	format  string
	limit   int
	metrics bool
}

func newRowsCmd() *cobra.Command {
	opts := &rowsOptions{}
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Print the rows passing every column filter",
		Long: `Load the configured table, apply the given filter actions and print the
visible rows in dataset order.`,
		Example: `  facets rows --config flights.yaml --apply orig=AB,SE --toggle dest=PHX`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRows(cmd, opts)
		},
	}
	opts.filters.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format (table or json)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Print at most this many rows (0 prints all)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print filter counters to stderr")
	return cmd
}

func runRows(cmd *cobra.Command, opts *rowsOptions) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ds, err := loadDataset(cmd.Context(), logger)
	if err != nil {
		return err
	}
	cmds, err := opts.filters.commands(ds.filter)
	if err != nil {
		return err
	}
	if err := ds.filter.ApplyAll(cmds...); err != nil {
		return err
	}

	visible := ds.filter.VisibleRows()
	logger.Info("Filtered rows",
		zap.Int("visible", len(visible)),
		zap.Int("total", len(ds.filter.Rows())),
		zap.Strings("active", ds.filter.ActiveColumns()))

	shown := visible
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		err = writeRowsJSON(out, ds.filter, shown)
	case "table", "":
		err = writeRowsTable(out, ds.filter, shown)
		if err == nil {
			fmt.Fprintf(out, "%d of %d rows\n", len(visible), len(ds.filter.Rows()))
		}
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if err != nil {
		return err
	}
	if opts.metrics {
		return ds.writeMetrics(cmd.ErrOrStderr())
	}
	return nil
}

func writeRowsTable(w io.Writer, tf *filter.TableFilter[schema.Document], rows []schema.Document) error {
	columns := tf.Columns()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = strings.ToUpper(col.ID())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = col.DisplayOf(row)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// writeRowsJSON prints each row as an object of column id to display string.
func writeRowsJSON(w io.Writer, tf *filter.TableFilter[schema.Document], rows []schema.Document) error {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(tf.Columns()))
		for _, col := range tf.Columns() {
			obj[col.ID()] = col.DisplayOf(row)
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
