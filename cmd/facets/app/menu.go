package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/asaidimu/go-facets/core/filter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type menuOptions struct {
	filters filterFlags
	column  string
	search  string
	format  string
	metrics bool
}

func newMenuCmd() *cobra.Command {
	opts := &menuOptions{}
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the facet menu of a column",
		Long: `Load the configured table, apply the given filter actions and print the
distinct values of one column. Checked values are included by the column
filter; values marked unreachable appear in no row passing the other columns.`,
		Example: `  facets menu --config flights.yaml --column dest --toggle orig=DAL`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, opts)
		},
	}
	opts.filters.register(cmd)
	cmd.Flags().StringVar(&opts.column, "column", "", "Column whose menu is printed")
	cmd.Flags().StringVar(&opts.search, "search", "", "Pending search text narrowing the listed values")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text or json)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print filter counters to stderr")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		panic(fmt.Sprintf("failed to mark column flag as required: %v", err))
	}
	return cmd
}

func runMenu(cmd *cobra.Command, opts *menuOptions) error {
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
	if opts.search != "" {
		cmds = append(cmds, filter.Command{Type: filter.CommandSetSearchText, Column: opts.column, Text: opts.search})
	}
	if err := ds.filter.ApplyAll(cmds...); err != nil {
		return err
	}
	if _, ok := ds.filter.Lookup(opts.column); !ok {
		return fmt.Errorf("%w: %q", filter.ErrUnknownColumn, opts.column)
	}

	entries := ds.filter.Menu(opts.column)
	logger.Debug("Built menu", zap.String("column", opts.column), zap.Int("entries", len(entries)))

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		err = writeMenuJSON(out, entries)
	case "text", "":
		writeMenuText(out, entries)
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

func writeMenuText(w io.Writer, entries []filter.MenuEntry) {
	for _, e := range entries {
		mark := "[ ]"
		if e.Checked {
			mark = "[x]"
		}
		line := mark + " " + e.Display
		if !e.Reachable {
			line += "  (unreachable)"
		}
		fmt.Fprintln(w, line)
	}
}

type menuItem struct {
	Display   string `json:"display"`
	Checked   bool   `json:"checked"`
	Reachable bool   `json:"reachable"`
}

func writeMenuJSON(w io.Writer, entries []filter.MenuEntry) error {
	items := make([]menuItem, len(entries))
	for i, e := range entries {
		items[i] = menuItem{Display: e.Display, Checked: e.Checked, Reachable: e.Reachable}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
