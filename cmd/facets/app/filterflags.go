package app

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-facets/core/filter"
	"github.com/asaidimu/go-facets/core/schema"
	"github.com/spf13/cobra"
)

// filterFlags holds the repeatable flags that drive the filter state before a
// command prints anything.
type filterFlags struct {
	resets  []string
	none    []string
	all     []string
	toggles []string
	applies []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVar(&f.resets, "reset", nil, "Reset a column (repeatable)")
	flags.StringArrayVar(&f.none, "none", nil, "Exclude every value of a column (repeatable)")
	flags.StringArrayVar(&f.all, "all", nil, "Include every value of a column (repeatable)")
	flags.StringArrayVar(&f.toggles, "toggle", nil, "Toggle a value as displayed, column=value (repeatable)")
	flags.StringArrayVar(&f.applies, "apply", nil, "Apply a search pattern, column=pattern (repeatable)")
}

// commands translates the flags into filter commands. Groups run in a fixed
// order: resets, select-none, select-all, toggles, then searches. Within a
// group flags keep their command line order.
func (f *filterFlags) commands(tf *filter.TableFilter[schema.Document]) ([]filter.Command, error) {
	cmds := make([]filter.Command, 0)
	for _, id := range f.resets {
		cmds = append(cmds, filter.Command{Type: filter.CommandReset, Column: id})
	}
	for _, id := range f.none {
		cmds = append(cmds, filter.Command{Type: filter.CommandSelectNone, Column: id})
	}
	for _, id := range f.all {
		cmds = append(cmds, filter.Command{Type: filter.CommandSelectAll, Column: id})
	}
	for _, arg := range f.toggles {
		id, display, err := splitAssignment("toggle", arg)
		if err != nil {
			return nil, err
		}
		col, ok := tf.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", filter.ErrUnknownColumn, id)
		}
		v, ok := col.Resolve(display)
		if !ok {
			return nil, fmt.Errorf("column %q has no value displayed as %q", id, display)
		}
		cmds = append(cmds, filter.Command{Type: filter.CommandToggleValue, Column: id, Value: v})
	}
	for _, arg := range f.applies {
		id, pattern, err := splitAssignment("apply", arg)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds,
			filter.Command{Type: filter.CommandSetSearchText, Column: id, Text: pattern},
			filter.Command{Type: filter.CommandApplySearch, Column: id},
		)
	}
	return cmds, nil
}

// splitAssignment splits "column=value". The value may be empty and may
// itself contain '='.
func splitAssignment(flag, arg string) (string, string, error) {
	id, value, ok := strings.Cut(arg, "=")
	if !ok || id == "" {
		return "", "", fmt.Errorf("invalid --%s %q, expected column=value", flag, arg)
	}
	return id, value, nil
}
