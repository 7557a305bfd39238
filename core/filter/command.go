package filter

import (
	"fmt"

	"github.com/asaidimu/go-facets/core/schema"
	"go.uber.org/zap"
)

// CommandType names a host action on the filter state.
type CommandType string

const (
	CommandToggleValue   CommandType = "toggle_value"
	CommandSetSearchText CommandType = "set_search_text"
	CommandApplySearch   CommandType = "apply_search"
	CommandSelectAll     CommandType = "select_all"
	CommandSelectNone    CommandType = "select_none"
	CommandReset         CommandType = "reset"
	CommandResetAll      CommandType = "reset_all"
)

var knownCommands = map[CommandType]struct{}{
	CommandToggleValue:   {},
	CommandSetSearchText: {},
	CommandApplySearch:   {},
	CommandSelectAll:     {},
	CommandSelectNone:    {},
	CommandReset:         {},
	CommandResetAll:      {},
}

// IsValid reports whether the command type is supported.
func (t CommandType) IsValid() bool {
	_, ok := knownCommands[t]
	return ok
}

// Command is a single host action. Column is ignored by reset_all, Value is
// used by toggle_value and Text by set_search_text.
type Command struct {
	Type   CommandType  `json:"type"`
	Column string       `json:"column,omitempty"`
	Value  schema.Value `json:"-"`
	Text   string       `json:"text,omitempty"`
}

func (c Command) String() string {
	switch c.Type {
	case CommandResetAll:
		return string(c.Type)
	case CommandToggleValue:
		return fmt.Sprintf("%s %s=%s", c.Type, c.Column, c.Value)
	case CommandSetSearchText:
		return fmt.Sprintf("%s %s=%q", c.Type, c.Column, c.Text)
	default:
		return fmt.Sprintf("%s %s", c.Type, c.Column)
	}
}

// Apply runs a command to completion. Unlike the direct accessors it treats
// its input as untrusted and reports an unknown column or command type as an
// error.
func (tf *TableFilter[T]) Apply(cmd Command) error {
	if !cmd.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	if cmd.Type == CommandResetAll {
		tf.ResetAll()
		tf.metrics.command(cmd.Type)
		return nil
	}

	col, ok := tf.Lookup(cmd.Column)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, cmd.Column)
	}

	switch cmd.Type {
	case CommandToggleValue:
		col.ToggleValue(cmd.Value)
	case CommandSetSearchText:
		col.SetSearchText(cmd.Text)
	case CommandApplySearch:
		col.ApplySearch()
	case CommandSelectAll:
		col.SelectAll()
	case CommandSelectNone:
		col.SelectNone()
	case CommandReset:
		col.Reset()
	}
	tf.metrics.command(cmd.Type)

	tf.logger.Debug("Applied filter command",
		zap.String("command", string(cmd.Type)),
		zap.String("column", cmd.Column),
		zap.Bool("active", col.IsActive()),
	)
	return nil
}

// ApplyAll applies commands in order and stops at the first error.
func (tf *TableFilter[T]) ApplyAll(cmds ...Command) error {
	for i, cmd := range cmds {
		if err := tf.Apply(cmd); err != nil {
			return fmt.Errorf("command %d (%s): %w", i, cmd, err)
		}
	}
	return nil
}
