package filter

import "errors"

var (
	// ErrUnknownColumn is returned by Apply when a command names a column id
	// that was never registered.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnknownCommand is returned by Apply for an unsupported command type.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateColumn is returned when a column id is registered twice.
	ErrDuplicateColumn = errors.New("duplicate column id")
	// ErrEmptyColumnID is returned when a column is registered without an id.
	ErrEmptyColumnID = errors.New("column id is empty")
	// ErrInvalidDefinition wraps the issues reported for a table definition.
	ErrInvalidDefinition = errors.New("invalid table definition")
	// ErrDateFormat is returned when a date column layout contains the search
	// pattern separator, so its dates could never be pattern operands.
	ErrDateFormat = errors.New("date format contains the pattern separator")
)
