package schema

import (
	"fmt"
)

// LogicalOperator for combining conditions.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and" // All conditions must be true
	LogicalOr  LogicalOperator = "or"  // At least one condition must be true
)

// FieldType represents the kinds of column values the filter engine understands.
type FieldType string

const (
	FieldTypeString   FieldType = "string"   // Text data
	FieldTypeUnsigned FieldType = "unsigned" // Non-negative whole numbers
	FieldTypeInteger  FieldType = "integer"  // Signed whole numbers
	FieldTypeDate     FieldType = "date"     // Calendar dates, compared as day counts
	FieldTypeBoolean  FieldType = "boolean"  // True/false values
)

// DefaultDateFormat is the layout used to display and parse dates when a column
// does not configure its own. It renders as month/day/year without padding.
const DefaultDateFormat = "1/2/2006"

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeString:   {},
	FieldTypeUnsigned: {},
	FieldTypeInteger:  {},
	FieldTypeDate:     {},
	FieldTypeBoolean:  {},
}

// IsValid reports whether the field type is one of the supported kinds.
func (f FieldType) IsValid() bool {
	_, ok := knownFieldTypes[f]
	return ok
}

// Combinator returns the logical operator used to join comma separated
// sub-patterns for this kind. Text-like kinds select among alternatives, while
// numeric and date kinds intersect conditions so that two bounds form a range.
func (f FieldType) Combinator() LogicalOperator {
	switch f {
	case FieldTypeUnsigned, FieldTypeInteger, FieldTypeDate:
		return LogicalAnd
	default:
		return LogicalOr
	}
}

// IsOrdered reports whether the kind supports relational operators in patterns.
func (f FieldType) IsOrdered() bool {
	return f.Combinator() == LogicalAnd
}

// Document is a loosely typed row, as read from a data source such as SQLite.
type Document map[string]any

// ColumnDefinition declares one filterable column of a table.
type ColumnDefinition struct {
	// ID is the stable key the host uses to address the column filter.
	ID string `json:"id" yaml:"id"`
	// Field is the document field the column reads. Defaults to ID.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Type selects the value kind and the pattern grammar.
	Type FieldType `json:"type" yaml:"type"`
	// Format is the Go time layout used for date columns.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// Description is free text shown by hosts.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FieldName returns the document field backing the column.
func (c ColumnDefinition) FieldName() string {
	if c.Field != "" {
		return c.Field
	}
	return c.ID
}

// DateFormat returns the configured layout, or DefaultDateFormat.
func (c ColumnDefinition) DateFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return DefaultDateFormat
}

// TableDefinition declares a table and its ordered filterable columns. Column
// order is registration order.
type TableDefinition struct {
	Name        string             `json:"name" yaml:"name"`
	Description *string            `json:"description,omitempty" yaml:"description,omitempty"`
	Columns     []ColumnDefinition `json:"columns" yaml:"columns"`
}

// Column returns the column definition with the given id.
func (t *TableDefinition) Column(id string) (ColumnDefinition, bool) {
	for _, c := range t.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// Issue describes a single problem found while validating a definition.
type Issue struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Path        string `json:"path,omitempty"`
	Severity    string `json:"severity"`
	Description string `json:"description,omitempty"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Message)
}
