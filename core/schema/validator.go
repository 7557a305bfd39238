// Package schema defines the value model shared by the filter engine: the
// closed tagged Value used as the identity of a column value, the column kinds
// and their declarative table definitions, and a Validator that reports
// problems in those definitions.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// PatternSeparator splits a search pattern into conditions. Date layouts must
// not contain it or their operands could never be parsed.
const PatternSeparator = ","

// IsPatternSafeLayout reports whether dates rendered with layout can appear as
// search pattern operands.
func IsPatternSafeLayout(layout string) bool {
	return !strings.Contains(layout, PatternSeparator)
}

// Validator checks table definitions and the documents read for them. It
// collects every issue rather than stopping at the first one.
type Validator struct {
	schema *TableDefinition
	issues []Issue
}

// NewValidator creates a new Validator instance for a given table definition.
// The returned validator can be reused for multiple validation operations.
func NewValidator(schema *TableDefinition) *Validator {
	return &Validator{
		schema: schema,
		issues: make([]Issue, 0),
	}
}

// Validate checks the table definition itself: it must be named, declare at
// least one column, and every column needs a unique id and a known type. Date
// layouts must round-trip a reference date and be free of the pattern
// separator.
func (v *Validator) Validate() (bool, []Issue) {
	v.issues = make([]Issue, 0)

	if v.schema == nil {
		v.addIssue("SCHEMA_MISSING", "table definition is nil", "")
		return false, v.issues
	}
	if strings.TrimSpace(v.schema.Name) == "" {
		v.addIssue("NAME_MISSING", "table definition has no name", "name")
	}
	if len(v.schema.Columns) == 0 {
		v.addIssue("COLUMNS_MISSING", "table definition declares no columns", "columns")
	}

	seen := make(map[string]int, len(v.schema.Columns))
	for i, col := range v.schema.Columns {
		path := v.buildPath("columns", i)
		if strings.TrimSpace(col.ID) == "" {
			v.addIssue("COLUMN_ID_MISSING", "column has no id", path)
		} else if prev, dup := seen[col.ID]; dup {
			v.addIssue("COLUMN_ID_DUPLICATE",
				fmt.Sprintf("column id '%s' already declared at %s", col.ID, v.buildPath("columns", prev)), path)
		} else {
			seen[col.ID] = i
		}
		if !col.Type.IsValid() {
			v.addIssue("COLUMN_TYPE_INVALID", fmt.Sprintf("unsupported column type '%s'", col.Type), path+".type")
		}
		if col.Format != "" && col.Type != FieldTypeDate {
			v.addIssue("FORMAT_NOT_APPLICABLE",
				fmt.Sprintf("format is only used by date columns, column '%s' is %s", col.ID, col.Type), path+".format")
		}
		if col.Type == FieldTypeDate && !v.isRoundTripLayout(col.DateFormat()) {
			v.addIssue("DATE_FORMAT_INVALID",
				fmt.Sprintf("date format '%s' does not round-trip a calendar date", col.DateFormat()), path+".format")
		}
		if col.Type == FieldTypeDate && !IsPatternSafeLayout(col.DateFormat()) {
			v.addIssue("DATE_FORMAT_SEPARATOR",
				fmt.Sprintf("date format '%s' contains the pattern separator '%s'", col.DateFormat(), PatternSeparator), path+".format")
		}
	}

	return len(v.issues) == 0, v.issues
}

// ValidateDocument checks that a document carries a value of the declared kind
// for every column. The `loose` parameter can be used to ignore missing fields.
func (v *Validator) ValidateDocument(doc Document, loose bool) (bool, []Issue) {
	v.issues = make([]Issue, 0)
	if v.schema == nil {
		v.addIssue("SCHEMA_MISSING", "table definition is nil", "")
		return false, v.issues
	}

	for _, col := range v.schema.Columns {
		field := col.FieldName()
		raw, ok := doc[field]
		if !ok || raw == nil {
			if !loose {
				v.addIssue("REQUIRED_FIELD_MISSING", fmt.Sprintf("field '%s' is missing", field), field)
			}
			continue
		}
		if !v.matchesType(raw, col.Type) {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("field '%s' holds %T, expected %s", field, raw, col.Type), field)
		}
	}
	return len(v.issues) == 0, v.issues
}

func (v *Validator) matchesType(value any, expected FieldType) bool {
	switch expected {
	case FieldTypeString:
		_, ok := value.(string)
		return ok
	case FieldTypeUnsigned:
		_, ok := toUint64(value)
		return ok && !v.isStringValue(value)
	case FieldTypeInteger:
		_, ok := toInt64(value)
		return ok && !v.isStringValue(value)
	case FieldTypeDate:
		switch value.(type) {
		case time.Time, *time.Time:
			return true
		}
		return false
	case FieldTypeBoolean:
		_, ok := value.(bool)
		return ok
	default:
		return false
	}
}

func (v *Validator) isStringValue(value any) bool {
	_, ok := value.(string)
	return ok
}

// isRoundTripLayout formats a reference date with the layout and parses it
// back, which rejects layouts that drop the year, month or day.
func (v *Validator) isRoundTripLayout(layout string) bool {
	ref := time.Date(2026, time.November, 23, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, ref.Format(layout))
	if err != nil {
		return false
	}
	return DaysSinceEpoch(parsed) == DaysSinceEpoch(ref)
}

func (v *Validator) buildPath(base string, index int) string {
	return fmt.Sprintf("%s[%d]", base, index)
}

func (v *Validator) addIssue(code, message, path string) {
	issue := Issue{
		Code:     code,
		Message:  message,
		Path:     path,
		Severity: "error",
	}
	v.issues = append(v.issues, issue)
}
