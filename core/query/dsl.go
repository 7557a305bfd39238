// Package query defines the search pattern language of column filters. A raw
// pattern typed by a user is parsed into a small filter tree of conditions and
// groups, and a Matcher evaluates that tree against a column value.
package query

import (
	"strings"

	"github.com/asaidimu/go-facets/core/schema"
)

// Logical operators for combining pattern conditions.
const (
	LogicalOperatorAnd schema.LogicalOperator = "and"
	LogicalOperatorOr  schema.LogicalOperator = "or"
)

// ComparisonOperator defines the set of operators that can appear in a condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorLt         ComparisonOperator = "lt"
	ComparisonOperatorLte        ComparisonOperator = "lte"
	ComparisonOperatorGt         ComparisonOperator = "gt"
	ComparisonOperatorGte        ComparisonOperator = "gte"
	ComparisonOperatorBetween    ComparisonOperator = "between"
	ComparisonOperatorStartsWith ComparisonOperator = "startswith"
)

// Tokens as typed in a search pattern.
const (
	SeparatorToken = schema.PatternSeparator
	RangeToken     = "><"
	LteToken       = "<="
	GteToken       = ">="
	LtToken        = "<"
	GtToken        = ">"
)

// FilterValue is a raw operand. Operands stay textual until evaluation, where
// they are parsed according to the column kind.
type FilterValue = string

// FilterCondition defines a single condition of a pattern.
type FilterCondition struct {
	Operator ComparisonOperator // The comparison operator to use.
	Value    FilterValue        // The operand, or the lower bound of a range.
	Upper    FilterValue        `json:",omitempty"` // The upper bound of a range.
}

// String renders the condition back to pattern text.
func (c FilterCondition) String() string {
	switch c.Operator {
	case ComparisonOperatorLt:
		return LtToken + c.Value
	case ComparisonOperatorLte:
		return LteToken + c.Value
	case ComparisonOperatorGt:
		return GtToken + c.Value
	case ComparisonOperatorGte:
		return GteToken + c.Value
	case ComparisonOperatorBetween:
		return c.Value + RangeToken + c.Upper
	default:
		return c.Value
	}
}

// FilterGroup combines multiple conditions using a logical operator.
type FilterGroup struct {
	Operator   schema.LogicalOperator // The logical operator (AND, OR) to combine the conditions.
	Conditions []QueryFilter          // The list of conditions or nested groups.
}

// QueryFilter is a union type that can represent either a single condition
// or a group of conditions.
type QueryFilter struct {
	Condition *FilterCondition `json:",omitempty"` // A single filter condition.
	Group     *FilterGroup     `json:",omitempty"` // A group of filter conditions.
}

// String renders the filter back to pattern text. The combining operator is
// implied by the column kind, so both group kinds render with the separator.
func (f *QueryFilter) String() string {
	if f == nil {
		return ""
	}
	if f.Condition != nil {
		return f.Condition.String()
	}
	if f.Group == nil {
		return ""
	}
	parts := make([]string, 0, len(f.Group.Conditions))
	for i := range f.Group.Conditions {
		parts = append(parts, f.Group.Conditions[i].String())
	}
	return strings.Join(parts, SeparatorToken)
}

// relationalOperators are the operators that compare ordered values.
var relationalOperators = map[ComparisonOperator]struct{}{
	ComparisonOperatorLt:      {},
	ComparisonOperatorLte:     {},
	ComparisonOperatorGt:      {},
	ComparisonOperatorGte:     {},
	ComparisonOperatorBetween: {},
}

// IsRelational reports whether the operator compares ordered values rather
// than matching text.
func (c ComparisonOperator) IsRelational() bool {
	_, ok := relationalOperators[c]
	return ok
}

// IsStandard checks if a comparison operator is one of the supported operators.
func (c ComparisonOperator) IsStandard() bool {
	return c == ComparisonOperatorStartsWith || c.IsRelational()
}
