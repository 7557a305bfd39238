package query

import (
	"fmt"
	"strconv"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
)

// PatternBuilder provides a fluent API for composing search patterns. It
// produces both the parsed filter tree and the pattern text a user would have
// typed, so hosts can preset a column's search without string concatenation.
type PatternBuilder struct {
	kind       schema.FieldType
	dateFormat string
	conditions []QueryFilter
}

// NewPatternBuilder creates a new, empty builder for the given column kind.
func NewPatternBuilder(kind schema.FieldType) *PatternBuilder {
	return &PatternBuilder{
		kind:       kind,
		dateFormat: schema.DefaultDateFormat,
	}
}

// WithDateFormat sets the layout used to render time.Time operands.
func (pb *PatternBuilder) WithDateFormat(layout string) *PatternBuilder {
	if layout != "" {
		pb.dateFormat = layout
	}
	return pb
}

// Build returns the constructed filter, or nil when no condition was added.
func (pb *PatternBuilder) Build() *QueryFilter {
	if len(pb.conditions) == 0 {
		return nil
	}
	conditions := make([]QueryFilter, len(pb.conditions))
	copy(conditions, pb.conditions)
	return &QueryFilter{
		Group: &FilterGroup{
			Operator:   pb.kind.Combinator(),
			Conditions: conditions,
		},
	}
}

// String renders the pattern text.
func (pb *PatternBuilder) String() string {
	return pb.Build().String()
}

// Clone creates a copy of the builder that can be extended independently.
func (pb *PatternBuilder) Clone() *PatternBuilder {
	clone := &PatternBuilder{kind: pb.kind, dateFormat: pb.dateFormat}
	clone.conditions = append(clone.conditions, pb.conditions...)
	return clone
}

// Reset clears all conditions, returning the builder to its initial state.
func (pb *PatternBuilder) Reset() *PatternBuilder {
	pb.conditions = nil
	return pb
}

// Prefix adds a literal prefix condition.
func (pb *PatternBuilder) Prefix(prefix string) *PatternBuilder {
	return pb.addCondition(ComparisonOperatorStartsWith, prefix, "")
}

// Lt adds a less-than condition.
func (pb *PatternBuilder) Lt(value any) *PatternBuilder {
	return pb.addCondition(ComparisonOperatorLt, pb.operand(value), "")
}

// Lte adds a less-than-or-equal condition.
func (pb *PatternBuilder) Lte(value any) *PatternBuilder {
	return pb.addCondition(ComparisonOperatorLte, pb.operand(value), "")
}

// Gt adds a greater-than condition.
func (pb *PatternBuilder) Gt(value any) *PatternBuilder {
	return pb.addCondition(ComparisonOperatorGt, pb.operand(value), "")
}

// Gte adds a greater-than-or-equal condition.
func (pb *PatternBuilder) Gte(value any) *PatternBuilder {
	return pb.addCondition(ComparisonOperatorGte, pb.operand(value), "")
}

// Between adds an inclusive range condition.
func (pb *PatternBuilder) Between(lower, upper any) *PatternBuilder {
	return pb.addCondition(ComparisonOperatorBetween, pb.operand(lower), pb.operand(upper))
}

// addCondition is an internal helper to append a condition.
func (pb *PatternBuilder) addCondition(operator ComparisonOperator, value, upper FilterValue) *PatternBuilder {
	pb.conditions = append(pb.conditions, QueryFilter{
		Condition: &FilterCondition{
			Operator: operator,
			Value:    value,
			Upper:    upper,
		},
	})
	return pb
}

// operand renders a typed operand as pattern text.
func (pb *PatternBuilder) operand(value any) FilterValue {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(pb.dateFormat)
	case schema.Value:
		if days, ok := v.Signed(); ok && pb.kind == schema.FieldTypeDate {
			return schema.TimeFromDays(days).Format(pb.dateFormat)
		}
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
