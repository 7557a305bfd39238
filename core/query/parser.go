package query

import (
	"strings"

	"github.com/asaidimu/go-facets/core/schema"
)

// Parse turns a raw search pattern into a filter tree for a column kind.
//
// The pattern is split on commas. Text and boolean sub-patterns are prefix
// matches joined by OR. Numeric and date sub-patterns are joined by AND and
// each is recognised by its leading operator (<=, >=, <, >) or as an inclusive
// range A><B; anything else is a literal prefix. Sub-patterns are trimmed and
// empty ones are dropped. Parse returns nil when nothing is left, which
// matches every value.
func Parse(kind schema.FieldType, pattern string) *QueryFilter {
	parts := splitPattern(pattern)
	if len(parts) == 0 {
		return nil
	}

	conditions := make([]QueryFilter, 0, len(parts))
	for _, part := range parts {
		conditions = append(conditions, QueryFilter{Condition: parseCondition(kind, part)})
	}
	return &QueryFilter{
		Group: &FilterGroup{
			Operator:   kind.Combinator(),
			Conditions: conditions,
		},
	}
}

func splitPattern(pattern string) []string {
	raw := strings.Split(pattern, SeparatorToken)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func parseCondition(kind schema.FieldType, part string) *FilterCondition {
	if !kind.IsOrdered() {
		return &FilterCondition{Operator: ComparisonOperatorStartsWith, Value: part}
	}

	if i := strings.Index(part, RangeToken); i > 0 {
		return &FilterCondition{
			Operator: ComparisonOperatorBetween,
			Value:    strings.TrimSpace(part[:i]),
			Upper:    strings.TrimSpace(part[i+len(RangeToken):]),
		}
	}

	// Two-character tokens first, so "<=5" is not read as "<" with operand "=5".
	for _, op := range []struct {
		token    string
		operator ComparisonOperator
	}{
		{LteToken, ComparisonOperatorLte},
		{GteToken, ComparisonOperatorGte},
		{LtToken, ComparisonOperatorLt},
		{GtToken, ComparisonOperatorGt},
	} {
		if strings.HasPrefix(part, op.token) {
			return &FilterCondition{
				Operator: op.operator,
				Value:    strings.TrimSpace(part[len(op.token):]),
			}
		}
	}

	return &FilterCondition{Operator: ComparisonOperatorStartsWith, Value: part}
}
