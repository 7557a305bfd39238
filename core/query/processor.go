package query

import (
	"cmp"

	"github.com/asaidimu/go-facets/core/schema"
	"go.uber.org/zap"
)

// MatcherOption configures a PatternMatcher.
type MatcherOption func(*PatternMatcher)

// WithDateFormat sets the Go time layout used to parse date operands.
func WithDateFormat(layout string) MatcherOption {
	return func(m *PatternMatcher) {
		if layout != "" {
			m.dateFormat = layout
		}
	}
}

// WithCaseFolding toggles case-insensitive prefix matching.
func WithCaseFolding(fold bool) MatcherOption {
	return func(m *PatternMatcher) {
		m.foldCase = fold
	}
}

// PatternMatcher evaluates search patterns for one column kind. Patterns are
// parsed with Parse and the resulting tree is evaluated against a display
// string and a typed value. Every failure mode evaluates to false.
type PatternMatcher struct {
	kind       schema.FieldType
	dateFormat string
	foldCase   bool
	logger     *zap.Logger
}

// Ensure PatternMatcher implements the Matcher interface.
var _ Matcher = (*PatternMatcher)(nil)

// NewPatternMatcher creates a matcher for the given kind. Boolean columns fold
// case by default so that "y" selects "Yes".
func NewPatternMatcher(kind schema.FieldType, logger *zap.Logger, opts ...MatcherOption) *PatternMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &PatternMatcher{
		kind:       kind,
		dateFormat: schema.DefaultDateFormat,
		foldCase:   kind == schema.FieldTypeBoolean,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Kind returns the column kind the matcher was built for.
func (m *PatternMatcher) Kind() schema.FieldType { return m.kind }

// DateFormat returns the layout used for date operands.
func (m *PatternMatcher) DateFormat() string { return m.dateFormat }

// Match parses the pattern and evaluates it.
func (m *PatternMatcher) Match(pattern, display string, value schema.Value) bool {
	return m.Evaluate(Parse(m.kind, pattern), display, value)
}

// Evaluate evaluates an already parsed filter. A nil filter matches everything.
func (m *PatternMatcher) Evaluate(filter *QueryFilter, display string, value schema.Value) bool {
	if filter == nil {
		return true
	}
	return m.evaluateFilter(filter, display, value)
}

// evaluateFilter recursively evaluates a QueryFilter.
func (m *PatternMatcher) evaluateFilter(filter *QueryFilter, display string, value schema.Value) bool {
	if filter.Condition != nil {
		return m.evaluateCondition(filter.Condition, display, value)
	}
	if filter.Group != nil {
		switch filter.Group.Operator {
		case schema.LogicalAnd:
			for i := range filter.Group.Conditions {
				if !m.evaluateFilter(&filter.Group.Conditions[i], display, value) {
					return false
				}
			}
			return true
		case schema.LogicalOr:
			for i := range filter.Group.Conditions {
				if m.evaluateFilter(&filter.Group.Conditions[i], display, value) {
					return true
				}
			}
			return false
		default:
			m.logger.Debug("Unsupported logical operator in pattern", zap.String("operator", string(filter.Group.Operator)))
			return false
		}
	}
	return false
}

// evaluateCondition performs a single comparison. Relational operators compare
// the typed value, falling back to the display text parsed as the column kind
// when the extractor produced a value of another variant.
func (m *PatternMatcher) evaluateCondition(cond *FilterCondition, display string, value schema.Value) bool {
	if cond.Operator == ComparisonOperatorStartsWith {
		return hasPrefix(display, cond.Value, m.foldCase)
	}
	if !cond.Operator.IsRelational() {
		m.logger.Debug("Unsupported comparison operator in pattern", zap.String("operator", string(cond.Operator)))
		return false
	}

	switch m.kind {
	case schema.FieldTypeUnsigned:
		target, ok := value.Unsigned()
		if !ok {
			if target, ok = ParseUint(display); !ok {
				return false
			}
		}
		return compareOperands(cond, target, ParseUint)
	case schema.FieldTypeInteger:
		target, ok := value.Signed()
		if !ok {
			if target, ok = ParseInt(display); !ok {
				return false
			}
		}
		return compareOperands(cond, target, ParseInt)
	case schema.FieldTypeDate:
		parse := func(s string) (int64, bool) { return ParseDate(m.dateFormat, s) }
		target, ok := value.Signed()
		if !ok {
			if target, ok = parse(display); !ok {
				return false
			}
		}
		return compareOperands(cond, target, parse)
	case schema.FieldTypeString:
		// Parse keeps operators literal on text, so only filters assembled
		// by hand or with PatternBuilder reach this branch.
		return compareOperands(cond, display, func(s string) (string, bool) { return s, true })
	default:
		return false
	}
}

// compareOperands parses the condition's operands and applies the operator.
// An operand that does not parse makes the condition false.
func compareOperands[T cmp.Ordered](cond *FilterCondition, target T, parse func(string) (T, bool)) bool {
	operand, ok := parse(cond.Value)
	if !ok {
		return false
	}
	switch cond.Operator {
	case ComparisonOperatorLt:
		return target < operand
	case ComparisonOperatorLte:
		return target <= operand
	case ComparisonOperatorGt:
		return target > operand
	case ComparisonOperatorGte:
		return target >= operand
	case ComparisonOperatorBetween:
		upper, ok := parse(cond.Upper)
		if !ok {
			return false
		}
		return operand <= target && target <= upper
	default:
		return false
	}
}
