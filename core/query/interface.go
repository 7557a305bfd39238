package query

import (
	"github.com/asaidimu/go-facets/core/schema"
)

// Matcher decides whether a column value satisfies a raw search pattern. The
// display string is used for text matching and the typed value for relational
// matching. Implementations must not fail: a pattern they cannot interpret
// simply does not match.
type Matcher interface {
	Match(pattern, display string, value schema.Value) bool
}

// MatcherFunc adapts an ordinary function to the Matcher interface.
type MatcherFunc func(pattern, display string, value schema.Value) bool

// Match calls f(pattern, display, value).
func (f MatcherFunc) Match(pattern, display string, value schema.Value) bool {
	return f(pattern, display, value)
}

// PrefixMatcher matches when the display string starts with the whole pattern.
// It has no operator grammar and does not split on commas.
var PrefixMatcher Matcher = MatcherFunc(func(pattern, display string, _ schema.Value) bool {
	return hasPrefix(display, pattern, false)
})
