package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
)

// ParseUint parses an unsigned operand. It returns false for anything that is
// not a plain base-10 number, including signs and fractions.
func ParseUint(s string) (uint64, bool) {
	u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return u, err == nil
}

// ParseInt parses a signed base-10 operand.
func ParseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return i, err == nil
}

// ParseDate parses a date operand with the given Go time layout and returns
// its day count since the Unix epoch.
func ParseDate(layout, s string) (int64, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return schema.DaysSinceEpoch(t), true
}

// hasPrefix is strings.HasPrefix with optional case folding.
func hasPrefix(target, prefix string, fold bool) bool {
	if !fold {
		return strings.HasPrefix(target, prefix)
	}
	return len(target) >= len(prefix) && strings.EqualFold(target[:len(prefix)], prefix)
}
