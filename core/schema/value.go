package schema

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValueTag identifies the variant held by a Value.
type ValueTag uint8

// Variant tags, in ordering precedence.
const (
	TagString ValueTag = iota
	TagUnsigned
	TagSigned
	TagBool
)

func (t ValueTag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagUnsigned:
		return "unsigned"
	case TagSigned:
		return "signed"
	case TagBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is the canonical identity of a column value. It is a closed tagged
// union over text, unsigned integer, signed integer and boolean. Values are
// comparable with == and usable as map keys; equality is structural.
type Value struct {
	tag ValueTag
	s   string
	u   uint64
	i   int64
	b   bool
}

// String constructs a text value.
func String(s string) Value { return Value{tag: TagString, s: s} }

// Uint constructs an unsigned integer value.
func Uint(u uint64) Value { return Value{tag: TagUnsigned, u: u} }

// Int constructs a signed integer value.
func Int(i int64) Value { return Value{tag: TagSigned, i: i} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{tag: TagBool, b: b} }

// Date constructs a signed value holding the number of days between the Unix
// epoch and the calendar date of t. The time of day and location are ignored,
// so two instants on the same calendar date compare equal.
func Date(t time.Time) Value { return Int(DaysSinceEpoch(t)) }

// DateFromDays constructs a date value from a day count.
func DateFromDays(days int64) Value { return Int(days) }

var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// DaysSinceEpoch returns the calendar day count of t relative to 1970-01-01.
func DaysSinceEpoch(t time.Time) int64 {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.Unix() / secondsPerDay
}

// TimeFromDays is the inverse of DaysSinceEpoch, returning midnight UTC.
func TimeFromDays(days int64) time.Time {
	return epoch.AddDate(0, 0, int(days))
}

// Tag returns the variant tag.
func (v Value) Tag() ValueTag { return v.tag }

// Text returns the payload of a text value.
func (v Value) Text() (string, bool) { return v.s, v.tag == TagString }

// Unsigned returns the payload of an unsigned value.
func (v Value) Unsigned() (uint64, bool) { return v.u, v.tag == TagUnsigned }

// Signed returns the payload of a signed value.
func (v Value) Signed() (int64, bool) { return v.i, v.tag == TagSigned }

// Boolean returns the payload of a boolean value.
func (v Value) Boolean() (bool, bool) { return v.b, v.tag == TagBool }

// String returns the canonical text form of the value.
func (v Value) String() string {
	switch v.tag {
	case TagUnsigned:
		return strconv.FormatUint(v.u, 10)
	case TagSigned:
		return strconv.FormatInt(v.i, 10)
	case TagBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Compare orders values by variant tag first and payload second. It returns -1,
// 0 or +1. Values of one column always share a tag, so in practice only the
// payload comparison matters.
func (v Value) Compare(other Value) int {
	if c := cmp.Compare(v.tag, other.tag); c != 0 {
		return c
	}
	switch v.tag {
	case TagUnsigned:
		return cmp.Compare(v.u, other.u)
	case TagSigned:
		return cmp.Compare(v.i, other.i)
	case TagBool:
		switch {
		case v.b == other.b:
			return 0
		case !v.b:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(v.s, other.s)
	}
}

// Less reports whether v orders before other.
func (v Value) Less(other Value) bool { return v.Compare(other) < 0 }

// ValueSet is an unordered set of values.
type ValueSet map[Value]struct{}

// NewValueSet returns a set holding the given values.
func NewValueSet(values ...Value) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether it was absent.
func (s ValueSet) Add(v Value) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Remove deletes v and reports whether it was present.
func (s ValueSet) Remove(v Value) bool {
	if _, ok := s[v]; !ok {
		return false
	}
	delete(s, v)
	return true
}

// Contains reports membership.
func (s ValueSet) Contains(v Value) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of values in the set.
func (s ValueSet) Len() int { return len(s) }

// Sorted returns the members in value order.
func (s ValueSet) Sorted() []Value {
	out := make([]Value, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.SortFunc(out, Value.Compare)
	return out
}

// ValueOf converts a loosely typed field, as found in a Document, to a value of
// the given kind. It never fails: input that cannot be represented in the kind
// yields the kind's zero value, which keeps extractors built on it total.
func ValueOf(kind FieldType, raw any) Value {
	switch kind {
	case FieldTypeUnsigned:
		u, _ := toUint64(raw)
		return Uint(u)
	case FieldTypeInteger:
		i, _ := toInt64(raw)
		return Int(i)
	case FieldTypeDate:
		switch t := raw.(type) {
		case time.Time:
			return Date(t)
		case *time.Time:
			if t != nil {
				return Date(*t)
			}
			return Int(0)
		case string:
			if parsed, err := time.Parse(time.DateOnly, t); err == nil {
				return Date(parsed)
			}
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				return Date(parsed)
			}
			return Int(0)
		default:
			i, _ := toInt64(raw)
			return Int(i)
		}
	case FieldTypeBoolean:
		switch b := raw.(type) {
		case bool:
			return Bool(b)
		case string:
			parsed, _ := strconv.ParseBool(b)
			return Bool(parsed)
		default:
			i, _ := toInt64(raw)
			return Bool(i != 0)
		}
	default:
		switch s := raw.(type) {
		case nil:
			return String("")
		case string:
			return String(s)
		case []byte:
			return String(string(s))
		case *string:
			if s == nil {
				return String("")
			}
			return String(*s)
		default:
			return String(fmtAny(raw))
		}
	}
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float32:
		return int64(val), true
	case float64:
		return int64(val), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toUint64(v any) (uint64, bool) {
	switch val := v.(type) {
	case uint64:
		return val, true
	case uint:
		return uint64(val), true
	case string:
		u, err := strconv.ParseUint(strings.TrimSpace(val), 10, 64)
		return u, err == nil
	default:
		i, ok := toInt64(v)
		if !ok || i < 0 {
			return 0, false
		}
		return uint64(i), true
	}
}

func fmtAny(v any) string {
	switch val := v.(type) {
	case int, int8, int16, int32, int64:
		i, _ := toInt64(val)
		return strconv.FormatInt(i, 10)
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(val)
		return strconv.FormatUint(u, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}
