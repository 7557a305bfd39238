package schema

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValue_Equality(t *testing.T) {
	assert.Equal(t, String("ABQ"), String("ABQ"))
	assert.NotEqual(t, String("ABQ"), String("DAL"))
	assert.True(t, Uint(5) == Uint(5))
	assert.False(t, Uint(5) == Int(5), "same payload, different variant")
	assert.False(t, String("") == Bool(false))

	set := NewValueSet(String("ABQ"), String("ABQ"), Int(-1))
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(String("ABQ")))
	assert.True(t, set.Contains(Int(-1)))
	assert.False(t, set.Contains(Uint(1)))
}

func TestValue_Accessors(t *testing.T) {
	s, ok := String("x").Text()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = String("x").Unsigned()
	assert.False(t, ok)

	u, ok := Uint(42).Unsigned()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), u)

	i, ok := Int(-7).Signed()
	assert.True(t, ok)
	assert.Equal(t, int64(-7), i)

	b, ok := Bool(true).Boolean()
	assert.True(t, ok)
	assert.True(t, b)

	assert.Equal(t, TagBool, Bool(false).Tag())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "SEA", String("SEA").String())
	assert.Equal(t, "1100", Uint(1100).String())
	assert.Equal(t, "-3", Int(-3).String())
	assert.Equal(t, "true", Bool(true).String())
}

func TestValue_Compare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected int
	}{
		{"text", String("ABQ"), String("DAL"), -1},
		{"text equal", String("SEA"), String("SEA"), 0},
		{"unsigned numeric not lexical", Uint(9), Uint(10), -1},
		{"signed negative", Int(-10), Int(2), -1},
		{"bool", Bool(true), Bool(false), 1},
		{"bool equal", Bool(false), Bool(false), 0},
		{"tag precedence", String("zzz"), Uint(0), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.expected, tt.b.Compare(tt.a))
		})
	}
}

func TestValueSet_Sorted(t *testing.T) {
	set := NewValueSet(Uint(900), Uint(642), Uint(1100), Uint(244))
	assert.Equal(t, []Value{Uint(244), Uint(642), Uint(900), Uint(1100)}, set.Sorted())

	assert.True(t, set.Remove(Uint(642)))
	assert.False(t, set.Remove(Uint(642)))
	assert.True(t, set.Add(Uint(1)))
	assert.False(t, set.Add(Uint(1)))
	assert.Equal(t, Uint(1), set.Sorted()[0])
}

func TestDate_Chronological(t *testing.T) {
	jan := Date(time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC))
	feb := Date(time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC))
	// "1/12/2026" sorts after "2/3/2026" lexically, but not as a date.
	assert.True(t, jan.Less(feb))

	assert.Equal(t, Int(0), Date(time.Date(1970, time.January, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, Int(-1), Date(time.Date(1969, time.December, 31, 0, 0, 0, 0, time.UTC)))

	loc := time.FixedZone("UTC-8", -8*60*60)
	assert.Equal(t,
		Date(time.Date(2026, time.March, 1, 23, 0, 0, 0, loc)),
		Date(time.Date(2026, time.March, 1, 1, 0, 0, 0, time.UTC)),
		"calendar date is taken in the time's own location")
}

func TestTimeFromDays(t *testing.T) {
	day := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)
	days := DaysSinceEpoch(day)
	assert.True(t, TimeFromDays(days).Equal(day))
	assert.Equal(t, DateFromDays(days), Date(day))
}

func TestValueOf(t *testing.T) {
	when := time.Date(2026, time.May, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kind     FieldType
		raw      any
		expected Value
	}{
		{"string", FieldTypeString, "ABQ", String("ABQ")},
		{"string from bytes", FieldTypeString, []byte("HOU"), String("HOU")},
		{"string from nil", FieldTypeString, nil, String("")},
		{"string from int", FieldTypeString, 12, String("12")},
		{"unsigned from int64", FieldTypeUnsigned, int64(642), Uint(642)},
		{"unsigned from float", FieldTypeUnsigned, float64(900), Uint(900)},
		{"unsigned from negative", FieldTypeUnsigned, int64(-5), Uint(0)},
		{"unsigned from text", FieldTypeUnsigned, "77", Uint(77)},
		{"integer from int", FieldTypeInteger, -12, Int(-12)},
		{"integer from garbage", FieldTypeInteger, "abc", Int(0)},
		{"integer from largest uint64 in range", FieldTypeInteger, uint64(math.MaxInt64), Int(math.MaxInt64)},
		{"integer from overflowing uint64", FieldTypeInteger, uint64(math.MaxInt64) + 1, Int(0)},
		{"integer from overflowing uint", FieldTypeInteger, uint(math.MaxUint), Int(0)},
		{"date from time", FieldTypeDate, when, Date(when)},
		{"date from iso text", FieldTypeDate, "2026-05-09", Date(when)},
		{"date from rfc3339", FieldTypeDate, "2026-05-09T10:00:00Z", Date(when)},
		{"date from garbage", FieldTypeDate, "soon", Int(0)},
		{"bool", FieldTypeBoolean, true, Bool(true)},
		{"bool from int", FieldTypeBoolean, int64(1), Bool(true)},
		{"bool from zero", FieldTypeBoolean, int64(0), Bool(false)},
		{"bool from text", FieldTypeBoolean, "true", Bool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValueOf(tt.kind, tt.raw))
		})
	}
}
