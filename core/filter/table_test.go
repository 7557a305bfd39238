package filter

import (
	"testing"
	"time"

	"github.com/asaidimu/go-facets/core/query"
	"github.com/asaidimu/go-facets/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flight struct {
	Number    string
	Orig      string
	Dest      string
	Mileage   uint64
	DepDate   time.Time
	Cancelled bool
}

func scenarioFlights() []flight {
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	return []flight{
		{Number: "F1", Orig: "ABQ", Dest: "DAL", Mileage: 642, DepDate: day(time.January, 12)},
		{Number: "F2", Orig: "DAL", Dest: "HOU", Mileage: 244, DepDate: day(time.February, 3), Cancelled: true},
		{Number: "F3", Orig: "SEA", Dest: "PHX", Mileage: 1100, DepDate: day(time.March, 1)},
		{Number: "F4", Orig: "ABQ", Dest: "SEA", Mileage: 900, DepDate: day(time.January, 12)},
	}
}

// newScenario registers orig, dest and mileage over the four flights.
func newScenario(t *testing.T, opts ...Option) (*TableFilter[flight], []flight) {
	t.Helper()
	rows := scenarioFlights()
	opts = append([]Option{WithName("flights"), WithLogger(zap.NewNop())}, opts...)
	tf, err := NewTableFilter(rows, opts...)
	require.NoError(t, err)

	_, err = tf.RegisterString("orig", func(f flight) string { return f.Orig })
	require.NoError(t, err)
	_, err = tf.RegisterString("dest", func(f flight) string { return f.Dest })
	require.NoError(t, err)
	_, err = tf.RegisterUint("mileage", func(f flight) uint64 { return f.Mileage })
	require.NoError(t, err)
	return tf, rows
}

func numbers(rows []flight) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Number)
	}
	return out
}

func TestTableFilter_Register(t *testing.T) {
	tf, _ := newScenario(t)

	t.Run("Duplicate id", func(t *testing.T) {
		_, err := tf.RegisterString("orig", func(f flight) string { return f.Orig })
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})

	t.Run("Empty id", func(t *testing.T) {
		_, err := tf.RegisterString(" ", func(f flight) string { return f.Orig })
		assert.ErrorIs(t, err, ErrEmptyColumnID)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		_, err := tf.Register("gate", "decimal", func(f flight) schema.Value { return schema.String(f.Number) })
		assert.Error(t, err)
	})

	t.Run("Nil extractor", func(t *testing.T) {
		_, err := tf.Register("gate", schema.FieldTypeString, nil)
		assert.Error(t, err)
	})

	t.Run("Date layout with pattern separator", func(t *testing.T) {
		_, err := tf.RegisterDate("departure", func(f flight) time.Time { return f.DepDate },
			WithDateFormat("Jan 2, 2006"))
		assert.ErrorIs(t, err, ErrDateFormat)
		_, ok := tf.Lookup("departure")
		assert.False(t, ok)
	})

	t.Run("Display for another row type", func(t *testing.T) {
		_, err := tf.RegisterString("number", func(f flight) string { return f.Number },
			WithDisplay(func(s string) string { return s }))
		assert.Error(t, err)
	})

	t.Run("Order is registration order", func(t *testing.T) {
		var ids []string
		for _, c := range tf.Columns() {
			ids = append(ids, c.ID())
		}
		assert.Equal(t, []string{"orig", "dest", "mileage"}, ids)
	})
}

func TestTableFilter_DefaultDisplay(t *testing.T) {
	rows := scenarioFlights()
	tf, err := NewTableFilter(rows)
	require.NoError(t, err)

	date, err := tf.RegisterDate("dep_date", func(f flight) time.Time { return f.DepDate })
	require.NoError(t, err)
	iso, err := tf.RegisterDate("dep_iso", func(f flight) time.Time { return f.DepDate }, WithDateFormat("2006-01-02"))
	require.NoError(t, err)
	cancelled, err := tf.RegisterBool("cancelled", func(f flight) bool { return f.Cancelled })
	require.NoError(t, err)
	mileage, err := tf.RegisterUint("mileage", func(f flight) uint64 { return f.Mileage })
	require.NoError(t, err)
	delta, err := tf.RegisterInt("delta", func(f flight) int64 { return int64(f.Mileage) - 700 })
	require.NoError(t, err)
	number, err := tf.RegisterString("number", func(f flight) string { return f.Number },
		WithDisplay(func(f flight) string { return "#" + f.Number }))
	require.NoError(t, err)

	assert.Equal(t, "1/12/2026", date.DisplayOf(rows[0]))
	assert.Equal(t, "2026-01-12", iso.DisplayOf(rows[0]))
	assert.Equal(t, "No", cancelled.DisplayOf(rows[0]))
	assert.Equal(t, "Yes", cancelled.DisplayOf(rows[1]))
	assert.Equal(t, "642", mileage.DisplayOf(rows[0]))
	assert.Equal(t, "-58", delta.DisplayOf(rows[0]))
	assert.Equal(t, "#F1", number.DisplayOf(rows[0]))
	assert.Equal(t, schema.FieldTypeDate, date.Kind())
}

func TestTableFilter_Evaluate(t *testing.T) {
	tf, rows := newScenario(t)

	for _, r := range rows {
		assert.True(t, tf.Evaluate(r), "no active filter keeps %s", r.Number)
	}

	tf.Column("dest").ToggleValue(schema.String("HOU"))
	tf.Column("mileage").ToggleValue(schema.Uint(1100))

	for _, r := range rows {
		expected := true
		for _, c := range tf.Columns() {
			expected = expected && c.Evaluate(r)
		}
		assert.Equal(t, expected, tf.Evaluate(r), r.Number)
	}
	assert.Equal(t, []string{"F1", "F4"}, numbers(tf.VisibleRows()))
	assert.Equal(t, []int{0, 3}, tf.VisibleIndices())
	assert.Equal(t, []string{"dest", "mileage"}, tf.ActiveColumns())
}

func TestTableFilter_Scenario(t *testing.T) {
	t.Run("Exclude dest HOU", func(t *testing.T) {
		tf, _ := newScenario(t)
		tf.Column("dest").ToggleValue(schema.String("HOU"))
		assert.Equal(t, []string{"F1", "F3", "F4"}, numbers(tf.VisibleRows()))
		assert.True(t, tf.IsActiveFor("dest"))
		assert.False(t, tf.IsActiveFor("orig"))
	})

	t.Run("Mileage range", func(t *testing.T) {
		tf, _ := newScenario(t)
		col := tf.Column("mileage")
		col.SetSearchText(">500,<1000")
		assert.Len(t, tf.VisibleRows(), 4, "search text alone hides nothing")
		col.ApplySearch()
		assert.Equal(t, []string{"F1", "F4"}, numbers(tf.VisibleRows()))
	})

	t.Run("Origin prefixes", func(t *testing.T) {
		tf, _ := newScenario(t)
		col := tf.Column("orig")
		col.SetSearchText("AB,SE")
		col.ApplySearch()
		assert.Equal(t, []string{"F1", "F3", "F4"}, numbers(tf.VisibleRows()))
		assert.Equal(t, []schema.Value{schema.String("DAL")}, col.Excluded())
	})

	t.Run("Achievable origins", func(t *testing.T) {
		tf, _ := newScenario(t)
		tf.Column("dest").ToggleValue(schema.String("HOU"))
		assert.Equal(t, schema.NewValueSet(schema.String("ABQ"), schema.String("SEA")), tf.AchievableValues("orig"))
		assert.False(t, tf.IsActiveFor("orig"))
	})
}

func TestTableFilter_UnknownColumn(t *testing.T) {
	tf, _ := newScenario(t)

	assert.PanicsWithValue(t, `filter: unknown column id "gate"`, func() { tf.Column("gate") })
	assert.Panics(t, func() { tf.IsActiveFor("gate") })
	assert.Panics(t, func() { tf.Reachable("gate") })

	_, ok := tf.Lookup("gate")
	assert.False(t, ok)
	col, ok := tf.Lookup("orig")
	assert.True(t, ok)
	assert.Equal(t, "orig", col.ID())
}

func TestTableFilter_ResetAll(t *testing.T) {
	tf, _ := newScenario(t)
	tf.Column("orig").SetSearchText("AB")
	tf.Column("orig").ApplySearch()
	tf.Column("dest").ToggleValue(schema.String("HOU"))
	tf.Column("mileage").SetSearchText(">1000")

	tf.ResetAll()

	for _, c := range tf.Columns() {
		assert.False(t, c.IsActive(), c.ID())
		assert.Empty(t, c.SearchText(), c.ID())
	}
	assert.Len(t, tf.VisibleRows(), 4)
}

func TestTableFilter_RowMutation(t *testing.T) {
	tf, rows := newScenario(t)
	tf.Column("orig").ToggleValue(schema.String("DAL"))
	assert.False(t, tf.Evaluate(rows[1]))

	rows[1].Orig = "ELP"
	assert.True(t, tf.Evaluate(rows[1]), "evaluation reads the current field value")
	assert.Equal(t, []string{"F1", "F2", "F3", "F4"}, numbers(tf.VisibleRows()))
}

func TestTableFilter_EmptyDataset(t *testing.T) {
	tf, err := NewTableFilter([]flight{})
	require.NoError(t, err)
	col, err := tf.RegisterString("orig", func(f flight) string { return f.Orig })
	require.NoError(t, err)

	col.SelectNone()
	assert.False(t, col.IsActive())
	assert.Empty(t, col.DistinctValues())
	assert.Empty(t, tf.Menu("orig"))
	assert.Empty(t, tf.AchievableValues("orig"))
	assert.Empty(t, tf.VisibleRows())
	assert.True(t, tf.Evaluate(flight{Orig: "ABQ"}))
}

func TestTableFilter_CustomMatcher(t *testing.T) {
	rows := scenarioFlights()
	tf, err := NewTableFilter(rows)
	require.NoError(t, err)
	col, err := tf.RegisterString("dest", func(f flight) string { return f.Dest }, WithMatcher(query.PrefixMatcher))
	require.NoError(t, err)

	col.SetSearchText("DAL,HOU")
	col.ApplySearch()
	assert.Equal(t, 4, col.excluded.Len(), "prefix matcher has no comma grammar")
}
