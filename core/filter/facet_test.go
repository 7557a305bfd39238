package filter

import (
	"testing"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFilter_Reachable(t *testing.T) {
	tf, _ := newScenario(t)
	assert.Equal(t, []bool{true, true, true, true}, tf.Reachable("orig"))

	tf.Column("dest").ToggleValue(schema.String("HOU"))
	assert.Equal(t, []bool{true, false, true, true}, tf.Reachable("orig"))
	assert.Equal(t, []bool{true, true, true, true}, tf.Reachable("dest"), "a column never limits its own facet")
}

func TestTableFilter_AchievableValuesSelfExclusion(t *testing.T) {
	tf, _ := newScenario(t)
	tf.Column("dest").ToggleValue(schema.String("HOU"))
	before := tf.AchievableValues("orig")

	orig := tf.Column("orig")
	orig.SelectNone()
	assert.Equal(t, before, tf.AchievableValues("orig"))
	orig.SetSearchText("SE")
	orig.ApplySearch()
	assert.Equal(t, before, tf.AchievableValues("orig"))

	assert.Equal(t, schema.NewValueSet(schema.String("PHX")), tf.AchievableValues("dest"))
}

func TestTableFilter_AchievableValuesRecomputed(t *testing.T) {
	tf, _ := newScenario(t)
	assert.Equal(t, 3, tf.AchievableValues("orig").Len())

	tf.Column("mileage").SetSearchText(">1000")
	tf.Column("mileage").ApplySearch()
	assert.Equal(t, schema.NewValueSet(schema.String("SEA")), tf.AchievableValues("orig"))

	tf.Column("mileage").Reset()
	assert.Equal(t, 3, tf.AchievableValues("orig").Len())
}

func TestTableFilter_SingleColumnReachable(t *testing.T) {
	rows := scenarioFlights()
	tf, err := NewTableFilter(rows)
	require.NoError(t, err)
	col, err := tf.RegisterString("orig", func(f flight) string { return f.Orig })
	require.NoError(t, err)

	col.SelectNone()
	assert.Equal(t, []bool{true, true, true, true}, tf.Reachable("orig"))
}

func TestTableFilter_Menu(t *testing.T) {
	t.Run("Greyed and checked entries", func(t *testing.T) {
		tf, _ := newScenario(t)
		tf.Column("dest").ToggleValue(schema.String("HOU"))
		tf.Column("orig").ToggleValue(schema.String("SEA"))

		assert.Equal(t, []MenuEntry{
			{Value: schema.String("ABQ"), Display: "ABQ", Checked: true, Reachable: true},
			{Value: schema.String("DAL"), Display: "DAL", Checked: true, Reachable: false},
			{Value: schema.String("SEA"), Display: "SEA", Checked: false, Reachable: true},
		}, tf.Menu("orig"))
	})

	t.Run("Sorted by value not display", func(t *testing.T) {
		tf, _ := newScenario(t)
		var displays []string
		for _, e := range tf.Menu("mileage") {
			displays = append(displays, e.Display)
		}
		assert.Equal(t, []string{"244", "642", "900", "1100"}, displays)
	})

	t.Run("Dates sort chronologically", func(t *testing.T) {
		rows := scenarioFlights()
		tf, err := NewTableFilter(rows)
		require.NoError(t, err)
		_, err = tf.RegisterDate("dep_date", func(f flight) time.Time { return f.DepDate })
		require.NoError(t, err)

		var displays []string
		for _, e := range tf.Menu("dep_date") {
			displays = append(displays, e.Display)
		}
		assert.Equal(t, []string{"1/12/2026", "2/3/2026", "3/1/2026"}, displays, "deduplicated and chronological")
	})

	t.Run("Pending search narrows entries", func(t *testing.T) {
		tf, _ := newScenario(t)
		tf.Column("mileage").SetSearchText(">500,<1000")

		menu := tf.Menu("mileage")
		require.Len(t, menu, 2)
		assert.Equal(t, schema.Uint(642), menu[0].Value)
		assert.Equal(t, schema.Uint(900), menu[1].Value)
		assert.False(t, tf.IsActiveFor("mileage"), "menu search does not commit")
	})

	t.Run("Unreachable entries stay toggleable", func(t *testing.T) {
		tf, _ := newScenario(t)
		tf.Column("dest").ToggleValue(schema.String("HOU"))
		tf.Column("orig").ToggleValue(schema.String("DAL"))
		for _, e := range tf.Menu("orig") {
			if e.Value == schema.String("DAL") {
				assert.False(t, e.Checked)
				assert.False(t, e.Reachable)
			}
		}
	})
}
