package filter

import (
	"fmt"
	"slices"

	"github.com/asaidimu/go-facets/core/schema"
	"go.uber.org/zap"
)

// MenuEntry is one distinct value of a column as offered in its menu.
type MenuEntry struct {
	Value     schema.Value `json:"value"`
	Display   string       `json:"display"`
	Checked   bool         `json:"checked"`   // Not excluded by the column.
	Reachable bool         `json:"reachable"` // Some row with this value passes every other column.
}

// Reachable returns, per row, whether the row passes every column except id.
// The column's own exclusion set never affects the result. It is recomputed on
// every call and panics on an unknown id.
func (tf *TableFilter[T]) Reachable(id string) []bool {
	self := tf.mustIndex(id)
	tf.metrics.facetQuery()

	reachable := make([]bool, len(tf.rows))
	for i := range reachable {
		reachable[i] = true
	}
	for i, col := range tf.columns {
		if i == self {
			continue
		}
		vector := col.evaluations()
		if len(vector) != len(reachable) {
			panic(fmt.Sprintf("filter: column %q evaluated %d rows, table has %d", col.id, len(vector), len(reachable)))
		}
		tf.metrics.rowEvaluations(len(vector))
		for r, ok := range vector {
			reachable[r] = reachable[r] && ok
		}
	}
	return reachable
}

// AchievableValues returns the values of column id found in reachable rows.
func (tf *TableFilter[T]) AchievableValues(id string) schema.ValueSet {
	col := tf.Column(id)
	reachable := tf.Reachable(id)

	values := schema.NewValueSet()
	for i, row := range tf.rows {
		if reachable[i] {
			values.Add(col.valueOf(row))
		}
	}
	return values
}

// Menu lists the distinct values of column id whose display matches the
// pending search text, sorted by value. Each value keeps the display of the
// first matching row bearing it. Unreachable entries are listed too; selecting
// them is legal.
func (tf *TableFilter[T]) Menu(id string) []MenuEntry {
	col := tf.Column(id)
	achievable := tf.AchievableValues(id)

	seen := schema.NewValueSet()
	entries := make([]MenuEntry, 0)
	for _, row := range tf.rows {
		v := col.valueOf(row)
		if seen.Contains(v) {
			continue
		}
		display := col.displayOf(row)
		if col.search != "" && !col.matcher.Match(col.search, display, v) {
			continue
		}
		seen.Add(v)
		entries = append(entries, MenuEntry{
			Value:     v,
			Display:   display,
			Checked:   !col.excluded.Contains(v),
			Reachable: achievable.Contains(v),
		})
	}
	slices.SortFunc(entries, func(a, b MenuEntry) int { return a.Value.Compare(b.Value) })

	tf.logger.Debug("Built column menu",
		zap.String("column", id),
		zap.Int("entries", len(entries)),
		zap.Int("achievable", achievable.Len()),
	)
	return entries
}
