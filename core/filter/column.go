package filter

import (
	"github.com/asaidimu/go-facets/core/query"
	"github.com/asaidimu/go-facets/core/schema"
	"go.uber.org/zap"
)

// ColumnFilter is the filter state of one column: an exclusion set of values
// and a pending search text. Only the exclusion set affects row visibility;
// the search text is a draft until ApplySearch commits it.
//
// A ColumnFilter reads rows only through its extractors and shares the row
// slice of the TableFilter it was registered on.
type ColumnFilter[T any] struct {
	id        string
	kind      schema.FieldType
	valueOf   func(T) schema.Value
	displayOf func(T) string
	matcher   query.Matcher
	rows      []T

	excluded schema.ValueSet
	search   string

	notify func(FilterEventType, *ColumnFilter[T])
	logger *zap.Logger
}

// ID returns the column id.
func (c *ColumnFilter[T]) ID() string { return c.id }

// Kind returns the value kind of the column.
func (c *ColumnFilter[T]) Kind() schema.FieldType { return c.kind }

// ValueOf extracts the column value of a row.
func (c *ColumnFilter[T]) ValueOf(row T) schema.Value { return c.valueOf(row) }

// DisplayOf renders the column value of a row.
func (c *ColumnFilter[T]) DisplayOf(row T) string { return c.displayOf(row) }

// Evaluate reports whether the row passes this column: its value is not
// excluded.
func (c *ColumnFilter[T]) Evaluate(row T) bool {
	return !c.excluded.Contains(c.valueOf(row))
}

// IsActive reports whether any value is excluded.
func (c *ColumnFilter[T]) IsActive() bool { return c.excluded.Len() > 0 }

// IsExcluded reports whether v is in the exclusion set.
func (c *ColumnFilter[T]) IsExcluded(v schema.Value) bool { return c.excluded.Contains(v) }

// Excluded returns the excluded values in value order.
func (c *ColumnFilter[T]) Excluded() []schema.Value { return c.excluded.Sorted() }

// SearchText returns the pending search text.
func (c *ColumnFilter[T]) SearchText() string { return c.search }

// SetSearchText replaces the pending search text. Visibility is unchanged
// until ApplySearch.
func (c *ColumnFilter[T]) SetSearchText(text string) {
	c.search = text
	c.changed(EventSearchChanged)
}

// ToggleValue excludes v if it is included and includes it otherwise.
func (c *ColumnFilter[T]) ToggleValue(v schema.Value) {
	if !c.excluded.Remove(v) {
		c.excluded.Add(v)
	}
	c.changed(EventValueToggled)
}

// ApplySearch re-derives the exclusion set from the search text. A value is
// included when at least one row bearing it matches the pattern and excluded
// otherwise, regardless of its previous state. Empty search text is a no-op.
func (c *ColumnFilter[T]) ApplySearch() {
	if c.search == "" {
		return
	}

	matched := make(map[schema.Value]bool)
	for _, row := range c.rows {
		v := c.valueOf(row)
		if matched[v] {
			continue
		}
		matched[v] = c.matcher.Match(c.search, c.displayOf(row), v)
	}

	for v, ok := range matched {
		if ok {
			c.excluded.Remove(v)
		} else {
			c.excluded.Add(v)
		}
	}
	c.logger.Debug("Applied column search",
		zap.String("column", c.id),
		zap.String("search", c.search),
		zap.Int("excluded", c.excluded.Len()),
	)
	c.changed(EventSearchApplied)
}

// SelectAll includes every value.
func (c *ColumnFilter[T]) SelectAll() {
	c.excluded = schema.NewValueSet()
	c.changed(EventSelectAll)
}

// SelectNone excludes every value present in the dataset.
func (c *ColumnFilter[T]) SelectNone() {
	for _, row := range c.rows {
		c.excluded.Add(c.valueOf(row))
	}
	c.changed(EventSelectNone)
}

// Reset clears the search text and the exclusion set of this column.
func (c *ColumnFilter[T]) Reset() {
	c.reset()
	c.changed(EventColumnReset)
}

func (c *ColumnFilter[T]) reset() {
	c.search = ""
	c.excluded = schema.NewValueSet()
}

// DistinctValues returns every value present in the dataset, in value order.
func (c *ColumnFilter[T]) DistinctValues() []schema.Value {
	set := schema.NewValueSet()
	for _, row := range c.rows {
		set.Add(c.valueOf(row))
	}
	return set.Sorted()
}

// Resolve maps a display string back to the value of the first row rendering
// it, so hosts can accept values as users see them.
func (c *ColumnFilter[T]) Resolve(display string) (schema.Value, bool) {
	for _, row := range c.rows {
		if c.displayOf(row) == display {
			return c.valueOf(row), true
		}
	}
	return schema.Value{}, false
}

// evaluations returns the per-row evaluation vector.
func (c *ColumnFilter[T]) evaluations() []bool {
	out := make([]bool, len(c.rows))
	for i, row := range c.rows {
		out[i] = c.Evaluate(row)
	}
	return out
}

func (c *ColumnFilter[T]) changed(t FilterEventType) {
	if c.notify != nil {
		c.notify(t, c)
	}
}
