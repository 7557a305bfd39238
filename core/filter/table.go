// Package filter implements faceted filtering over an in-memory table.
//
// A TableFilter owns one ColumnFilter per registered column. Each column hides
// rows through an exclusion set of values, and a row is visible when every
// column lets it through. For any column the engine can also compute its
// facet: the values still reachable given the filters of all other columns,
// which hosts use to grey out menu entries.
//
// The engine is synchronous and not safe for concurrent mutation. Every
// command has fully completed when its method returns.
package filter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-facets/core/query"
	"github.com/asaidimu/go-facets/core/schema"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a TableFilter.
type Option func(*tableOptions)

type tableOptions struct {
	name     string
	logger   *zap.Logger
	registry prometheus.Registerer
}

// WithName sets the table name reported in events.
func WithName(name string) Option {
	return func(o *tableOptions) { o.name = name }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *tableOptions) { o.logger = logger }
}

// WithMetrics registers the table's Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *tableOptions) { o.registry = reg }
}

// TableFilter is an ordered registry of column filters over a shared row
// slice. The host may mutate row fields between calls but must not change the
// slice length while the filter is in use.
type TableFilter[T any] struct {
	name    string
	rows    []T
	columns []*ColumnFilter[T]
	index   map[string]int

	logger  *zap.Logger
	metrics *Metrics

	bus           *events.TypedEventBus[FilterEvent]
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex
}

// NewTableFilter creates a filter over rows with no columns.
func NewTableFilter[T any](rows []T, opts ...Option) (*TableFilter[T], error) {
	o := tableOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	bus, err := events.NewTypedEventBus[FilterEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	tf := &TableFilter[T]{
		name:          o.name,
		rows:          rows,
		index:         make(map[string]int),
		logger:        o.logger,
		bus:           bus,
		subscriptions: map[string]*SubscriptionInfo{},
	}
	if o.registry != nil {
		tf.metrics = NewMetrics(o.registry)
	}
	return tf, nil
}

// ColumnOption configures a column at registration.
type ColumnOption func(*columnOptions)

type columnOptions struct {
	display    any
	matcher    query.Matcher
	dateFormat string
}

// WithDisplay overrides how a column renders its value. The function must take
// the table's row type.
func WithDisplay[T any](displayOf func(T) string) ColumnOption {
	return func(o *columnOptions) { o.display = displayOf }
}

// WithMatcher overrides the pattern matcher of a column.
func WithMatcher(m query.Matcher) ColumnOption {
	return func(o *columnOptions) { o.matcher = m }
}

// WithDateFormat sets the Go time layout of a date column, used both to render
// values and to parse pattern operands.
func WithDateFormat(layout string) ColumnOption {
	return func(o *columnOptions) { o.dateFormat = layout }
}

// Register appends a column filter. The id must be unique and non-empty; the
// registration order is the column order.
func (tf *TableFilter[T]) Register(id string, kind schema.FieldType, valueOf func(T) schema.Value, opts ...ColumnOption) (*ColumnFilter[T], error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyColumnID
	}
	if _, dup := tf.index[id]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, id)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("column %q: unsupported kind %q", id, kind)
	}
	if valueOf == nil {
		return nil, fmt.Errorf("column %q: value extractor is nil", id)
	}

	o := columnOptions{dateFormat: schema.DefaultDateFormat}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dateFormat == "" {
		o.dateFormat = schema.DefaultDateFormat
	}
	if kind == schema.FieldTypeDate && !schema.IsPatternSafeLayout(o.dateFormat) {
		return nil, fmt.Errorf("column %q: %w: %q", id, ErrDateFormat, o.dateFormat)
	}

	displayOf := func(row T) string { return renderValue(kind, o.dateFormat, valueOf(row)) }
	if o.display != nil {
		custom, ok := o.display.(func(T) string)
		if !ok {
			return nil, fmt.Errorf("column %q: display function has type %T, expected %T", id, o.display, displayOf)
		}
		displayOf = custom
	}

	matcher := o.matcher
	if matcher == nil {
		matcher = query.NewPatternMatcher(kind, tf.logger, query.WithDateFormat(o.dateFormat))
	}

	col := &ColumnFilter[T]{
		id:        id,
		kind:      kind,
		valueOf:   valueOf,
		displayOf: displayOf,
		matcher:   matcher,
		rows:      tf.rows,
		excluded:  schema.NewValueSet(),
		notify:    tf.emitEvent,
		logger:    tf.logger,
	}
	tf.index[id] = len(tf.columns)
	tf.columns = append(tf.columns, col)

	tf.logger.Info("Registered column filter",
		zap.String("table", tf.name),
		zap.String("column", id),
		zap.String("kind", string(kind)),
	)
	return col, nil
}

// renderValue is the default display of a value of the given kind.
func renderValue(kind schema.FieldType, dateFormat string, v schema.Value) string {
	switch kind {
	case schema.FieldTypeDate:
		if days, ok := v.Signed(); ok {
			return schema.TimeFromDays(days).Format(dateFormat)
		}
	case schema.FieldTypeBoolean:
		if b, ok := v.Boolean(); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	}
	return v.String()
}

// Name returns the table name.
func (tf *TableFilter[T]) Name() string { return tf.name }

// Rows returns the row slice the filter was created with.
func (tf *TableFilter[T]) Rows() []T { return tf.rows }

// Columns returns the column filters in registration order.
func (tf *TableFilter[T]) Columns() []*ColumnFilter[T] {
	out := make([]*ColumnFilter[T], len(tf.columns))
	copy(out, tf.columns)
	return out
}

// Lookup returns the column filter with the given id.
func (tf *TableFilter[T]) Lookup(id string) (*ColumnFilter[T], bool) {
	i, ok := tf.index[id]
	if !ok {
		return nil, false
	}
	return tf.columns[i], true
}

// Column returns the column filter with the given id. It panics when the id
// was never registered, which is a binding error in the host.
func (tf *TableFilter[T]) Column(id string) *ColumnFilter[T] {
	return tf.columns[tf.mustIndex(id)]
}

func (tf *TableFilter[T]) mustIndex(id string) int {
	i, ok := tf.index[id]
	if !ok {
		panic(fmt.Sprintf("filter: unknown column id %q", id))
	}
	return i
}

// IsActiveFor reports whether the column excludes any value. It panics on an
// unknown id.
func (tf *TableFilter[T]) IsActiveFor(id string) bool {
	return tf.Column(id).IsActive()
}

// ActiveColumns returns the ids of active columns in registration order.
func (tf *TableFilter[T]) ActiveColumns() []string {
	var ids []string
	for _, col := range tf.columns {
		if col.IsActive() {
			ids = append(ids, col.id)
		}
	}
	return ids
}

// Evaluate reports whether the row passes every column filter.
func (tf *TableFilter[T]) Evaluate(row T) bool {
	tf.metrics.rowEvaluations(1)
	for _, col := range tf.columns {
		if !col.Evaluate(row) {
			return false
		}
	}
	return true
}

// VisibleIndices returns the indices of visible rows.
func (tf *TableFilter[T]) VisibleIndices() []int {
	indices := make([]int, 0, len(tf.rows))
	for i, row := range tf.rows {
		if tf.Evaluate(row) {
			indices = append(indices, i)
		}
	}
	return indices
}

// VisibleRows returns the visible rows in dataset order.
func (tf *TableFilter[T]) VisibleRows() []T {
	rows := make([]T, 0, len(tf.rows))
	for _, row := range tf.rows {
		if tf.Evaluate(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// ResetAll clears the search text and exclusion set of every column.
func (tf *TableFilter[T]) ResetAll() {
	for _, col := range tf.columns {
		col.reset()
	}
	tf.logger.Debug("Reset all column filters", zap.String("table", tf.name), zap.Int("columns", len(tf.columns)))
	tf.emitEvent(EventTableReset, nil)
}
