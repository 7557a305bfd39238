package filter

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// FilterEventType names a kind of filter state change.
type FilterEventType string

const (
	EventValueToggled  FilterEventType = "value:toggled"
	EventSearchChanged FilterEventType = "search:changed"
	EventSearchApplied FilterEventType = "search:applied"
	EventSelectAll     FilterEventType = "select:all"
	EventSelectNone    FilterEventType = "select:none"
	EventColumnReset   FilterEventType = "column:reset"
	EventTableReset    FilterEventType = "table:reset"
)

// FilterEvent is published after every state change of a table filter. It
// carries a snapshot of the affected column; table-wide events leave the
// column fields empty.
type FilterEvent struct {
	ID        string          `json:"id"`
	Type      FilterEventType `json:"type"`
	Table     string          `json:"table,omitempty"`
	Column    string          `json:"column,omitempty"`
	Timestamp int64           `json:"timestamp"` // Unix milliseconds.
	Active    bool            `json:"active"`
	Excluded  int             `json:"excluded"`
	Search    string          `json:"search,omitempty"`
}

// EventCallback receives published filter events.
type EventCallback func(ctx context.Context, event FilterEvent) error

// SubscriptionInfo describes a registered subscription.
type SubscriptionInfo struct {
	ID          string          `json:"id"`
	Event       FilterEventType `json:"event"`
	Label       *string         `json:"label,omitempty"`
	Description *string         `json:"description,omitempty"`
	Unsubscribe func()          `json:"-"`
}

func createEvent[T any](eventType FilterEventType, table string, col *ColumnFilter[T]) FilterEvent {
	event := FilterEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Table:     table,
		Timestamp: time.Now().UnixMilli(),
	}
	if col != nil {
		event.Column = col.id
		event.Active = col.IsActive()
		event.Excluded = col.excluded.Len()
		event.Search = col.search
	}
	return event
}

func (tf *TableFilter[T]) emitEvent(eventType FilterEventType, col *ColumnFilter[T]) {
	if tf.bus != nil {
		tf.bus.Emit(string(eventType), createEvent(eventType, tf.name, col))
	}
}

// Subscribe registers a callback for one event type and returns the
// subscription id. Callbacks run on the caller's goroutine before the
// mutating call returns.
func (tf *TableFilter[T]) Subscribe(eventType FilterEventType, callback EventCallback) string {
	return tf.SubscribeWithLabel(eventType, "", callback)
}

// SubscribeWithLabel is Subscribe with a short label reported by
// Subscriptions.
func (tf *TableFilter[T]) SubscribeWithLabel(eventType FilterEventType, label string, callback EventCallback) string {
	tf.subMu.Lock()
	defer tf.subMu.Unlock()

	unsubscribe := tf.bus.Subscribe(string(eventType), callback)
	id := uuid.New().String()

	info := &SubscriptionInfo{
		ID:          id,
		Event:       eventType,
		Unsubscribe: unsubscribe,
	}
	if label != "" {
		info.Label = &label
	}
	tf.subscriptions[id] = info
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (tf *TableFilter[T]) Unsubscribe(id string) {
	tf.subMu.Lock()
	defer tf.subMu.Unlock()
	info := tf.subscriptions[id]
	if info != nil {
		info.Unsubscribe()
		delete(tf.subscriptions, id)
	}
}

// Subscriptions returns the registered subscriptions ordered by event type
// and id.
func (tf *TableFilter[T]) Subscriptions() []SubscriptionInfo {
	tf.subMu.RLock()
	defer tf.subMu.RUnlock()

	out := make([]SubscriptionInfo, 0, len(tf.subscriptions))
	for _, info := range tf.subscriptions {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Event != out[j].Event {
			return out[i].Event < out[j].Event
		}
		return out[i].ID < out[j].ID
	})
	return out
}
