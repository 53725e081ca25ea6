package uow

import (
	"cmp"
	"slices"
)

// EventRecord is an event raised during a unit's lifetime and waiting to be
// published when the unit completes.
type EventRecord struct {
	EventType string
	Data      any

	// UseOutbox asks the distributed publisher to stage the record in the
	// durable outbox instead of sending it to the broker directly.
	UseOutbox bool

	Properties map[string]any

	order int64
}

// NewEventRecord creates a record with the given order, typically taken
// from an OrderGenerator at the time the event is raised.
func NewEventRecord(eventType string, data any, order int64, useOutbox bool) *EventRecord {
	return &EventRecord{
		EventType:  eventType,
		Data:       data,
		UseOutbox:  useOutbox,
		Properties: make(map[string]any),
		order:      order,
	}
}

// Order returns the record's position in the unit's total event order.
func (r *EventRecord) Order() int64 {
	return r.order
}

// ReplacePredicate selects an already queued record that a new record should
// replace.
type ReplacePredicate func(*EventRecord) bool

// pendingEvent is a record not yet materialized into its ordered queue.
type pendingEvent struct {
	record   *EventRecord
	replaces ReplacePredicate
}

// materialize appends pending records to queue in order. A record with a
// predicate replaces the first matching queued record in place and inherits
// its order, so a replacement never jumps ahead of the record it replaces.
func materialize(queue []*EventRecord, pending []pendingEvent) []*EventRecord {
	for _, p := range pending {
		if p.replaces != nil {
			if i := slices.IndexFunc(queue, func(r *EventRecord) bool { return p.replaces(r) }); i >= 0 {
				p.record.order = queue[i].order
				queue[i] = p.record
				continue
			}
		}
		queue = append(queue, p.record)
	}
	return queue
}

func sortByOrder(records []*EventRecord) {
	slices.SortStableFunc(records, func(a, b *EventRecord) int {
		return cmp.Compare(a.order, b.order)
	})
}
