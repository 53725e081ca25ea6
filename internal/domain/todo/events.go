package todo

import "time"

// Event types raised by the todo service.
const (
	EventCreated   = "todo.created"
	EventUpdated   = "todo.updated"
	EventCompleted = "todo.completed"
	EventDeleted   = "todo.deleted"
)

// Event is the payload of every todo event.
type Event struct {
	TodoID          int64     `json:"todo_id"`
	Title           string    `json:"title"`
	Status          Status    `json:"status"`
	ProgressPercent int       `json:"progress_percent"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// NewEvent snapshots t into an event payload.
func NewEvent(t *Todo, now time.Time) Event {
	return Event{
		TodoID:          t.ID,
		Title:           t.Title,
		Status:          t.Status,
		ProgressPercent: t.ProgressPercent,
		OccurredAt:      now,
	}
}
