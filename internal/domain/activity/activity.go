// Package activity records what happened to todos. Activity rows are written
// by event handlers inside the same unit of work as the change they describe.
package activity

import "time"

// Kind names the change an activity describes.
type Kind string

const (
	KindCreated   Kind = "created"
	KindUpdated   Kind = "updated"
	KindCompleted Kind = "completed"
	KindDeleted   Kind = "deleted"
)

// EventRecorded is raised locally after an activity row is staged.
const EventRecorded = "activity.recorded"

// Activity is a single recorded change to a todo.
type Activity struct {
	ID        int64
	TodoID    int64
	Kind      Kind
	Detail    string
	UnitID    string
	CreatedAt time.Time
}

// Stats aggregates activity across all todos.
type Stats struct {
	Created   int64
	Completed int64
	Deleted   int64
}
