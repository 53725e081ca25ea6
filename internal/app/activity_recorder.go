package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
	"github.com/jsamuelsen11/go-uow/internal/eventbus"
	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/ports"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// kindByEvent maps todo events to the activity kind they record.
var kindByEvent = map[string]activity.Kind{
	todo.EventCreated:   activity.KindCreated,
	todo.EventUpdated:   activity.KindUpdated,
	todo.EventCompleted: activity.KindCompleted,
	todo.EventDeleted:   activity.KindDeleted,
}

// ActivityRecorder writes an activity row for every todo event and keeps
// the activity counters. Both handlers run inside the unit that raised the
// event: the row is written on the first drain pass and the counter on the
// pass after, from the activity.recorded event the row raises.
type ActivityRecorder struct {
	repo   ports.ActivityRepository
	events EventRaiser
	now    func() time.Time
}

// NewActivityRecorder creates an ActivityRecorder.
func NewActivityRecorder(repo ports.ActivityRepository, events EventRaiser) *ActivityRecorder {
	return &ActivityRecorder{repo: repo, events: events, now: time.Now}
}

// Register subscribes the recorder's handlers on bus.
func (r *ActivityRecorder) Register(bus *eventbus.LocalBus) {
	for eventType := range kindByEvent {
		bus.Subscribe(eventType, r.record)
	}
	bus.Subscribe(activity.EventRecorded, r.count)
}

func (r *ActivityRecorder) record(ctx context.Context, rec *uow.EventRecord) error {
	ev, ok := rec.Data.(todo.Event)
	if !ok {
		return fmt.Errorf("recording activity: %s carries %T, want todo.Event", rec.EventType, rec.Data)
	}

	a := &activity.Activity{
		TodoID:    ev.TodoID,
		Kind:      kindByEvent[rec.EventType],
		Detail:    fmt.Sprintf("%s (%s, %d%%)", ev.Title, ev.Status, ev.ProgressPercent),
		CreatedAt: r.now().UTC(),
	}
	if err := r.repo.Add(ctx, a); err != nil {
		return err
	}

	logging.FromContext(ctx).DebugContext(ctx, "recorded activity",
		slog.Int64("todo_id", a.TodoID),
		slog.String("kind", string(a.Kind)),
	)
	return r.events.PublishLocal(ctx, activity.EventRecorded, *a)
}

func (r *ActivityRecorder) count(ctx context.Context, rec *uow.EventRecord) error {
	a, ok := rec.Data.(activity.Activity)
	if !ok {
		return fmt.Errorf("counting activity: %s carries %T, want activity.Activity", rec.EventType, rec.Data)
	}
	return r.repo.Increment(ctx, a.Kind)
}
