// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
	"github.com/jsamuelsen11/go-uow/internal/eventbus"
	"github.com/jsamuelsen11/go-uow/internal/ports"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// EventRaiser raises events on the ambient unit of work. Implemented by
// *eventbus.Publisher.
type EventRaiser interface {
	PublishLocal(ctx context.Context, eventType string, data any, opts ...eventbus.EventOption) error
	PublishDistributed(ctx context.Context, eventType string, data any, opts ...eventbus.EventOption) error
}

// TodoService implements ports.TodoService. Every mutation runs in a unit of
// work, joining the caller's unit when there is one, so the todo row, its
// activity and its outbox records commit together.
type TodoService struct {
	todos    ports.TodoRepository
	activity ports.ActivityRepository
	units    *uow.Manager
	events   EventRaiser
	logger   *slog.Logger
	now      func() time.Time
}

// TodoServiceOption configures a TodoService.
type TodoServiceOption func(*TodoService)

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) TodoServiceOption {
	return func(s *TodoService) { s.now = now }
}

// NewTodoService creates a TodoService. A nil logger discards output.
func NewTodoService(
	todos ports.TodoRepository,
	activity ports.ActivityRepository,
	units *uow.Manager,
	events EventRaiser,
	logger *slog.Logger,
	opts ...TodoServiceOption,
) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &TodoService{
		todos:    todos,
		activity: activity,
		units:    units,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTodos returns todos matching filter.
func (s *TodoService) ListTodos(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing todos")

	todos, err := s.todos.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list todos",
			slog.String("operation", "ListTodos"),
			slog.Any("error", err),
		)
		return nil, err
	}
	return todos, nil
}

// GetTodo returns a single todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "fetching todo", slog.Int64("id", id))

	td, err := s.todos.Get(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch todo",
			slog.String("operation", "GetTodo"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return td, nil
}

// CreateTodo validates and stores t, raising todo.created locally and
// through the outbox.
func (s *TodoService) CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "creating todo", slog.String("title", t.Title))

	if t.Status == "" {
		t.Status = todo.StatusPending
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	created := *t
	err := s.run(ctx, "CreateTodo", func(ctx context.Context) error {
		now := s.now().UTC()
		created.CreatedAt = now
		created.UpdatedAt = now
		if err := s.todos.Create(ctx, &created); err != nil {
			return err
		}
		return s.raise(ctx, todo.EventCreated, todo.NewEvent(&created, now))
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTodo applies the non-zero fields of patch to the stored todo. A
// todo.updated event still pending for the same todo in the unit is
// replaced, so only the latest state is published. A patch that moves the
// todo into done raises todo.completed instead.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, patch *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "updating todo", slog.Int64("id", id))

	var updated *todo.Todo
	err := s.run(ctx, "UpdateTodo", func(ctx context.Context) error {
		td, err := s.todos.Get(ctx, id)
		if err != nil {
			return err
		}

		next := *td
		next.Apply(patch)
		if err := next.Validate(); err != nil {
			return err
		}
		next.UpdatedAt = s.now().UTC()

		if err := s.todos.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		eventType := td.Status.ChangeEvent(next.Status)
		if eventType == todo.EventCompleted {
			return s.raise(ctx, eventType, todo.NewEvent(&next, next.UpdatedAt))
		}
		return s.raise(ctx, eventType, todo.NewEvent(&next, next.UpdatedAt),
			eventbus.Replacing(pendingUpdateOf(id)))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteTodo marks the todo done and raises todo.completed.
func (s *TodoService) CompleteTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "completing todo", slog.Int64("id", id))

	var completed *todo.Todo
	err := s.run(ctx, "CompleteTodo", func(ctx context.Context) error {
		td, err := s.todos.Get(ctx, id)
		if err != nil {
			return err
		}

		next := *td
		if err := next.Complete(s.now().UTC()); err != nil {
			return err
		}
		if err := s.todos.Update(ctx, &next); err != nil {
			return err
		}
		completed = &next
		return s.raise(ctx, todo.EventCompleted, todo.NewEvent(&next, next.UpdatedAt))
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// DeleteTodo deletes a todo and raises todo.deleted.
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	s.logger.InfoContext(ctx, "deleting todo", slog.Int64("id", id))

	return s.run(ctx, "DeleteTodo", func(ctx context.Context) error {
		td, err := s.todos.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.todos.Delete(ctx, id); err != nil {
			return err
		}
		return s.raise(ctx, todo.EventDeleted, todo.NewEvent(td, s.now().UTC()))
	})
}

// ListActivity returns the recorded activity of a todo, oldest first.
func (s *TodoService) ListActivity(ctx context.Context, todoID int64) ([]activity.Activity, error) {
	if _, err := s.todos.Get(ctx, todoID); err != nil {
		return nil, err
	}
	return s.activity.ListByTodo(ctx, todoID)
}

// Stats returns aggregated activity counters.
func (s *TodoService) Stats(ctx context.Context) (*activity.Stats, error) {
	return s.activity.Stats(ctx)
}

// run executes fn in a transactional unit, joining the ambient one if any.
func (s *TodoService) run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	err := s.units.Run(ctx, uow.Options{IsTransactional: true}, false, fn)
	if err != nil {
		s.logger.ErrorContext(ctx, "todo operation failed",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
	}
	return err
}

// raise queues ev for local handlers and for the outbox.
func (s *TodoService) raise(ctx context.Context, eventType string, ev todo.Event, opts ...eventbus.EventOption) error {
	if err := s.events.PublishLocal(ctx, eventType, ev, opts...); err != nil {
		return err
	}
	return s.events.PublishDistributed(ctx, eventType, ev, append(opts, eventbus.ViaOutbox())...)
}

// pendingUpdateOf matches a queued todo.updated event for the todo id.
func pendingUpdateOf(id int64) uow.ReplacePredicate {
	return func(r *uow.EventRecord) bool {
		if r.EventType != todo.EventUpdated {
			return false
		}
		ev, ok := r.Data.(todo.Event)
		return ok && ev.TodoID == id
	}
}
