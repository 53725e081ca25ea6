package ports

import (
	"context"

	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
)

// TodoRepository persists todos. Implementations enlist in the ambient unit
// of work; outside a unit they autocommit.
type TodoRepository interface {
	List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error)

	// Get returns domain.ErrNotFound if the todo does not exist.
	Get(ctx context.Context, id int64) (*todo.Todo, error)

	// Create stores t and sets its ID.
	Create(ctx context.Context, t *todo.Todo) error

	// Update returns domain.ErrNotFound if the todo does not exist.
	Update(ctx context.Context, t *todo.Todo) error

	// Delete returns domain.ErrNotFound if the todo does not exist.
	Delete(ctx context.Context, id int64) error
}

// ActivityRepository persists activity rows and counters.
type ActivityRepository interface {
	Add(ctx context.Context, a *activity.Activity) error
	ListByTodo(ctx context.Context, todoID int64) ([]activity.Activity, error)

	// Increment bumps the counter matching kind. Kinds without a counter are
	// ignored.
	Increment(ctx context.Context, kind activity.Kind) error
	Stats(ctx context.Context) (*activity.Stats, error)
}
