package ports

import (
	"context"

	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
)

// TodoService defines the service port for todo operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// Every mutating method joins the ambient unit of work, so its writes and
// events commit or roll back with the request.
type TodoService interface {
	// ListTodos returns todos matching the given filter criteria.
	ListTodos(ctx context.Context, filter todo.Filter) ([]todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id int64) (*todo.Todo, error)

	// CreateTodo validates and stores a new todo and raises todo.created.
	// Returns domain.ErrValidation if the todo fails validation.
	CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error)

	// UpdateTodo applies the non-zero fields of t to the stored todo and
	// raises todo.updated, replacing any todo.updated still pending for the
	// same todo in the unit.
	// Returns domain.ErrNotFound if the todo does not exist.
	UpdateTodo(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error)

	// CompleteTodo marks the todo done and raises todo.completed.
	// Returns domain.ErrConflict if the todo is already done.
	CompleteTodo(ctx context.Context, id int64) (*todo.Todo, error)

	// DeleteTodo deletes a todo by ID and raises todo.deleted.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id int64) error

	// ListActivity returns the recorded activity of a todo, oldest first.
	ListActivity(ctx context.Context, todoID int64) ([]activity.Activity, error)

	// Stats returns aggregated activity counters.
	Stats(ctx context.Context) (*activity.Stats, error)
}
