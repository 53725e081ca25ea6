package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jsamuelsen11/go-uow/internal/domain"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
	"github.com/jsamuelsen11/go-uow/internal/platform/database"
	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Compile-time interface check.
var _ ports.TodoRepository = (*TodoRepository)(nil)

const todoColumns = `id, title, description, status, category, progress_percent, created_at, updated_at`

type todoRow struct {
	ID              int64  `db:"id"`
	Title           string `db:"title"`
	Description     string `db:"description"`
	Status          string `db:"status"`
	Category        string `db:"category"`
	ProgressPercent int    `db:"progress_percent"`
	CreatedAt       int64  `db:"created_at"`
	UpdatedAt       int64  `db:"updated_at"`
}

func (r todoRow) toDomain() todo.Todo {
	return todo.Todo{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Status:          todo.Status(r.Status),
		Category:        todo.Category(r.Category),
		ProgressPercent: r.ProgressPercent,
		CreatedAt:       database.FromMillis(r.CreatedAt),
		UpdatedAt:       database.FromMillis(r.UpdatedAt),
	}
}

// TodoRepository stores todos in the todos table. Reads by ID are cached in
// the ambient unit until the todo is written again.
type TodoRepository struct {
	provider *Provider
}

// NewTodoRepository returns a repository using provider's sessions.
func NewTodoRepository(provider *Provider) *TodoRepository {
	return &TodoRepository{provider: provider}
}

// List implements [ports.TodoRepository].
func (r *TodoRepository) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}

	query := `SELECT ` + todoColumns + ` FROM todos`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	var rows []todoRow
	if err := s.Select(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	todos := make([]todo.Todo, 0, len(rows))
	for _, row := range rows {
		todos = append(todos, row.toDomain())
	}
	return todos, nil
}

// Get implements [ports.TodoRepository].
func (r *TodoRepository) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) (todo.Todo, error) {
		var row todoRow
		err := s.Get(ctx, &row, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return todo.Todo{}, fmt.Errorf("getting todo %d: %w", id, err)
		}
		return row.toDomain(), nil
	}

	t, err := GetOrFetch(ctx, s, todoItemKey(id), fetch)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create implements [ports.TodoRepository].
func (r *TodoRepository) Create(ctx context.Context, t *todo.Todo) error {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return err
	}

	var id int64
	err = s.Get(ctx, &id,
		`INSERT INTO todos (title, description, status, category, progress_percent, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		t.Title, t.Description, string(t.Status), string(t.Category), t.ProgressPercent,
		database.ToMillis(t.CreatedAt), database.ToMillis(t.UpdatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("creating todo: %w", domain.ErrConflict)
		}
		return fmt.Errorf("creating todo: %w", err)
	}
	t.ID = id
	return nil
}

// Update implements [ports.TodoRepository].
func (r *TodoRepository) Update(ctx context.Context, t *todo.Todo) error {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return err
	}

	res, err := s.Exec(ctx,
		`UPDATE todos
		    SET title = ?, description = ?, status = ?, category = ?, progress_percent = ?, updated_at = ?
		  WHERE id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Category), t.ProgressPercent,
		database.ToMillis(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %d: %w", t.ID, err)
	}
	s.Forget(todoItemKey(t.ID))
	return requireRow(res, t.ID)
}

// Delete implements [ports.TodoRepository].
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return err
	}

	res, err := s.Exec(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	s.Forget(todoItemKey(id))
	return requireRow(res, id)
}

func todoItemKey(id int64) string {
	return fmt.Sprintf("sqlstore.todo:%d", id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
