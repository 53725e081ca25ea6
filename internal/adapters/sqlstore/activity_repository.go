package sqlstore

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/platform/database"
	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Compile-time interface check.
var _ ports.ActivityRepository = (*ActivityRepository)(nil)

type activityRow struct {
	ID        int64  `db:"id"`
	TodoID    int64  `db:"todo_id"`
	Kind      string `db:"kind"`
	Detail    string `db:"detail"`
	UnitID    string `db:"unit_id"`
	CreatedAt int64  `db:"created_at"`
}

type statRow struct {
	Kind  string `db:"kind"`
	Count int64  `db:"count"`
}

// ActivityRepository stores activity rows and counters. Its writes are
// staged and land when the unit saves changes.
type ActivityRepository struct {
	provider *Provider
}

// NewActivityRepository returns a repository using provider's sessions.
func NewActivityRepository(provider *Provider) *ActivityRepository {
	return &ActivityRepository{provider: provider}
}

// Add implements [ports.ActivityRepository]. The row is staged, so a.ID is
// left unset. When a.UnitID is empty it is filled from the ambient unit.
func (r *ActivityRepository) Add(ctx context.Context, a *activity.Activity) error {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return err
	}

	if a.UnitID == "" && s.Unit() != nil {
		a.UnitID = s.Unit().ID().String()
	}

	return s.Stage(ctx, fmt.Sprintf("insert %s activity for todo %d", a.Kind, a.TodoID),
		`INSERT INTO activity (todo_id, kind, detail, unit_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.TodoID, string(a.Kind), a.Detail, a.UnitID, database.ToMillis(a.CreatedAt),
	)
}

// ListByTodo implements [ports.ActivityRepository].
func (r *ActivityRepository) ListByTodo(ctx context.Context, todoID int64) ([]activity.Activity, error) {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	var rows []activityRow
	err = s.Select(ctx, &rows,
		`SELECT id, todo_id, kind, detail, unit_id, created_at FROM activity WHERE todo_id = ? ORDER BY id`,
		todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing activity for todo %d: %w", todoID, err)
	}

	out := make([]activity.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, activity.Activity{
			ID:        row.ID,
			TodoID:    row.TodoID,
			Kind:      activity.Kind(row.Kind),
			Detail:    row.Detail,
			UnitID:    row.UnitID,
			CreatedAt: database.FromMillis(row.CreatedAt),
		})
	}
	return out, nil
}

// Increment implements [ports.ActivityRepository].
func (r *ActivityRepository) Increment(ctx context.Context, kind activity.Kind) error {
	switch kind {
	case activity.KindCreated, activity.KindCompleted, activity.KindDeleted:
	default:
		return nil
	}

	s, err := r.provider.Session(ctx)
	if err != nil {
		return err
	}

	return s.Stage(ctx, fmt.Sprintf("increment %s counter", kind),
		`INSERT INTO activity_stats (kind, count) VALUES (?, 1)
		 ON CONFLICT (kind) DO UPDATE SET count = activity_stats.count + 1`,
		string(kind),
	)
}

// Stats implements [ports.ActivityRepository].
func (r *ActivityRepository) Stats(ctx context.Context) (*activity.Stats, error) {
	s, err := r.provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	var rows []statRow
	if err := s.Select(ctx, &rows, `SELECT kind, count FROM activity_stats`); err != nil {
		return nil, fmt.Errorf("reading activity stats: %w", err)
	}

	stats := &activity.Stats{}
	for _, row := range rows {
		switch activity.Kind(row.Kind) {
		case activity.KindCreated:
			stats.Created = row.Count
		case activity.KindCompleted:
			stats.Completed = row.Count
		case activity.KindDeleted:
			stats.Deleted = row.Count
		}
	}
	return stats, nil
}
