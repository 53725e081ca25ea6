package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Compile-time interface checks.
var (
	_ uow.SupportsSavingChanges = (*Session)(nil)
	_ uow.SupportsRollback      = (*Session)(nil)
)

// stagedWrite is a statement deferred until the unit saves changes.
type stagedWrite struct {
	description string
	query       string
	args        []any
}

// Session runs statements for one unit of work. Reads and immediate writes
// go straight to the executor; staged writes are buffered and flushed by
// SaveChanges in the order they were staged.
type Session struct {
	exec sqlx.ExtContext
	unit uow.Unit

	mu     sync.Mutex
	staged []stagedWrite
}

func newSession(exec sqlx.ExtContext, unit uow.Unit) *Session {
	return &Session{exec: exec, unit: unit}
}

// Unit returns the unit the session is enlisted in, or nil for an
// autocommit session.
func (s *Session) Unit() uow.Unit {
	return s.unit
}

// Exec runs a write immediately. Queries use ? placeholders and are rebound
// for the driver.
func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.exec.ExecContext(ctx, s.exec.Rebind(query), args...)
}

// Get scans a single row into dest.
func (s *Session) Get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, s.exec, dest, s.exec.Rebind(query), args...)
}

// Select scans all rows into dest.
func (s *Session) Select(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.exec, dest, s.exec.Rebind(query), args...)
}

// Stage defers a write until the unit saves changes. An autocommit session
// runs it immediately.
func (s *Session) Stage(ctx context.Context, description, query string, args ...any) error {
	if s.unit == nil {
		if _, err := s.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("executing %s: %w", description, err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, stagedWrite{description: description, query: query, args: args})
	return nil
}

// Pending returns the number of staged writes not yet flushed.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

// SaveChanges implements [uow.SupportsSavingChanges]. Staged writes run in
// order; the first failure stops the flush and discards the rest, leaving
// the unit's transaction to roll back what already ran.
func (s *Session) SaveChanges(ctx context.Context) error {
	s.mu.Lock()
	staged := s.staged
	s.staged = nil
	s.mu.Unlock()

	if len(staged) == 0 {
		return nil
	}

	logger := logging.FromContext(ctx)
	for i, w := range staged {
		logger.DebugContext(ctx, "flushing staged write",
			slog.String("operation", "Session.SaveChanges"),
			slog.Int("step", i+1),
			slog.Int("total", len(staged)),
			slog.String("write", w.description),
		)

		if _, err := s.Exec(ctx, w.query, w.args...); err != nil {
			logger.ErrorContext(ctx, "staged write failed",
				slog.String("operation", "Session.SaveChanges"),
				slog.Int("failed_step", i+1),
				slog.String("write", w.description),
				slog.Any("error", err),
			)
			return fmt.Errorf("executing %s: %w", w.description, err)
		}
	}
	return nil
}

// Rollback implements [uow.SupportsRollback] by discarding staged writes.
func (s *Session) Rollback(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
	return nil
}

// GetOrFetch returns the value cached under key in the session's unit,
// calling fetch on a miss. An autocommit session always fetches.
func GetOrFetch[T any](ctx context.Context, s *Session, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.unit == nil {
		return fetch(ctx)
	}
	return uow.GetOrFetchItem(ctx, s.unit, key, fetch)
}

// Forget drops the value cached under key.
func (s *Session) Forget(key string) {
	if s.unit != nil {
		s.unit.Items().Delete(key)
	}
}
