// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
	"github.com/jsamuelsen11/go-uow/internal/platform/database"
)

// Config returns a SQLite configuration backed by a file in a fresh temp dir.
func Config(t testing.TB) config.DatabaseConfig {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	return config.DatabaseConfig{
		Name:         "main",
		Driver:       database.DriverSQLite,
		DSN:          "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		Migrate:      true,
	}
}

// Open returns a migrated SQLite database closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := Config(t)
	if err := database.Migrate(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
