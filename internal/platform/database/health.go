package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jsamuelsen11/go-uow/internal/platform/health"
)

// HealthChecker reports the database reachable when a ping succeeds.
func HealthChecker(db *sqlx.DB) health.Checker {
	return health.NewChecker("database", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
}
