package ports

import (
	"context"
	"errors"
)

// ErrDegraded marks a health check failure that leaves the service able to
// serve requests, such as a broker outage while the outbox buffers events.
var ErrDegraded = errors.New("degraded")

// HealthChecker is implemented by any component that can report its health.
// Examples: database connections, the outbox relay, the message broker.
type HealthChecker interface {
	// Name returns a human-readable identifier for this component
	// (e.g., "database", "outbox-relay", "redis").
	Name() string

	// HealthCheck performs the health check and returns nil if healthy,
	// or an error describing the failure.
	// Implementations should respect context cancellation and deadlines.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry manages registration and execution of health checkers.
// Used by the readiness endpoint handler to determine service readiness.
type HealthRegistry interface {
	// Register adds a HealthChecker to the registry.
	Register(checker HealthChecker)

	// CheckAll executes all registered health checks and returns results
	// keyed by checker name. Nil values indicate healthy components.
	CheckAll(ctx context.Context) map[string]error
}
