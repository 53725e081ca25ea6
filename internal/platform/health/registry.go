// Package health provides a thread-safe health check registry for the
// dependencies a unit of work touches (database, outbox relay, broker). The
// registry is used by the readiness endpoint to determine whether the service
// can accept traffic.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.HealthRegistry = (*Registry)(nil)
	_ ports.HealthChecker  = Checker{}
)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Components that implement [ports.HealthChecker] are registered at startup
// and checked concurrently on each readiness check.
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
	timeout  time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout bounds each individual check. Zero means no bound beyond
// the caller's context.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.timeout = d
	}
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll executes all registered health checks and returns results keyed by
// checker name. Nil values indicate healthy components. When two checkers share
// a name, the one registered last wins.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	errs := make([]error, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.check(ctx, c)
		}()
	}
	wg.Wait()

	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = errs[i]
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return c.HealthCheck(ctx)
}

// Checker adapts a name and a check function to [ports.HealthChecker].
type Checker struct {
	name  string
	check func(ctx context.Context) error
}

// NewChecker returns a checker reporting under name.
func NewChecker(name string, check func(ctx context.Context) error) Checker {
	return Checker{name: name, check: check}
}

// Name implements [ports.HealthChecker].
func (c Checker) Name() string { return c.name }

// HealthCheck implements [ports.HealthChecker].
func (c Checker) HealthCheck(ctx context.Context) error { return c.check(ctx) }

// Degraded wraps c so that its failures wrap [ports.ErrDegraded]. Readiness
// stays up while only degraded checks fail.
func Degraded(c ports.HealthChecker) ports.HealthChecker {
	return NewChecker(c.Name(), func(ctx context.Context) error {
		if err := c.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%w: %w", ports.ErrDegraded, err)
		}
		return nil
	})
}
