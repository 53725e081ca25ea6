package uow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
)

// Manager begins physical units, joins nested callers to the ambient unit
// and resolves reservations.
type Manager struct {
	scopes ScopeFactory
}

// NewManager returns a Manager that obtains each physical unit from a fresh
// scope created by scopes.
func NewManager(scopes ScopeFactory) *Manager {
	return &Manager{scopes: scopes}
}

// Current returns the nearest usable ambient unit, or nil.
func (m *Manager) Current(ctx context.Context) Unit {
	return CurrentByChecking(ctx)
}

// Begin starts a unit. Without requiresNew, an existing usable ambient unit
// is joined through a Child and ctx is returned unchanged. Otherwise a new
// physical unit is created, initialized with opts and bound in the returned
// context.
//
// The caller owns the returned unit and must Dispose it, typically with
// defer. Dispose on a Child is a no-op, so the pattern is the same either
// way.
func (m *Manager) Begin(ctx context.Context, opts Options, requiresNew bool) (context.Context, Unit, error) {
	if current := CurrentByChecking(ctx); current != nil && !requiresNew {
		return ctx, NewChild(current), nil
	}

	ctx, u, err := m.createNew(ctx)
	if err != nil {
		return ctx, nil, err
	}
	if err := u.Initialize(opts); err != nil {
		u.Dispose(ctx)
		return ctx, nil, err
	}
	return ctx, u, nil
}

// Reserve starts a unit reserved under name. When the raw ambient unit is
// already reserved under the same name and requiresNew is false, it is
// joined through a Child instead.
func (m *Manager) Reserve(ctx context.Context, name string, requiresNew bool) (context.Context, Unit, error) {
	if ambient := Current(ctx); ambient != nil && !requiresNew && ambient.IsReservedFor(name) {
		return ctx, NewChild(ambient), nil
	}

	ctx, u, err := m.createNew(ctx)
	if err != nil {
		return ctx, nil, err
	}
	u.Reserve(name)
	return ctx, u, nil
}

// BeginReserved initializes the nearest unit on the ambient outer chain
// reserved under name. It returns ErrReservationNotFound when there is none.
func (m *Manager) BeginReserved(ctx context.Context, name string, opts Options) error {
	ok, err := m.TryBeginReserved(ctx, name, opts)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrReservationNotFound, name)
	}
	return nil
}

// TryBeginReserved is BeginReserved reporting a missing reservation as
// false instead of an error.
func (m *Manager) TryBeginReserved(ctx context.Context, name string, opts Options) (bool, error) {
	u := Current(ctx)
	for u != nil && !u.IsReservedFor(name) {
		u = u.Outer()
	}
	if u == nil {
		return false, nil
	}
	if err := u.Initialize(opts); err != nil {
		return false, err
	}
	return true, nil
}

// Run begins a unit, calls fn with it bound, completes it when fn succeeds
// and always disposes it. When the ambient unit is joined, completion is
// left to its owner.
func (m *Manager) Run(ctx context.Context, opts Options, requiresNew bool, fn func(ctx context.Context) error) error {
	ctx, u, err := m.Begin(ctx, opts, requiresNew)
	if err != nil {
		return err
	}
	defer u.Dispose(ctx)

	if err := fn(ctx); err != nil {
		return err
	}
	return u.Complete(ctx)
}

func (m *Manager) createNew(ctx context.Context) (context.Context, *UnitOfWork, error) {
	scope, err := m.scopes.CreateScope(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("creating resolution scope: %w", err)
	}

	u, err := scope.ResolveUnit()
	if err != nil {
		if derr := scope.Dispose(ctx); derr != nil {
			logging.FromContext(ctx).WarnContext(ctx, "failed to dispose resolution scope",
				slog.String("operation", "Begin"),
				slog.Any("error", derr),
			)
		}
		return ctx, nil, fmt.Errorf("resolving unit of work: %w", err)
	}

	u.SetOuter(Current(ctx))
	u.onReleased(func(ctx context.Context) {
		if err := scope.Dispose(ctx); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "failed to dispose resolution scope",
				slog.String("operation", "Dispose"),
				slog.String("uow_id", u.ID().String()),
				slog.Any("error", err),
			)
		}
	})

	ctx = WithCurrent(ctx, u)
	ctx = logging.WithUnit(ctx, u.ID())
	return ctx, u, nil
}
