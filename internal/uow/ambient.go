package uow

import "context"

type currentKey struct{}

// WithCurrent returns a context carrying u as the ambient unit. Goroutines
// started with the returned context inherit it; the parent context keeps
// whatever unit it carried before.
func WithCurrent(ctx context.Context, u Unit) context.Context {
	return context.WithValue(ctx, currentKey{}, u)
}

// Current returns the raw ambient unit, which may be reserved, completed or
// disposed.
func Current(ctx context.Context) Unit {
	u, _ := ctx.Value(currentKey{}).(Unit)
	return u
}

// CurrentByChecking returns the nearest unit on the ambient outer chain that
// is not reserved, completed or disposed, or nil.
func CurrentByChecking(ctx context.Context) Unit {
	u := Current(ctx)
	for u != nil && (u.IsReserved() || u.IsDisposed() || u.IsCompleted()) {
		u = u.Outer()
	}
	return u
}
