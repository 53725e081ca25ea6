package uow

import "context"

// EventPublisher delivers the event records drained from a unit. Both
// methods are called with the completing unit bound as ambient, so handlers
// may enlist in it and raise further events.
type EventPublisher interface {
	PublishLocalEvents(ctx context.Context, records []*EventRecord) error
	PublishDistributedEvents(ctx context.Context, records []*EventRecord) error
}

// DatabaseAPI is an opaque data-access handle registered in a unit. It may
// implement SupportsSavingChanges and SupportsRollback.
type DatabaseAPI any

// SupportsSavingChanges is implemented by handles that buffer writes until
// the unit saves changes.
type SupportsSavingChanges interface {
	SaveChanges(ctx context.Context) error
}

// SupportsRollback is implemented by handles that can discard their work.
type SupportsRollback interface {
	Rollback(ctx context.Context) error
}

// TransactionAPI is a transaction handle registered in a unit. It may also
// implement SupportsRollback.
type TransactionAPI interface {
	Commit(ctx context.Context) error

	// Dispose releases the handle. It is called exactly once per handle when
	// the unit is disposed, whether or not it was committed.
	Dispose(ctx context.Context) error
}

// ResolutionScope is the dependency-resolution scope that owns one physical
// unit and everything resolved alongside it.
type ResolutionScope interface {
	ResolveUnit() (*UnitOfWork, error)
	Dispose(ctx context.Context) error
}

// ScopeFactory opens a fresh ResolutionScope per physical unit.
type ScopeFactory interface {
	CreateScope(ctx context.Context) (ResolutionScope, error)
}

// ScopeFactoryFunc adapts a function to ScopeFactory.
type ScopeFactoryFunc func(ctx context.Context) (ResolutionScope, error)

// CreateScope calls f(ctx).
func (f ScopeFactoryFunc) CreateScope(ctx context.Context) (ResolutionScope, error) {
	return f(ctx)
}

// NewScopeFactory returns a ScopeFactory whose scopes hold a single unit
// built by newUnit and release nothing on dispose. It suits tests and
// programs without a dependency container.
func NewScopeFactory(newUnit func() *UnitOfWork) ScopeFactory {
	return ScopeFactoryFunc(func(context.Context) (ResolutionScope, error) {
		return unitScope{unit: newUnit()}, nil
	})
}

type unitScope struct {
	unit *UnitOfWork
}

func (s unitScope) ResolveUnit() (*UnitOfWork, error) { return s.unit, nil }

func (unitScope) Dispose(context.Context) error { return nil }
