package uow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Child joins an enclosing physical unit. Everything forwards to the parent
// except Complete and Dispose, which do nothing: the parent's owner decides
// when the physical unit completes.
type Child struct {
	parent Unit
}

// NewChild wraps parent.
func NewChild(parent Unit) *Child {
	return &Child{parent: parent}
}

// Parent returns the wrapped unit.
func (c *Child) Parent() Unit { return c.parent }

func (c *Child) String() string { return fmt.Sprintf("[ChildUnitOfWork %s]", c.parent.ID()) }

func (c *Child) ID() uuid.UUID       { return c.parent.ID() }
func (c *Child) Options() *Options   { return c.parent.Options() }
func (c *Child) Outer() Unit         { return c.parent.Outer() }
func (c *Child) SetOuter(outer Unit) { c.parent.SetOuter(outer) }
func (c *Child) Items() *Items       { return c.parent.Items() }
func (c *Child) IsReserved() bool    { return c.parent.IsReserved() }
func (c *Child) IsCompleted() bool   { return c.parent.IsCompleted() }
func (c *Child) IsDisposed() bool    { return c.parent.IsDisposed() }
func (c *Child) Reserve(name string) { c.parent.Reserve(name) }
func (c *Child) ReservationName() string {
	return c.parent.ReservationName()
}

func (c *Child) IsReservedFor(name string) bool { return c.parent.IsReservedFor(name) }

func (c *Child) Initialize(opts Options) error { return c.parent.Initialize(opts) }

func (c *Child) SaveChanges(ctx context.Context) error { return c.parent.SaveChanges(ctx) }

// Complete does nothing; the physical unit completes through its owner.
func (c *Child) Complete(context.Context) error { return nil }

func (c *Child) Rollback(ctx context.Context) { c.parent.Rollback(ctx) }

// Dispose does nothing; the physical unit is disposed by its owner.
func (c *Child) Dispose(context.Context) {}

func (c *Child) AddOrReplaceLocalEvent(record *EventRecord, replaces ReplacePredicate) {
	c.parent.AddOrReplaceLocalEvent(record, replaces)
}

func (c *Child) AddOrReplaceDistributedEvent(record *EventRecord, replaces ReplacePredicate) {
	c.parent.AddOrReplaceDistributedEvent(record, replaces)
}

func (c *Child) OnCompleted(fn func(ctx context.Context) error) { c.parent.OnCompleted(fn) }

func (c *Child) OnFailed(fn func(ctx context.Context, event FailedEvent)) { c.parent.OnFailed(fn) }

func (c *Child) OnDisposed(fn func(ctx context.Context, u Unit)) { c.parent.OnDisposed(fn) }

func (c *Child) FindDatabaseAPI(key string) (DatabaseAPI, bool) {
	return c.parent.FindDatabaseAPI(key)
}

func (c *Child) AddDatabaseAPI(key string, api DatabaseAPI) error {
	return c.parent.AddDatabaseAPI(key, api)
}

func (c *Child) GetOrAddDatabaseAPI(ctx context.Context, key string, factory func(context.Context) (DatabaseAPI, error)) (DatabaseAPI, error) {
	return c.parent.GetOrAddDatabaseAPI(ctx, key, factory)
}

func (c *Child) FindTransactionAPI(key string) (TransactionAPI, bool) {
	return c.parent.FindTransactionAPI(key)
}

func (c *Child) AddTransactionAPI(key string, api TransactionAPI) error {
	return c.parent.AddTransactionAPI(key, api)
}

func (c *Child) GetOrAddTransactionAPI(ctx context.Context, key string, factory func(context.Context) (TransactionAPI, error)) (TransactionAPI, error) {
	return c.parent.GetOrAddTransactionAPI(ctx, key, factory)
}
