package uow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/platform/telemetry"
)

// Unit is the surface shared by a physical unit of work and a Child wrapper
// that joins an enclosing physical unit.
type Unit interface {
	ID() uuid.UUID
	Options() *Options
	Outer() Unit
	SetOuter(outer Unit)
	Items() *Items

	IsReserved() bool
	ReservationName() string
	IsReservedFor(name string) bool
	IsCompleted() bool
	IsDisposed() bool

	Initialize(opts Options) error
	Reserve(name string)

	SaveChanges(ctx context.Context) error
	Complete(ctx context.Context) error
	Rollback(ctx context.Context)
	Dispose(ctx context.Context)

	AddOrReplaceLocalEvent(record *EventRecord, replaces ReplacePredicate)
	AddOrReplaceDistributedEvent(record *EventRecord, replaces ReplacePredicate)

	OnCompleted(fn func(ctx context.Context) error)
	OnFailed(fn func(ctx context.Context, event FailedEvent))
	OnDisposed(fn func(ctx context.Context, u Unit))

	FindDatabaseAPI(key string) (DatabaseAPI, bool)
	AddDatabaseAPI(key string, api DatabaseAPI) error
	GetOrAddDatabaseAPI(ctx context.Context, key string, factory func(context.Context) (DatabaseAPI, error)) (DatabaseAPI, error)
	FindTransactionAPI(key string) (TransactionAPI, bool)
	AddTransactionAPI(key string, api TransactionAPI) error
	GetOrAddTransactionAPI(ctx context.Context, key string, factory func(context.Context) (TransactionAPI, error)) (TransactionAPI, error)
}

// FailedEvent describes a unit disposed without a clean completion.
type FailedEvent struct {
	Unit Unit

	// Err is the error captured by Complete, nil when Complete never ran or
	// never failed.
	Err error

	RolledBack bool
}

// Compile-time interface checks.
var (
	_ Unit = (*UnitOfWork)(nil)
	_ Unit = (*Child)(nil)
)

// UnitOfWork is a physical unit of work. Create it with New; a unit is
// single-use.
type UnitOfWork struct {
	id        uuid.UUID
	defaults  Defaults
	publisher EventPublisher
	orders    *OrderGenerator
	drain     DrainPolicy
	items     *Items
	metrics   *telemetry.Metrics

	databases    *registry[DatabaseAPI]
	transactions *registry[TransactionAPI]

	mu              sync.Mutex
	options         *Options
	outer           Unit
	reserved        bool
	reservationName string
	completing      bool
	completed       bool
	rolledBack      bool
	disposed        bool
	err             error

	localEvents        []*EventRecord
	distributedEvents  []*EventRecord
	pendingLocal       []pendingEvent
	pendingDistributed []pendingEvent

	completedHandlers []func(context.Context) error
	failedHandlers    []func(context.Context, FailedEvent)
	disposedHandlers  []func(context.Context, Unit)
	releaseHandlers   []func(context.Context)
}

// UnitOption configures a UnitOfWork.
type UnitOption func(*UnitOfWork)

// WithDefaults sets the defaults used to normalize options on Initialize.
func WithDefaults(d Defaults) UnitOption {
	return func(u *UnitOfWork) { u.defaults = d }
}

// WithOrderGenerator sets the generator used by NextOrder.
func WithOrderGenerator(g *OrderGenerator) UnitOption {
	return func(u *UnitOfWork) { u.orders = g }
}

// WithDrainPolicy selects which event channel is published first on each
// drain pass.
func WithDrainPolicy(p DrainPolicy) UnitOption {
	return func(u *UnitOfWork) {
		if p.IsValid() {
			u.drain = p
		}
	}
}

// WithMetrics records completion and publication metrics. A nil value
// records nothing.
func WithMetrics(m *telemetry.Metrics) UnitOption {
	return func(u *UnitOfWork) { u.metrics = m }
}

// New creates an uninitialized physical unit publishing its events through
// publisher.
func New(publisher EventPublisher, opts ...UnitOption) *UnitOfWork {
	u := &UnitOfWork{
		id:           uuid.New(),
		publisher:    publisher,
		orders:       &defaultOrders,
		drain:        DrainLocalFirst,
		items:        newItems(),
		databases:    newRegistry[DatabaseAPI]("database api"),
		transactions: newRegistry[TransactionAPI]("transaction api"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ID returns the unit's unique id.
func (u *UnitOfWork) ID() uuid.UUID { return u.id }

// String implements fmt.Stringer.
func (u *UnitOfWork) String() string { return fmt.Sprintf("[UnitOfWork %s]", u.id) }

// Items returns the unit's item bag.
func (u *UnitOfWork) Items() *Items { return u.items }

// NextOrder returns the next event order from the unit's generator.
func (u *UnitOfWork) NextOrder() int64 { return u.orders.Next() }

// Options returns a copy of the unit's options, or nil before Initialize.
func (u *UnitOfWork) Options() *Options {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.options == nil {
		return nil
	}
	opts := *u.options
	return &opts
}

// Outer returns the unit that was ambient when this one began.
func (u *UnitOfWork) Outer() Unit {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.outer
}

// SetOuter links the unit to the unit that was ambient when it began.
func (u *UnitOfWork) SetOuter(outer Unit) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.outer = outer
}

func (u *UnitOfWork) IsReserved() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reserved
}

func (u *UnitOfWork) ReservationName() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reservationName
}

// IsReservedFor reports whether the unit is reserved under name.
func (u *UnitOfWork) IsReservedFor(name string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reserved && u.reservationName == name
}

func (u *UnitOfWork) IsCompleted() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.completed
}

func (u *UnitOfWork) IsDisposed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.disposed
}

// Initialize sets the unit's options and clears any reservation.
func (u *UnitOfWork) Initialize(opts Options) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.options != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, u)
	}
	normalized := u.defaults.Normalize(opts)
	u.options = &normalized
	u.reserved = false
	u.reservationName = ""
	return nil
}

// Reserve marks the unit as reserved under name until it is initialized.
func (u *UnitOfWork) Reserve(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.reserved = true
	u.reservationName = name
}

// AddOrReplaceLocalEvent queues record for in-process publication. When
// replaces matches an already queued record at completion time, record
// takes its place and its order.
func (u *UnitOfWork) AddOrReplaceLocalEvent(record *EventRecord, replaces ReplacePredicate) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pendingLocal = append(u.pendingLocal, pendingEvent{record: record, replaces: replaces})
}

// AddOrReplaceDistributedEvent is AddOrReplaceLocalEvent for the distributed
// channel.
func (u *UnitOfWork) AddOrReplaceDistributedEvent(record *EventRecord, replaces ReplacePredicate) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pendingDistributed = append(u.pendingDistributed, pendingEvent{record: record, replaces: replaces})
}

// OnCompleted registers a callback run after all transactions committed.
// Callbacks run sequentially in registration order; the first error stops
// the rest and is returned by Complete.
func (u *UnitOfWork) OnCompleted(fn func(ctx context.Context) error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.completedHandlers = append(u.completedHandlers, fn)
}

// OnFailed registers a handler raised on Dispose when the unit did not
// complete cleanly.
func (u *UnitOfWork) OnFailed(fn func(ctx context.Context, event FailedEvent)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failedHandlers = append(u.failedHandlers, fn)
}

// OnDisposed registers a handler raised last on Dispose.
func (u *UnitOfWork) OnDisposed(fn func(ctx context.Context, u Unit)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.disposedHandlers = append(u.disposedHandlers, fn)
}

// onReleased registers cleanup that runs after every disposed handler, for
// the owner of the unit's resolution scope.
func (u *UnitOfWork) onReleased(fn func(ctx context.Context)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.releaseHandlers = append(u.releaseHandlers, fn)
}

func (u *UnitOfWork) FindDatabaseAPI(key string) (DatabaseAPI, bool) {
	return u.databases.find(key)
}

func (u *UnitOfWork) AddDatabaseAPI(key string, api DatabaseAPI) error {
	return u.databases.add(key, api)
}

// GetOrAddDatabaseAPI returns the handle registered under key, creating it
// with factory on first use. Concurrent callers share one factory call.
func (u *UnitOfWork) GetOrAddDatabaseAPI(ctx context.Context, key string, factory func(context.Context) (DatabaseAPI, error)) (DatabaseAPI, error) {
	return u.databases.getOrAdd(ctx, key, factory)
}

func (u *UnitOfWork) FindTransactionAPI(key string) (TransactionAPI, bool) {
	return u.transactions.find(key)
}

func (u *UnitOfWork) AddTransactionAPI(key string, api TransactionAPI) error {
	return u.transactions.add(key, api)
}

// GetOrAddTransactionAPI returns the handle registered under key, creating
// it with factory on first use. Concurrent callers share one factory call.
func (u *UnitOfWork) GetOrAddTransactionAPI(ctx context.Context, key string, factory func(context.Context) (TransactionAPI, error)) (TransactionAPI, error) {
	return u.transactions.getOrAdd(ctx, key, factory)
}

// SaveChanges asks every data-access handle that buffers writes to flush
// them, in registration order. It is a no-op after Rollback.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	u.mu.Lock()
	rolledBack := u.rolledBack
	u.mu.Unlock()
	if rolledBack {
		return nil
	}

	for _, api := range u.databases.all() {
		saver, ok := api.(SupportsSavingChanges)
		if !ok {
			continue
		}
		if err := saver.SaveChanges(ctx); err != nil {
			return fmt.Errorf("saving changes: %w", err)
		}
	}
	return nil
}

// Rollback discards the unit's work. Only the first call has an effect, and
// a completed unit cannot be rolled back. Handle failures are logged.
func (u *UnitOfWork) Rollback(ctx context.Context) {
	u.mu.Lock()
	if u.rolledBack || u.completed {
		u.mu.Unlock()
		return
	}
	u.rolledBack = true
	u.mu.Unlock()

	logger := logging.FromContext(ctx)

	for _, api := range u.databases.all() {
		rb, ok := api.(SupportsRollback)
		if !ok {
			continue
		}
		if err := rb.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "database api rollback failed",
				slog.String("operation", "Rollback"),
				slog.String("uow_id", u.id.String()),
				slog.Any("error", err),
			)
		}
	}

	for _, tx := range u.transactions.all() {
		rb, ok := tx.(SupportsRollback)
		if !ok {
			continue
		}
		if err := rb.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "transaction rollback failed",
				slog.String("operation", "Rollback"),
				slog.String("uow_id", u.id.String()),
				slog.Any("error", err),
			)
		}
	}
}

// Dispose ends the unit's lifetime. It never fails: transaction handles are
// disposed with their errors logged, the failed notification is raised when
// the unit did not complete or completion captured an error, and the disposed
// notification is raised last. Only the first call has an effect.
func (u *UnitOfWork) Dispose(ctx context.Context) {
	u.mu.Lock()
	if u.disposed {
		u.mu.Unlock()
		return
	}
	u.disposed = true
	failed := !u.completed || u.err != nil
	event := FailedEvent{Unit: u, Err: u.err, RolledBack: u.rolledBack}
	failedHandlers := slices.Clone(u.failedHandlers)
	disposedHandlers := slices.Clone(u.disposedHandlers)
	releaseHandlers := slices.Clone(u.releaseHandlers)
	u.mu.Unlock()

	logger := logging.FromContext(ctx)

	for _, tx := range u.transactions.all() {
		if err := tx.Dispose(ctx); err != nil {
			logger.WarnContext(ctx, "transaction dispose failed",
				slog.String("operation", "Dispose"),
				slog.String("uow_id", u.id.String()),
				slog.Any("error", err),
			)
		}
	}

	u.recordOutcome(ctx, failed)

	if failed {
		for _, h := range failedHandlers {
			u.notify(ctx, "OnFailed", func() { h(ctx, event) })
		}
	}
	for _, h := range disposedHandlers {
		u.notify(ctx, "OnDisposed", func() { h(ctx, u) })
	}
	for _, h := range releaseHandlers {
		u.notify(ctx, "release", func() { h(ctx) })
	}

	u.items.clear()
}

func (u *UnitOfWork) recordOutcome(ctx context.Context, failed bool) {
	if u.metrics == nil {
		return
	}
	if failed {
		u.metrics.UnitFailedTotal.Add(ctx, 1)
		return
	}
	u.metrics.UnitCompletedTotal.Add(ctx, 1)
}

// notify runs a notification handler, logging a panic instead of letting it
// escape Dispose.
func (u *UnitOfWork) notify(ctx context.Context, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "unit of work handler panicked",
				slog.String("operation", name),
				slog.String("uow_id", u.id.String()),
				slog.Any("panic", r),
			)
		}
	}()
	fn()
}
