package uow_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// handleRegistrar is the part of uow.Unit the must helpers need.
type handleRegistrar interface {
	AddDatabaseAPI(key string, api uow.DatabaseAPI) error
	AddTransactionAPI(key string, api uow.TransactionAPI) error
}

func mustAddDB(t *testing.T, u handleRegistrar, key string, api uow.DatabaseAPI) {
	t.Helper()
	if err := u.AddDatabaseAPI(key, api); err != nil {
		t.Fatalf("AddDatabaseAPI(%q) = %v, want nil", key, err)
	}
}

func mustAddTx(t *testing.T, u handleRegistrar, key string, api uow.TransactionAPI) {
	t.Helper()
	if err := u.AddTransactionAPI(key, api); err != nil {
		t.Fatalf("AddTransactionAPI(%q) = %v, want nil", key, err)
	}
}

// journal records the observable side effects of a test in call order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.entries)
}

// recordingPublisher journals every publication as "local:A,B" or
// "distributed:A,B" and optionally runs a hook, standing in for handlers.
type recordingPublisher struct {
	journal       *journal
	onLocal       func(ctx context.Context, records []*uow.EventRecord) error
	onDistributed func(ctx context.Context, records []*uow.EventRecord) error
}

func (p *recordingPublisher) PublishLocalEvents(ctx context.Context, records []*uow.EventRecord) error {
	p.journal.add("local:%s", eventTypes(records))
	if p.onLocal != nil {
		return p.onLocal(ctx, records)
	}
	return nil
}

func (p *recordingPublisher) PublishDistributedEvents(ctx context.Context, records []*uow.EventRecord) error {
	p.journal.add("distributed:%s", eventTypes(records))
	if p.onDistributed != nil {
		return p.onDistributed(ctx, records)
	}
	return nil
}

func eventTypes(records []*uow.EventRecord) string {
	types := make([]string, 0, len(records))
	for _, r := range records {
		types = append(types, r.EventType)
	}
	return strings.Join(types, ",")
}

// fakeDB is a data-access handle supporting both optional capabilities.
type fakeDB struct {
	name    string
	journal *journal
	saveErr error
}

func (d *fakeDB) SaveChanges(context.Context) error {
	d.journal.add("%s.save", d.name)
	return d.saveErr
}

func (d *fakeDB) Rollback(context.Context) error {
	d.journal.add("%s.rollback", d.name)
	return nil
}

// fakeTx is a transaction handle that also supports rollback.
type fakeTx struct {
	name        string
	journal     *journal
	commitErr   error
	rollbackErr error
	disposeErr  error
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.journal.add("%s.commit", tx.name)
	return tx.commitErr
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.journal.add("%s.rollback", tx.name)
	return tx.rollbackErr
}

func (tx *fakeTx) Dispose(context.Context) error {
	tx.journal.add("%s.dispose", tx.name)
	return tx.disposeErr
}

// countingScopes is a ScopeFactory counting scope creation and release.
type countingScopes struct {
	publisher uow.EventPublisher
	created   atomic.Int32
	released  atomic.Int32
	err       error
}

func (s *countingScopes) CreateScope(context.Context) (uow.ResolutionScope, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created.Add(1)
	return &countingScope{owner: s, unit: uow.New(s.publisher, uow.WithOrderGenerator(uow.NewOrderGenerator()))}, nil
}

type countingScope struct {
	owner *countingScopes
	unit  *uow.UnitOfWork
}

func (s *countingScope) ResolveUnit() (*uow.UnitOfWork, error) { return s.unit, nil }

func (s *countingScope) Dispose(context.Context) error {
	s.owner.released.Add(1)
	return nil
}

func equalStrings(a, b []string) bool {
	return slices.Equal(a, b)
}
