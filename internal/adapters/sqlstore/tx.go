package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Compile-time interface checks.
var (
	_ uow.TransactionAPI   = (*Tx)(nil)
	_ uow.SupportsRollback = (*Tx)(nil)
)

// Tx is the transaction handle a transactional unit commits on completion.
type Tx struct {
	tx     *sqlx.Tx
	cancel context.CancelFunc

	mu   sync.Mutex
	done bool
}

// beginTx starts a transaction honoring the unit's isolation level and
// timeout. The transaction outlives the caller's context; only the unit's
// timeout or Dispose ends it early.
func beginTx(ctx context.Context, db *sqlx.DB, opts *uow.Options) (*Tx, error) {
	var (
		txCtx  context.Context
		cancel context.CancelFunc
	)
	if opts.Timeout > 0 {
		txCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), opts.Timeout)
	} else {
		txCtx, cancel = context.WithCancel(context.WithoutCancel(ctx))
	}

	tx, err := db.BeginTxx(txCtx, &sql.TxOptions{Isolation: opts.IsolationLevel})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Tx{tx: tx, cancel: cancel}, nil
}

// Commit implements [uow.TransactionAPI]. Committing a finished
// transaction is a no-op.
func (t *Tx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Rollback implements [uow.SupportsRollback]. Rolling back a finished
// transaction is a no-op.
func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rollbackLocked()
}

// Dispose implements [uow.TransactionAPI]. An uncommitted transaction is
// rolled back.
func (t *Tx) Dispose(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.cancel()
	return t.rollbackLocked()
}

func (t *Tx) rollbackLocked() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}
