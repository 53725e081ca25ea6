package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Provider hands out sessions on one database. Name keys the database's
// session and transaction in each unit, so two providers on different
// databases enlist independently.
type Provider struct {
	db   *sqlx.DB
	name string
}

// NewProvider returns a provider registering its handles under name.
func NewProvider(db *sqlx.DB, name string) *Provider {
	return &Provider{db: db, name: name}
}

// DB returns the underlying database.
func (p *Provider) DB() *sqlx.DB {
	return p.db
}

// Session returns the ambient unit's session for this database, creating
// and registering it on first use. A transactional unit gets a session
// bound to a transaction the unit commits on completion. Without an ambient
// unit the session autocommits.
func (p *Provider) Session(ctx context.Context) (*Session, error) {
	u := uow.CurrentByChecking(ctx)
	if u == nil {
		return newSession(p.db, nil), nil
	}

	api, err := u.GetOrAddDatabaseAPI(ctx, p.name, func(ctx context.Context) (uow.DatabaseAPI, error) {
		return p.newSession(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s, ok := api.(*Session)
	if !ok {
		return nil, fmt.Errorf("database api %q is %T, want *sqlstore.Session", p.name, api)
	}
	return s, nil
}

func (p *Provider) newSession(ctx context.Context, u uow.Unit) (*Session, error) {
	opts := u.Options()
	if opts == nil || !opts.IsTransactional {
		return newSession(p.db, u), nil
	}

	api, err := u.GetOrAddTransactionAPI(ctx, p.name, func(ctx context.Context) (uow.TransactionAPI, error) {
		return beginTx(ctx, p.db, opts)
	})
	if err != nil {
		return nil, err
	}

	tx, ok := api.(*Tx)
	if !ok {
		return nil, fmt.Errorf("transaction api %q is %T, want *sqlstore.Tx", p.name, api)
	}
	return newSession(tx.tx, u), nil
}
