package sqlite

import (
	"context"
	"database/sql"

	"github.com/northmarket/bazaar/internal/market/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts

func (t *txStore) Users() store.Users         { return &usersRepo{db: t.tx} }
func (t *txStore) Items() store.Items         { return &itemsRepo{db: t.tx} }
func (t *txStore) Comments() store.Comments   { return &commentsRepo{db: t.tx} }
func (t *txStore) Tags() store.Tags           { return &tagsRepo{db: t.tx} }
func (t *txStore) Favorites() store.Favorites { return &favoritesRepo{db: t.tx} }
func (t *txStore) Follows() store.Follows     { return &followsRepo{db: t.tx} }
