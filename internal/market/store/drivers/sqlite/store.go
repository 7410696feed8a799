// Package sqlite implements the market store on modernc.org/sqlite with
// hand-written SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/northmarket/bazaar/internal/market/store"

	_ "modernc.org/sqlite"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so repositories work
// unchanged inside and outside transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs; cascades depend on it
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback is safe to call after commit; it covers panics and early
	// error returns.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users         { return &usersRepo{db: s.db} }
func (s *Store) Items() store.Items         { return &itemsRepo{db: s.db} }
func (s *Store) Comments() store.Comments   { return &commentsRepo{db: s.db} }
func (s *Store) Tags() store.Tags           { return &tagsRepo{db: s.db} }
func (s *Store) Favorites() store.Favorites { return &favoritesRepo{db: s.db} }
func (s *Store) Follows() store.Follows     { return &followsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates sqlite uniqueness violations into the store
// sentinel so callers never see driver error text.
func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}
