// Package sqlite implements repository.Store on an embedded SQLite database.
// Times are stored as Unix seconds in UTC.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncruces/go-sqlite3"

	"github.com/Shivanand-hulikatti/steelfist/internal/database"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// Store is a repository.Store backed by database/sql and the ncruces driver.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the database at path (or database.MemoryPath), applies the
// schema migrations and returns the store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err := database.NewSQLiteMigrator(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer func() { _ = m.Close() }()
	if err := m.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// DB exposes the underlying connection for tests and tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT_UNIQUE)
}

func toUnix(t time.Time) int64 {
	return t.UTC().Unix()
}

func fromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// rowsAffected maps a zero-row write to notFound.
func rowsAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
