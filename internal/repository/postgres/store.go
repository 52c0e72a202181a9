// Package postgres implements repository.Store on PostgreSQL using pgx directly
// (no ORM).
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/steelfist/internal/config"
	"github.com/Shivanand-hulikatti/steelfist/internal/database"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// Store is a repository.Store backed by a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// New constructs a Store. The schema must already be migrated.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Open connects to the configured database, applies the schema migrations and
// returns the store.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(cfg.PostgresDSN()); err != nil {
		pool.Close()
		return nil, err
	}
	return New(pool), nil
}

// Migrate brings the schema at dsn up to date.
func Migrate(dsn string) error {
	m, err := database.NewPostgresMigrator(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation)
}

// affected maps a zero-row write to notFound.
func affected(tag pgconn.CommandTag, notFound error) error {
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
