package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations to one database.
type Migrator struct {
	m     *migrate.Migrate
	src   source.Driver
	owned bool // whether Close may close the underlying *sql.DB
}

// NewSQLiteMigrator migrates an already open SQLite database. Closing the
// migrator leaves db open.
func NewSQLiteMigrator(db *sql.DB) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations/sqlite")
	if err != nil {
		return nil, fmt.Errorf("load sqlite migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, src: src}, nil
}

// NewPostgresMigrator opens a dedicated database/sql connection to dsn for
// running migrations.
func NewPostgresMigrator(dsn string) (*Migrator, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres for migrations: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load postgres migrations: %w", err)
	}
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		_ = src.Close()
		_ = db.Close()
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = src.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, src: src, owned: true}, nil
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down reverts every migration.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version reports the applied schema version. ok is false on a fresh database.
func (m *Migrator) Version() (version uint, dirty, ok bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, true, nil
}

// Close releases the migration source, and the database for migrators that
// opened their own.
func (m *Migrator) Close() error {
	if m.owned {
		srcErr, dbErr := m.m.Close()
		return errors.Join(srcErr, dbErr)
	}
	return m.src.Close()
}
