package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	_ "github.com/ncruces/go-sqlite3/vfs/memdb"
)

// MemoryPath selects a private in-memory SQLite database.
const MemoryPath = ":memory:"

// connPragmas apply to every pooled connection. Foreign keys must be enabled
// per connection for the cascading deletes to fire; immediate transactions
// take the write lock up front so check-and-insert sequences serialise.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// OpenSQLite opens (creating if needed) the SQLite database at path.
// MemoryPath yields a fresh, uniquely named in-memory database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	var dsn string
	if path == MemoryPath {
		dsn = "file:/" + uuid.NewString() + "?vfs=memdb&" + connPragmas
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + path + "?" + connPragmas + "&_pragma=journal_mode(wal)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == MemoryPath {
		// A memdb database lives as long as one connection to it; keep exactly one.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	slog.Debug("opened sqlite database", "path", path)
	return db, nil
}
