// Package sqlite implements store.Driver on top of a single SQLite file
// using the pure-Go modernc.org/sqlite driver. No CGO, no vector
// extension: the RAG vector index lives in its own flat-file format under
// the configured index directory, not inside this database.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"

	"github.com/nadlanit/concierge/internal/store"
)

// DB is the sqlite-backed store.Driver.
type DB struct {
	db *sql.DB
}

// NewDB opens dsn (a filesystem path, or ":memory:" for tests) and applies
// the pragmas appropriate for a single-process, WAL-mode, foreign-key
// enforcing SQLite deployment.
func NewDB(dsn string) (store.Driver, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}

	sqliteDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
	}
	for _, pragma := range pragmas {
		if _, err := sqliteDB.Exec(pragma); err != nil {
			return nil, errors.Wrapf(err, "failed to set pragma: %s", pragma)
		}
	}

	// A single connection avoids SQLITE_BUSY contention across goroutines;
	// WAL mode plus busy_timeout make that connection safe to share.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	return &DB{db: sqliteDB}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to apply migration statement: %s", stmt)
		}
	}
	return nil
}
