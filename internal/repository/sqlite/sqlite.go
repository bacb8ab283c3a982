// Package sqlite implements the repository interfaces using SQLite as the
// storage backend, through the pure-Go modernc.org/sqlite driver.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB      : a connection pool (NOT a single connection!)
//   - sql.Tx      : a transaction bound to one connection from the pool
//   - sql.Row     : a single result row
//   - sql.Rows    : multiple result rows (must be closed!)
//
// The pool is created once in New and handed to every repository in this
// package. Repositories never open connections of their own.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB owns the connection pool shared by UserDB and LanguageDB.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and configures the pool.
//
// dbPath examples:
//   - "data/forms.db"  → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests)
//
// The pool is limited to a single connection. SQLite serializes writers
// anyway, and an in-memory database exists per connection.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Conn exposes the underlying pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks that the store is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns a UserDB backed by this pool.
func (db *DB) Users(passwords PasswordVerifier, logger *slog.Logger) *UserDB {
	return NewUserDB(db.conn, passwords, logger)
}

// Languages returns a LanguageDB backed by this pool.
func (db *DB) Languages() *LanguageDB {
	return NewLanguageDB(db.conn)
}

// withTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; every other exit, including a panic, rolls it back.
func withTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	// Rollback after a successful Commit is a no-op returning sql.ErrTxDone.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
