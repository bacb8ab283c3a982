package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schema mirrors the tables the application expects to find. In production
// they are provisioned out of band; EnsureSchema creates them for tests and
// for local runs with DB_BOOTSTRAP=true.
const schema = `
CREATE TABLE IF NOT EXISTS Users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	middle_name   TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL,
	email         TEXT NOT NULL,
	birthdate     TEXT NOT NULL,
	gender        TEXT NOT NULL CHECK (gender IN ('male', 'female')),
	biography     TEXT NOT NULL,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ProgrammingLanguages (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS UserProgrammingLanguages (
	user_id     INTEGER NOT NULL REFERENCES Users(id) ON DELETE CASCADE,
	language_id INTEGER NOT NULL REFERENCES ProgrammingLanguages(id),
	PRIMARY KEY (user_id, language_id)
);
`

// EnsureSchema creates the three tables if they are missing and inserts any
// of the given reference language names not already present. It is safe to
// run repeatedly.
func (db *DB) EnsureSchema(ctx context.Context, languages []string) error {
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return withTx(ctx, db.conn, func(tx *sql.Tx) error {
		for _, name := range languages {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO ProgrammingLanguages (name) VALUES (?)`, name,
			); err != nil {
				return fmt.Errorf("sqlite: seeding language %q: %w", name, err)
			}
		}
		return nil
	})
}
