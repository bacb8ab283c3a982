package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/form-backend/internal/apperror"
	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// PasswordVerifier checks a raw password against a stored hash.
// *auth.PasswordService satisfies it.
type PasswordVerifier interface {
	Verify(hash, plaintext string) error
	// CompareDummy costs the same as a failed Verify when no row exists.
	CompareDummy(plaintext string)
}

// UserDB stores registration records in the Users table and their language
// sets in UserProgrammingLanguages.
type UserDB struct {
	conn      *sql.DB
	passwords PasswordVerifier
	logger    *slog.Logger
}

// NewUserDB creates a UserDB on an existing connection pool.
func NewUserDB(conn *sql.DB, passwords PasswordVerifier, logger *slog.Logger) *UserDB {
	return &UserDB{
		conn:      conn,
		passwords: passwords,
		logger:    logger,
	}
}

// Create inserts the user row and one join row per language in a single
// transaction, and returns the generated id.
//
// A language name with no ProgrammingLanguages row inserts nothing; it is
// logged and skipped. If any statement fails the whole transaction is
// rolled back and no part of the user survives.
func (u *UserDB) Create(ctx context.Context, user *model.User) (int64, error) {
	var id int64

	err := withTx(ctx, u.conn, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO Users
			 (first_name, last_name, middle_name, phone, email, birthdate,
			  gender, biography, username, password_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.FirstName,
			user.LastName,
			user.MiddleName,
			user.Phone,
			user.Email,
			user.BirthdateString(),
			string(user.Gender),
			user.Biography,
			user.Username,
			user.PasswordHash,
		)
		if err != nil {
			if isUniqueViolation(err, "Users.username") {
				return apperror.Conflict("user", "username", user.Username)
			}
			return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new user id: %w", err)
		}

		return u.insertLanguages(ctx, tx, id, user.Languages)
	})
	if err != nil {
		return 0, err
	}

	user.ID = id
	return id, nil
}

// GetByID loads a user with its languages aggregated in one query.
// Returns apperror.ErrNotFound if no user exists with that id.
//
// json_group_array yields [null] for a user with no languages; the null
// placeholder is dropped so Languages comes back as an empty slice.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var (
		usr       model.User
		birthdate string
		gender    string
		langsJSON string
	)

	err := u.conn.QueryRowContext(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.middle_name, u.phone,
		        u.email, u.birthdate, u.gender, u.biography, u.username,
		        json_group_array(pl.name) AS languages
		 FROM Users u
		 LEFT JOIN UserProgrammingLanguages upl ON u.id = upl.user_id
		 LEFT JOIN ProgrammingLanguages pl ON upl.language_id = pl.id
		 WHERE u.id = ?
		 GROUP BY u.id`,
		id,
	).Scan(
		&usr.ID,
		&usr.FirstName,
		&usr.LastName,
		&usr.MiddleName,
		&usr.Phone,
		&usr.Email,
		&birthdate,
		&gender,
		&usr.Biography,
		&usr.Username,
		&langsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	usr.Birthdate, err = time.Parse(model.DateLayout, birthdate)
	if err != nil {
		return nil, fmt.Errorf("sqlite: user %d has malformed birthdate %q: %w", id, birthdate, err)
	}
	usr.Gender = model.Gender(gender)

	usr.Languages, err = decodeLanguages(langsJSON)
	if err != nil {
		return nil, fmt.Errorf("sqlite: user %d languages: %w", id, err)
	}

	return &usr, nil
}

// Authenticate returns the user whose username and password both match.
//
// An unknown username and a wrong password produce the same
// apperror.ErrInvalidCredentials value and cost the same hashing work.
func (u *UserDB) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var (
		id   int64
		hash string
	)

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, password_hash FROM Users WHERE username = ?`,
		username,
	).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u.passwords.CompareDummy(password)
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sqlite: looking up credentials: %w", err)
	}

	if err := u.passwords.Verify(hash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			u.logger.Error("password verification failed",
				slog.Int64("userID", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.ErrInvalidCredentials
	}

	return u.GetByID(ctx, id)
}

// Update overwrites every mutable scalar field and replaces the language set.
// Username and password hash are not touched. Returns apperror.ErrNotFound
// if no user exists with that id.
func (u *UserDB) Update(ctx context.Context, id int64, user *model.User) error {
	return withTx(ctx, u.conn, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE Users
			 SET first_name = ?,
			     last_name = ?,
			     middle_name = ?,
			     phone = ?,
			     email = ?,
			     birthdate = ?,
			     gender = ?,
			     biography = ?
			 WHERE id = ?`,
			user.FirstName,
			user.LastName,
			user.MiddleName,
			user.Phone,
			user.Email,
			user.BirthdateString(),
			string(user.Gender),
			user.Biography,
			id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %d: %w", id, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if rows == 0 {
			return apperror.NotFound("user", id)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM UserProgrammingLanguages WHERE user_id = ?`, id,
		); err != nil {
			return fmt.Errorf("sqlite: clearing languages for user %d: %w", id, err)
		}

		return u.insertLanguages(ctx, tx, id, user.Languages)
	})
}

// insertLanguages writes one join row per distinct name, resolving each name
// to its reference id inside the INSERT.
func (u *UserDB) insertLanguages(ctx context.Context, tx *sql.Tx, userID int64, languages []string) error {
	for _, name := range dedupe(languages) {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO UserProgrammingLanguages (user_id, language_id)
			 SELECT ?, id FROM ProgrammingLanguages WHERE name = ?`,
			userID, name,
		)
		if err != nil {
			return fmt.Errorf("sqlite: linking language %q to user %d: %w", name, userID, err)
		}

		if n, err := result.RowsAffected(); err == nil && n == 0 {
			u.logger.Warn("language has no reference row; skipped",
				slog.Int64("userID", userID),
				slog.String("language", name),
			)
		}
	}
	return nil
}

// decodeLanguages turns a json_group_array result into a sorted name list,
// dropping nulls.
func decodeLanguages(raw string) ([]string, error) {
	var names []*string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", raw, err)
	}

	langs := make([]string, 0, len(names))
	for _, n := range names {
		if n != nil {
			langs = append(langs, *n)
		}
	}
	sort.Strings(langs)
	return langs, nil
}

// dedupe keeps the first occurrence of each name.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// isUniqueViolation reports whether err is SQLite's UNIQUE failure on column
// (given as "Table.column").
func isUniqueViolation(err error, column string) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return false
	}
	return strings.Contains(sqliteErr.Error(), column)
}
