package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/repository"
)

var _ repository.LanguageRepository = (*LanguageDB)(nil)

// LanguageDB reads the ProgrammingLanguages reference table.
type LanguageDB struct {
	conn *sql.DB
}

// NewLanguageDB creates a LanguageDB on an existing connection pool.
func NewLanguageDB(conn *sql.DB) *LanguageDB {
	return &LanguageDB{conn: conn}
}

// List returns every reference language ordered by id.
func (l *LanguageDB) List(ctx context.Context) ([]model.Language, error) {
	rows, err := l.conn.QueryContext(ctx,
		`SELECT id, name FROM ProgrammingLanguages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing languages: %w", err)
	}
	defer rows.Close()

	langs := []model.Language{}
	for rows.Next() {
		var lang model.Language
		if err := rows.Scan(&lang.ID, &lang.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning language: %w", err)
		}
		langs = append(langs, lang)
	}
	return langs, rows.Err()
}
