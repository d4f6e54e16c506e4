package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite cache schema.
func InitSchema(db *sql.DB) error {
	createSearchCacheQuery := `
	CREATE TABLE IF NOT EXISTS search_cache (
        query TEXT PRIMARY KEY,
        results TEXT NOT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
	`

	return execSchema(db, "init schema", []string{createSearchCacheQuery})
}

// Initialize the Postgres cache schema.
func InitPostgresSchema(db *sql.DB) error {
	createSearchCacheQuery := `
	CREATE TABLE IF NOT EXISTS search_cache (
        query TEXT PRIMARY KEY,
        results JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_search_cache_updated_at
    ON search_cache(updated_at);
	`

	return execSchema(db, "init postgres schema", []string{createSearchCacheQuery, createIndexQuery})
}

func execSchema(db *sql.DB, op string, statements []string) error {
	if db == nil {
		return fmt.Errorf("%s: %w", op, errors.New("DB is nil"))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}
