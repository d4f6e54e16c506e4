package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"transit-map-service/internal/platform/obs"
	"transit-map-service/internal/ports"
)

// SQLite backed cache of address search results.
// Keys are normalized with SearchKey before they touch the table.
type SqliteSearchCache struct {
	DB *sql.DB
}

func NewSqliteSearchCache(db *sql.DB) *SqliteSearchCache {
	return &SqliteSearchCache{DB: db}
}

// Fetch the cached results for a query.
func (s *SqliteSearchCache) Get(ctx context.Context, query string) (_ []ports.AddressResult, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("search cache: db is nil")
	}

	key := SearchKey(query)
	if key == "" {
		return nil, false, nil
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `
	SELECT results
    FROM search_cache
    WHERE query = ?;
	`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get search cache: query search_cache table: %w", err)
	}

	var out []ports.AddressResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false, fmt.Errorf("get search cache: decode results for %q: %w", key, err)
	}
	return out, true, nil
}

// Store the results of a query, replacing any previous entry.
func (s *SqliteSearchCache) Put(ctx context.Context, query string, results []ports.AddressResult) error {
	if s.DB == nil {
		return errors.New("search cache: db is nil")
	}

	key := SearchKey(query)
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert search cache: empty query key")
	}
	if results == nil {
		results = []ports.AddressResult{}
	}

	b, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("insert search cache: encode results: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO search_cache (
        query,
        results
    )
    VALUES (?, ?);
	`, key, string(b)); err != nil {
		return fmt.Errorf("insert search cache query=%q: %w", key, err)
	}

	return nil
}
