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

// SQLSearchCache is a Postgres-backed cache of address search results.
type SQLSearchCache struct {
	DB *sql.DB
}

func NewSQLSearchCache(db *sql.DB) *SQLSearchCache {
	return &SQLSearchCache{DB: db}
}

// Fetch the cached results for a query.
func (s *SQLSearchCache) Get(ctx context.Context, query string) (_ []ports.AddressResult, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("search cache: db is nil")
	}

	key := SearchKey(query)
	if key == "" {
		return nil, false, nil
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT results
    FROM search_cache
    WHERE query = $1;
	`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get search cache: query search_cache table: %w", err)
	}

	var out []ports.AddressResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("get search cache: decode results for %q: %w", key, err)
	}
	return out, true, nil
}

// Store the results of a query, replacing any previous entry.
func (s *SQLSearchCache) Put(ctx context.Context, query string, results []ports.AddressResult) error {
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
	INSERT INTO search_cache (query, results, updated_at)
    VALUES ($1, $2::jsonb, now())
	ON CONFLICT (query) DO UPDATE
	SET results = EXCLUDED.results,
		updated_at = EXCLUDED.updated_at;
	`, key, string(b)); err != nil {
		return fmt.Errorf("insert search cache query=%q: %w", key, err)
	}

	return nil
}
