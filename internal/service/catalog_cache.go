package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rithankoushik/fitz-cli/internal/model"
)

const DefaultCatalogCacheTTL = 7 * 24 * time.Hour

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

type catalogSource interface {
	SearchFoods(ctx context.Context, query string, limit int) ([]model.FoodProfile, error)
}

// CachedCatalog serves catalog searches from a SQLite TTL cache before asking Source.
// Cached result lists keep the order the server returned.
type CachedCatalog struct {
	DB     *sql.DB
	Source catalogSource
	TTL    time.Duration
	Now    func() time.Time
}

type CatalogCacheItem struct {
	Query          string    `json:"query"`
	LimitRequested int       `json:"limit_requested"`
	ResultCount    int       `json:"result_count"`
	FetchedAt      time.Time `json:"fetched_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func (c *CachedCatalog) SearchFoods(ctx context.Context, query string, limit int) ([]model.FoodProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if cached, found, err := c.lookup(query, limit); err != nil {
		return nil, err
	} else if found {
		return cached, nil
	}
	foods, err := c.Source.SearchFoods(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if err := c.store(query, limit, foods); err != nil {
		return nil, err
	}
	return foods, nil
}

func (c *CachedCatalog) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *CachedCatalog) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultCatalogCacheTTL
	}
	return c.TTL
}

func (c *CachedCatalog) lookup(query string, limit int) ([]model.FoodProfile, bool, error) {
	var raw, expiresAtRaw string
	err := c.DB.QueryRow(`
SELECT results_json, expires_at
FROM food_search_cache
WHERE query_norm = ? AND limit_requested = ?
`, canonicalQuery(query), limit).Scan(&raw, &expiresAtRaw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup food search cache: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339, expiresAtRaw)
	if err != nil {
		return nil, false, fmt.Errorf("parse food search cache expiry: %w", err)
	}
	if c.now().After(expiresAt) {
		return nil, false, nil
	}
	var foods []model.FoodProfile
	if err := json.Unmarshal([]byte(raw), &foods); err != nil {
		return nil, false, fmt.Errorf("decode food search cache: %w", err)
	}
	return foods, true, nil
}

func (c *CachedCatalog) store(query string, limit int, foods []model.FoodProfile) error {
	if foods == nil {
		foods = []model.FoodProfile{}
	}
	payload, err := json.Marshal(foods)
	if err != nil {
		return fmt.Errorf("marshal food search cache payload: %w", err)
	}
	now := c.now().UTC()
	_, err = c.DB.Exec(`
INSERT INTO food_search_cache(query, query_norm, limit_requested, results_json, result_count, fetched_at, expires_at)
VALUES(?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(query_norm, limit_requested) DO UPDATE SET
  query=excluded.query,
  results_json=excluded.results_json,
  result_count=excluded.result_count,
  fetched_at=excluded.fetched_at,
  expires_at=excluded.expires_at
`, query, canonicalQuery(query), limit, string(payload), len(foods), now.Format(time.RFC3339), now.Add(c.ttl()).Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert food search cache: %w", err)
	}
	return nil
}

func ListCatalogCache(db *sql.DB, limit int) ([]CatalogCacheItem, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
SELECT query, limit_requested, result_count, fetched_at, expires_at
FROM food_search_cache
ORDER BY fetched_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list food search cache: %w", err)
	}
	defer rows.Close()
	out := make([]CatalogCacheItem, 0)
	for rows.Next() {
		var item CatalogCacheItem
		var fetched, expires string
		if err := rows.Scan(&item.Query, &item.LimitRequested, &item.ResultCount, &fetched, &expires); err != nil {
			return nil, fmt.Errorf("scan food search cache: %w", err)
		}
		item.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
		item.ExpiresAt, _ = time.Parse(time.RFC3339, expires)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food search cache: %w", err)
	}
	return out, nil
}

func PurgeCatalogCache(db *sql.DB, expiredOnly bool, now time.Time) (int64, error) {
	query := `DELETE FROM food_search_cache`
	args := []any{}
	if expiredOnly {
		query += ` WHERE expires_at < ?`
		args = append(args, now.UTC().Format(time.RFC3339))
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge food search cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count purged cache rows: %w", err)
	}
	return n, nil
}

func canonicalQuery(q string) string {
	q = normalizeName(q)
	q = nonAlnum.ReplaceAllString(q, " ")
	return strings.Join(strings.Fields(q), " ")
}
