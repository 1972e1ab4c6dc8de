package database

import (
	"database/sql"
	"time"
)

// SearchCache stores raw provider response bodies so repeated searches and
// popular listings skip the network. Entries older than the TTL read as
// misses; Prune deletes them. It satisfies the metadata package's Cache
// interface.
type SearchCache struct {
	db  *sql.DB
	ttl time.Duration
}

func NewSearchCache(db *sql.DB, ttl time.Duration) *SearchCache {
	return &SearchCache{db: db, ttl: ttl}
}

func (c *SearchCache) Get(provider, key string) ([]byte, bool) {
	row := c.db.QueryRow(
		`SELECT body, fetched_at FROM search_cache WHERE provider = ? AND cache_key = ?`,
		provider, key,
	)

	var body []byte
	var fetchedAt time.Time
	if err := row.Scan(&body, &fetchedAt); err != nil {
		return nil, false
	}
	if time.Since(fetchedAt) > c.ttl {
		return nil, false
	}
	return body, true
}

// Put is best effort: a failed insert only means the next lookup refetches.
func (c *SearchCache) Put(provider, key string, body []byte) {
	c.db.Exec(
		`INSERT INTO search_cache (provider, cache_key, body, fetched_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(provider, cache_key)
         DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		provider, key, body, time.Now().UTC(),
	)
}

func (c *SearchCache) Prune() error {
	_, err := c.db.Exec(
		`DELETE FROM search_cache WHERE fetched_at < ?`,
		time.Now().UTC().Add(-c.ttl),
	)
	return err
}
