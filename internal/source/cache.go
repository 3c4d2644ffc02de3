package source

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is an optional SQLite-backed store of fetched response bodies keyed
// by URL. It only saves network round-trips across repeated runs; the corpus
// itself is still rebuilt from scratch every invocation.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			url        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			fetched_at TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close() // nolint: errcheck
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get returns the cached body for url, if present.
func (c *Cache) Get(url string) ([]byte, bool) {
	var body []byte
	query := `SELECT body FROM responses WHERE url = ?`
	if err := c.db.QueryRow(query, url).Scan(&body); err != nil {
		return nil, false
	}
	return body, true
}

// Put stores (or replaces) the body for url.
func (c *Cache) Put(url string, body []byte) error {
	query := `
		INSERT INTO responses (url, body, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`
	_, err := c.db.Exec(query, url, body, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
