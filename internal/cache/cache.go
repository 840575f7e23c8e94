// Package cache stores extracted modules in a SQLite database keyed by
// file path and content hash, so unchanged files skip re-parsing.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hargabyte/pyr/internal/extract"
)

// FileName is the cache database file inside the .pyr directory.
const FileName = "cache.db"

// Cache wraps the SQLite connection.
type Cache struct {
	db   *sql.DB
	path string
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int    `json:"entries" yaml:"entries"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
	Path      string `json:"path" yaml:"path"`
}

// Hash returns the content hash used as the cache key component.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Open opens (creating if needed) the cache database under dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// WAL keeps readers unblocked while a scan writes entries.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Get returns the cached module for path if its stored hash matches.
// A stale or missing entry returns ok=false without error.
func (c *Cache) Get(path, hash string) (*extract.Module, bool, error) {
	var data []byte
	err := c.db.QueryRow(
		"SELECT data FROM modules WHERE path = ? AND hash = ?", path, hash,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	var mod extract.Module
	if err := json.Unmarshal(data, &mod); err != nil {
		// A corrupt entry is treated as a miss; the caller re-extracts
		// and overwrites it.
		return nil, false, nil
	}
	return &mod, true, nil
}

// Put stores or replaces the entry for path.
func (c *Cache) Put(path, hash string, mod *extract.Module) error {
	data, err := json.Marshal(mod)
	if err != nil {
		return fmt.Errorf("encoding module: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO modules (path, hash, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(path) DO UPDATE SET
		   hash = excluded.hash,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		path, hash, data,
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM modules"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats reports entry count and total payload size.
func (c *Cache) Stats() (Stats, error) {
	s := Stats{Path: c.path}
	err := c.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM modules",
	).Scan(&s.Entries, &s.SizeBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
