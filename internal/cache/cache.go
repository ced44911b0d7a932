package cache

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/drift"

	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// CacheDir is the directory name for the cache (gitignored).
	CacheDir = ".sqltable"
	// CacheFile is the SQLite database file name.
	CacheFile = "cache.db"
	// Version is the cache schema version.
	Version = "1"
)

// Cache stores rendered DDL keyed by engine and table fingerprint, plus the
// last output hash written to each output directory.
//
// A nil *Cache is valid: reads miss and writes are dropped.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates the cache database at the given project root.
// If the cache directory or database does not exist, they are created.
func Open(projectRoot string) (*Cache, error) {
	cacheDir := filepath.Join(projectRoot, CacheDir)
	cachePath := filepath.Join(cacheDir, CacheFile)

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheInit, err, "failed to create cache directory").
			With("path", cacheDir)
	}

	db, err := sql.Open("sqlite", cachePath)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheInit, err, "failed to open cache database").
			With("path", cachePath)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, alerr.Wrap(alerr.ErrCacheInit, err, "failed to connect to cache database").
			With("path", cachePath)
	}

	c := &Cache{
		db:   db,
		path: cachePath,
	}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the cache database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the path to the cache database file.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// initSchema creates the cache database tables if they don't exist.
func (c *Cache) initSchema() error {
	schema := `
		-- Rendered DDL per engine and table fingerprint
		CREATE TABLE IF NOT EXISTS renders (
			engine       TEXT NOT NULL,
			fingerprint  TEXT NOT NULL,
			table_name   TEXT NOT NULL,
			ddl          TEXT NOT NULL,
			created_at   TEXT NOT NULL,
			PRIMARY KEY (engine, fingerprint)
		);

		-- Last output hash written per output directory
		CREATE TABLE IF NOT EXISTS output_hashes (
			dir          TEXT PRIMARY KEY,
			root_hash    TEXT NOT NULL,
			hash_json    TEXT NOT NULL,
			created_at   TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cache_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(schema); err != nil {
		return alerr.Wrap(alerr.ErrCacheInit, err, "failed to initialize cache schema")
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO cache_meta (key, value) VALUES ('version', ?)", Version); err != nil {
		return alerr.Wrap(alerr.ErrCacheInit, err, "failed to write cache version")
	}

	return nil
}

// -----------------------------------------------------------------------------
// Render Operations
// -----------------------------------------------------------------------------

// Get returns the cached DDL for engine and fingerprint.
// ok is false on a miss.
func (c *Cache) Get(engine, fingerprint string) (ddl string, ok bool, err error) {
	if c == nil {
		return "", false, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	err = c.db.QueryRow(
		"SELECT ddl FROM renders WHERE engine = ? AND fingerprint = ?",
		engine, fingerprint,
	).Scan(&ddl)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, alerr.Wrap(alerr.ErrCacheRead, err, "failed to read cached render").
			With("engine", engine).
			With("fingerprint", fingerprint)
	}
	return ddl, true, nil
}

// Set stores the DDL rendered for engine and fingerprint.
func (c *Cache) Set(engine, fingerprint, table, ddl string) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO renders (engine, fingerprint, table_name, ddl, created_at) VALUES (?, ?, ?, ?, ?)",
		engine, fingerprint, table, ddl, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return alerr.Wrap(alerr.ErrCacheWrite, err, "failed to write cached render").
			With("engine", engine).
			WithTable(table)
	}
	return nil
}

// GetOrRender returns the cached DDL, or calls render and caches its result.
// hit reports whether the cache answered. Cache write failures are ignored
// since the cache can always be rebuilt.
func (c *Cache) GetOrRender(engine, fingerprint, table string, render func() (string, error)) (ddl string, hit bool, err error) {
	ddl, hit, err = c.Get(engine, fingerprint)
	if err != nil {
		return "", false, err
	}
	if hit {
		return ddl, true, nil
	}

	ddl, err = render()
	if err != nil {
		return "", false, err
	}

	_ = c.Set(engine, fingerprint, table, ddl)
	return ddl, false, nil
}

// -----------------------------------------------------------------------------
// Output Hash Operations
// -----------------------------------------------------------------------------

// GetOutputHash returns the output hash last recorded for dir, or nil.
func (c *Cache) GetOutputHash(dir string) (*drift.OutputHash, error) {
	if c == nil {
		return nil, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var hashJSON string
	err := c.db.QueryRow("SELECT hash_json FROM output_hashes WHERE dir = ?", dir).Scan(&hashJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheRead, err, "failed to read output hash").
			With("dir", dir)
	}

	return DeserializeOutputHash([]byte(hashJSON))
}

// SetOutputHash records the output hash of dir.
func (c *Cache) SetOutputHash(dir string, hash *drift.OutputHash) error {
	if c == nil {
		return nil
	}

	data, err := SerializeOutputHash(hash)
	if err != nil {
		return err
	}
	root := ""
	if hash != nil {
		root = hash.Root
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO output_hashes (dir, root_hash, hash_json, created_at) VALUES (?, ?, ?, ?)",
		dir, root, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return alerr.Wrap(alerr.ErrCacheWrite, err, "failed to write output hash").
			With("dir", dir)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Cache Management Operations
// -----------------------------------------------------------------------------

// Clear removes all cached data.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, table := range []string{"renders", "output_hashes"} {
		if _, err := c.db.Exec("DELETE FROM " + table); err != nil {
			return alerr.Wrap(alerr.ErrCacheWrite, err, "failed to clear cache").
				With("table", table)
		}
	}
	return nil
}

// GetCacheVersion returns the cache schema version.
func (c *Cache) GetCacheVersion() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var version string
	err := c.db.QueryRow("SELECT value FROM cache_meta WHERE key = 'version'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", alerr.Wrap(alerr.ErrCacheRead, err, "failed to read cache version")
	}
	return version, nil
}

// Stats returns cache statistics.
type Stats struct {
	Renders      int
	Engines      int
	OutputHashes int
	DatabaseSize int64
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if c == nil {
		return &Stats{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &Stats{}

	if err := c.db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT engine) FROM renders").Scan(&stats.Renders, &stats.Engines); err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheRead, err, "failed to count renders")
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM output_hashes").Scan(&stats.OutputHashes); err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheRead, err, "failed to count output hashes")
	}

	if fi, err := os.Stat(c.path); err == nil {
		stats.DatabaseSize = fi.Size()
	}

	return stats, nil
}

// Vacuum compacts the database file.
func (c *Cache) Vacuum() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec("VACUUM"); err != nil {
		return alerr.Wrap(alerr.ErrCacheWrite, err, "failed to vacuum cache database")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// Exists checks if a cache database exists at the given project root.
func Exists(projectRoot string) bool {
	cachePath := filepath.Join(projectRoot, CacheDir, CacheFile)
	_, err := os.Stat(cachePath)
	return err == nil
}

// Remove deletes the entire cache directory.
func Remove(projectRoot string) error {
	cacheDir := filepath.Join(projectRoot, CacheDir)
	if err := os.RemoveAll(cacheDir); err != nil {
		return alerr.Wrap(alerr.ErrCacheWrite, err, "failed to remove cache directory").
			With("path", cacheDir)
	}
	return nil
}
