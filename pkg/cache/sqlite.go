// Package cache persists computed content fingerprints in a SQLite database
// so unchanged files are never hashed twice. The cache is purely an
// optimization: clearing it changes only the cost of a sweep, never its
// result.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultFlushThreshold is the number of buffered writes that triggers an
// automatic batch commit.
const DefaultFlushThreshold = 100

// Entry is one persisted (path, size, mtime, fingerprint) tuple
type Entry struct {
	Path        string
	Size        int64
	ModTimeNano int64
	Fingerprint string
}

// Stats summarizes the persisted cache contents
type Stats struct {
	Entries    int64
	TotalBytes int64
	Latest     []Entry
}

// Store is a SQLite-backed fingerprint cache with batched writes.
// A nil *Store is a valid no-op cache: every lookup misses and every store is
// discarded, which degrades a sweep to full recomputation without affecting
// its outcome.
type Store struct {
	db             *sql.DB
	flushThreshold int

	mu      sync.Mutex
	pending []Entry
}

// Open initializes (or reuses) a SQLite cache at the provided path
func Open(path string, flushThreshold int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache path cannot be empty")
	}
	if flushThreshold < 1 {
		flushThreshold = DefaultFlushThreshold
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, flushThreshold: flushThreshold}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close flushes pending writes and releases the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	flushErr := s.Flush()
	closeErr := s.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS fingerprint_cache (
        path TEXT PRIMARY KEY,
        size INTEGER NOT NULL,
        mtime INTEGER NOT NULL,
        fingerprint TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fingerprint ON fingerprint_cache(fingerprint);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize cache schema: %w", err)
	}
	return nil
}

// Lookup returns the stored fingerprint for path, but only if the stored size
// and modification time exactly match the arguments. Anything else is a miss;
// the stale row is superseded by the next Put for the same path.
func (s *Store) Lookup(ctx context.Context, path string, size int64, modTime time.Time) (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}

	mtime := modTime.UnixNano()

	// A freshly buffered entry is as authoritative as a persisted one
	s.mu.Lock()
	for i := len(s.pending) - 1; i >= 0; i-- {
		if s.pending[i].Path == path {
			entry := s.pending[i]
			s.mu.Unlock()
			if entry.Size == size && entry.ModTimeNano == mtime {
				return entry.Fingerprint, true
			}
			return "", false
		}
	}
	s.mu.Unlock()

	var (
		storedSize  int64
		storedMtime int64
		fingerprint string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT size, mtime, fingerprint FROM fingerprint_cache WHERE path = ?`, path).
		Scan(&storedSize, &storedMtime, &fingerprint)
	if err != nil {
		return "", false
	}

	if storedSize != size || storedMtime != mtime {
		return "", false
	}
	return fingerprint, true
}

// Put buffers an upsert of the (path, size, mtime, fingerprint) tuple.
// Writes are committed in batches of flushThreshold rows; the buffer lock is
// never held across the disk flush.
func (s *Store) Put(ctx context.Context, path string, size int64, modTime time.Time, fingerprint string) error {
	if s == nil || s.db == nil {
		return nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, Entry{
		Path:        path,
		Size:        size,
		ModTimeNano: modTime.UnixNano(),
		Fingerprint: fingerprint,
	})
	var batch []Entry
	if len(s.pending) >= s.flushThreshold {
		batch = s.pending
		s.pending = nil
	}
	s.mu.Unlock()

	if batch != nil {
		return s.commit(ctx, batch)
	}
	return nil
}

// Flush commits all buffered writes to durable storage. It must be called
// before process exit and before any destructive operation begins.
func (s *Store) Flush() error {
	if s == nil || s.db == nil {
		return nil
	}

	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return s.commit(context.Background(), batch)
}

// commit writes a batch of entries in a single transaction
func (s *Store) commit(ctx context.Context, batch []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO fingerprint_cache(path, size, mtime, fingerprint)
VALUES(?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
        size=excluded.size,
        mtime=excluded.mtime,
        fingerprint=excluded.fingerprint
`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare cache upsert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range batch {
		if _, err := stmt.ExecContext(ctx, entry.Path, entry.Size, entry.ModTimeNano, entry.Fingerprint); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert cache entry %s: %w", entry.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache batch: %w", err)
	}
	return nil
}

// Clear empties all persisted entries. Callers must ensure no concurrent
// lookups or puts are in flight.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}

	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM fingerprint_cache`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// ReadStats returns entry counts, total tracked bytes and the five most
// recently modified entries
func (s *Store) ReadStats(ctx context.Context) (Stats, error) {
	if s == nil || s.db == nil {
		return Stats{}, nil
	}

	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM fingerprint_cache`).
		Scan(&stats.Entries, &stats.TotalBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT path, size, mtime, fingerprint FROM fingerprint_cache
ORDER BY mtime DESC LIMIT 5`)
	if err != nil {
		return Stats{}, fmt.Errorf("query latest cache entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry Entry
		if scanErr := rows.Scan(&entry.Path, &entry.Size, &entry.ModTimeNano, &entry.Fingerprint); scanErr != nil {
			return Stats{}, fmt.Errorf("scan cache entry: %w", scanErr)
		}
		stats.Latest = append(stats.Latest, entry)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate cache entries: %w", err)
	}

	return stats, nil
}
