// Package sqlite provides the durable key-value store backed by a pure Go
// SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Config configures the SQLite store.
type Config struct {
	// Path is the database file. ":memory:" opens a private in-memory database.
	Path string

	// BusyTimeout is how long a writer waits on a locked database.
	BusyTimeout time.Duration
}

// Store is a ports.KeyValueStore over a single SQLite table.
// Each Set is one upsert statement, so a value is either fully written or
// not written at all.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.KeyValueStore = (*Store)(nil)

var _ ports.HealthChecker = (*Store)(nil)

// Open opens (creating if needed) the database at cfg.Path and applies the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	if cfg.Path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
		if err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer at a time. A single connection also keeps
	// ":memory:" databases alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}

	for _, p := range pragmas {
		_, err = db.ExecContext(ctx, p)
		if err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Get returns the value stored under key, or a *domain.NotFoundError.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("key", key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	return []byte(value), nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	return nil
}

// Delete removes key if present.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
