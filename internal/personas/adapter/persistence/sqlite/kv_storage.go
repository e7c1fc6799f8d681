package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	apperrors "gestion-personas/internal/shared/errors"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

const upsert = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// KVStorage keeps values in a single sqlite table
type KVStorage struct {
	db     *sql.DB
	closed atomic.Bool
}

// NewKVStorage opens (creating if needed) the database at path
func NewKVStorage(ctx context.Context, path string) (*KVStorage, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection keeps writes serialized without SQLITE_BUSY retries
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &KVStorage{db: db}, nil
}

// Get implements repository.KeyValueStorage
func (s *KVStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, apperrors.ErrStorageClosed
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

// Set implements repository.KeyValueStorage
func (s *KVStorage) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return apperrors.ErrStorageClosed
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, upsert, key, value, time.Now().UnixMilli()); err != nil {
		return err
	}
	return nil
}

// Ping implements repository.KeyValueStorage
func (s *KVStorage) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return apperrors.ErrStorageClosed
	}
	return s.db.PingContext(ctx)
}

// Close implements repository.KeyValueStorage
func (s *KVStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
