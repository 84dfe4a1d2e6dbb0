package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "console.db"

// SQLiteKV implements KV on a single SQLite table.
type SQLiteKV struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenDir opens (or creates) DefaultFileName inside dir and migrates it.
func OpenDir(ctx context.Context, dir string, logger *slog.Logger) (*SQLiteKV, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return Open(ctx, filepath.Join(dir, DefaultFileName), logger)
}

// Open opens (or creates) a SQLite database at dbPath and migrates it.
// Use ":memory:" for an in-memory database (useful in tests).
func Open(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	s := &SQLiteKV{
		db:     db,
		logger: logger.With("component", "storage"),
	}
	s.logger.Debug("sql", "op", "migrate", "path", dbPath)
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	s.logger.Debug("sql", "op", "select", "table", "kv", "key", key)

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *SQLiteKV) SetMany(ctx context.Context, pairs map[string]string) error {
	s.logger.Debug("sql", "op", "upsert", "table", "kv", "count", len(pairs))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for k, v := range pairs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, v, now,
		); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	s.logger.Debug("sql", "op", "delete", "table", "kv", "count", len(keys))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteKV) Clear(ctx context.Context) error {
	s.logger.Debug("sql", "op", "delete_all", "table", "kv")
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
