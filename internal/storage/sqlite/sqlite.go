// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aanand-mishra/student-frontend/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the fetcher_runs table if
// it does not already exist, and returns a ready-to-use *SQLite.
// The parent directory is created when missing.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   id             — auto-incremented, also gives insertion order
	//   request_id     — X-Request-ID of the proxied call
	//   started_at     — unix milliseconds
	//   duration_ms    — time spent waiting for the backend
	//   succeeded      — 1 when the proxy relayed a backend success
	//   backend_status — HTTP status from the backend, 0 if none
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS fetcher_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id     TEXT    NOT NULL,
			started_at     INTEGER NOT NULL,
			duration_ms    INTEGER NOT NULL,
			succeeded      INTEGER NOT NULL,
			backend_status INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// RecordFetcherRun inserts a journal row using a prepared statement.
func (s *SQLite) RecordFetcherRun(ctx context.Context, run types.FetcherRun) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO fetcher_runs (request_id, started_at, duration_ms, succeeded, backend_status) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("RecordFetcherRun: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		run.RequestID,
		run.StartedAt.UnixMilli(),
		run.DurationMS,
		run.Succeeded,
		run.BackendStatus,
	)
	if err != nil {
		return 0, fmt.Errorf("RecordFetcherRun: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("RecordFetcherRun: last insert id: %w", err)
	}

	return lastID, nil
}

// GetFetcherRuns returns the newest runs first.
func (s *SQLite) GetFetcherRuns(ctx context.Context, limit int) ([]types.FetcherRun, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, request_id, started_at, duration_ms, succeeded, backend_status FROM fetcher_runs ORDER BY id DESC LIMIT ?",
	)
	if err != nil {
		return nil, fmt.Errorf("GetFetcherRuns: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("GetFetcherRuns: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty journal encodes as [] rather than null.
	runs := make([]types.FetcherRun, 0)

	for rows.Next() {
		var (
			run       types.FetcherRun
			startedAt int64
		)

		if err := rows.Scan(
			&run.ID,
			&run.RequestID,
			&startedAt,
			&run.DurationMS,
			&run.Succeeded,
			&run.BackendStatus,
		); err != nil {
			return nil, fmt.Errorf("GetFetcherRuns: scan row: %w", err)
		}

		run.StartedAt = time.UnixMilli(startedAt).UTC()
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetFetcherRuns: rows iteration: %w", err)
	}

	return runs, nil
}
