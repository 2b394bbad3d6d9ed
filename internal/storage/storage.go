// Package storage defines the Storage interface for the fetcher run journal.
//
// The journal is the only thing this service persists. Student data is
// never stored here: it always comes live from the backend.
//
// Handlers depend only on this interface, so tests can pass a fake and
// the SQLite implementation can be swapped without touching them.
package storage

import (
	"context"

	"github.com/aanand-mishra/student-frontend/internal/types"
)

// Storage is the journal contract.
type Storage interface {
	// RecordFetcherRun appends a run and returns its generated ID.
	RecordFetcherRun(ctx context.Context, run types.FetcherRun) (int64, error)

	// GetFetcherRuns returns at most limit runs, newest first.
	// Returns an empty slice (not nil) when the journal is empty.
	GetFetcherRuns(ctx context.Context, limit int) ([]types.FetcherRun, error)
}
