// Package fetcher contains the handlers that trigger the backend's result
// fetcher job and report past triggers.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aanand-mishra/student-frontend/internal/backend"
	"github.com/aanand-mishra/student-frontend/internal/http/middleware"
	"github.com/aanand-mishra/student-frontend/internal/storage"
	"github.com/aanand-mishra/student-frontend/internal/types"
	"github.com/aanand-mishra/student-frontend/internal/utils/response"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Backend is the slice of the backend client Run needs.
type Backend interface {
	RunFetcher(ctx context.Context) (*backend.Response, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Run handles POST /api/fetch-results
// Forwards to POST <backend>/api/run-fetcher. There is no idempotency guard:
// two requests start the job twice.
//
// Success: the backend's JSON body and status, untouched.
//
//	{ "success": true, "output": "done" }
//
// Failure (500):
//
//	{ "success": false, "output": "", "error": "Failed to execute fetcher script" }
//
// Every call is journalled. A journal failure is logged and does not change
// the response.
// ─────────────────────────────────────────────────────────────────────────────
func Run(client Backend, journal storage.Storage, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.RequestIDFrom(r.Context())
		log.Info("triggering fetcher", slog.String("request_id", requestID))

		started := time.Now()
		resp, err := client.RunFetcher(r.Context())

		run := types.FetcherRun{
			RequestID:  requestID,
			StartedAt:  started,
			DurationMS: time.Since(started).Milliseconds(),
			Succeeded:  err == nil,
		}
		if err == nil {
			run.BackendStatus = resp.StatusCode
		} else {
			run.BackendStatus = backend.StatusCode(err)
		}

		// The row is written even if the caller has already gone away.
		if _, jerr := journal.RecordFetcherRun(context.WithoutCancel(r.Context()), run); jerr != nil {
			log.Error("error recording fetcher run",
				slog.String("request_id", requestID),
				slog.String("error", jerr.Error()))
		}

		if err != nil {
			log.Error("error running fetcher",
				slog.String("request_id", requestID),
				slog.Bool("unreachable", errors.Is(err, backend.ErrUnreachable)),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.FetcherFailed())
			return
		}

		response.WriteRaw(w, resp.StatusCode, resp.Body)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// History handles GET /api/fetch-results/history?limit=N
// Returns the most recent runs, newest first. limit defaults to 20 and is
// capped at 100.
//
// Error responses:
//
//	400 Bad Request  — limit is not a positive integer
//	500 Internal     — journal read error
//
// ─────────────────────────────────────────────────────────────────────────────
func History(journal storage.Storage, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				response.WriteJSON(w, http.StatusBadRequest,
					response.GeneralError(errors.New("invalid limit: must be a positive integer")))
				return
			}
			limit = min(n, maxHistoryLimit)
		}

		runs, err := journal.GetFetcherRuns(r.Context(), limit)
		if err != nil {
			log.Error("error reading fetcher runs",
				slog.String("request_id", middleware.RequestIDFrom(r.Context())),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to read fetcher history")))
			return
		}

		response.WriteJSON(w, http.StatusOK, runs)
	}
}
