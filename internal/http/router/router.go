// Package router assembles the route table of the front-end server.
//
// Route table:
//
//	GET  /healthz                              → liveness probe
//	GET  /api/students                         → proxy to GET  <backend>/students
//	GET  /api/students/{register_no}/sgpa      → proxy to GET  <backend>/sgpa_progression/{register_no}
//	POST /api/fetch-results                    → proxy to POST <backend>/api/run-fetcher
//	GET  /api/fetch-results/history            → recent fetcher triggers
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-frontend/internal/backend"
	"github.com/aanand-mishra/student-frontend/internal/http/handlers/fetcher"
	"github.com/aanand-mishra/student-frontend/internal/http/handlers/student"
	"github.com/aanand-mishra/student-frontend/internal/http/middleware"
	"github.com/aanand-mishra/student-frontend/internal/storage"
	"github.com/aanand-mishra/student-frontend/internal/utils/response"
)

// New wires every handler to its dependencies and wraps the mux with the
// request-id and access-log middleware.
func New(client *backend.Client, journal storage.Storage, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	})

	mux.HandleFunc("GET /api/students", student.GetList(client, log))
	mux.HandleFunc("GET /api/students/{register_no}/sgpa", student.GetSGPAProgression(client, log))

	mux.HandleFunc("POST /api/fetch-results", fetcher.Run(client, journal, log))
	mux.HandleFunc("GET /api/fetch-results/history", fetcher.History(journal, log))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(log),
	)
}
