// Package student contains the HTTP handlers that proxy student reads to
// the backend.
//
// HANDLER PATTERN — THE CLOSURE / FACTORY PATTERN:
// ─────────────────────────────────────────────────
// The router expects func(http.ResponseWriter, *http.Request). Each factory
// below receives its dependencies once at startup and returns the handler
// that runs on every request:
//
//	router.HandleFunc("GET /api/students", student.GetList(client, log))
//
// FAILURE POLICY:
// ───────────────
// Whatever goes wrong upstream (unreachable, non-2xx, bad JSON) the caller
// gets the same fixed envelope with a 500. The cause is logged, never sent.
package student

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-frontend/internal/backend"
	"github.com/aanand-mishra/student-frontend/internal/http/middleware"
	"github.com/aanand-mishra/student-frontend/internal/utils/response"
)

// Backend is the slice of the backend client these handlers need.
type Backend interface {
	ListStudents(ctx context.Context) (*backend.Response, error)
	SGPAProgression(ctx context.Context, registerNo string) (*backend.Response, error)
}

// validate is shared; *validator.Validate caches struct info and is safe
// for concurrent use.
var validate = validator.New()

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Forwards to GET <backend>/students with no parameters.
//
// Success: the backend's JSON body and status, untouched.
//
//	[ { "register_no": "A1", "name": "X", "cgpa": 8.5, ... } ]
//
// Failure (500):
//
//	{ "error": "Failed to fetch students" }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(client Backend, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.RequestIDFrom(r.Context())

		resp, err := client.ListStudents(r.Context())
		if err != nil {
			log.Error("error fetching students",
				slog.String("request_id", requestID),
				slog.String("kind", failureKind(err)),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.StudentsFailed())
			return
		}

		response.WriteRaw(w, resp.StatusCode, resp.Body)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetSGPAProgression handles GET /api/students/{register_no}/sgpa
// Forwards to GET <backend>/sgpa_progression/{register_no}.
//
// Success (200): the backend's list of { semester, year, month, sgpa }.
//
// Error responses:
//
//	400 Bad Request  — register_no empty or not alphanumeric
//	500 Internal     — { "error": "Failed to fetch SGPA progression" }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetSGPAProgression(client Backend, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerNo := r.PathValue("register_no")
		requestID := middleware.RequestIDFrom(r.Context())

		if err := validate.Var(registerNo, "required,alphanum,max=64"); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError("register_no", validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		resp, err := client.SGPAProgression(r.Context(), registerNo)
		if err != nil {
			log.Error("error fetching sgpa progression",
				slog.String("request_id", requestID),
				slog.String("register_no", registerNo),
				slog.String("kind", failureKind(err)),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.SGPAFailed())
			return
		}

		response.WriteRaw(w, resp.StatusCode, resp.Body)
	}
}

// failureKind names the upstream failure class for the logs only.
func failureKind(err error) string {
	switch {
	case errors.Is(err, backend.ErrUnreachable):
		return "unreachable"
	case errors.Is(err, backend.ErrUnexpectedStatus):
		return "status"
	case errors.Is(err, backend.ErrMalformedBody):
		return "body"
	default:
		return "unknown"
	}
}
