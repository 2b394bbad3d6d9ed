// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client, even
// when the backend is down. Rather than repeating the same three lines
// (set header, set status, encode JSON) in every handler, we centralise
// them here together with the fixed failure envelopes of the proxies.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-frontend/internal/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope for errors raised by this service itself
// (bad path parameters, bad query strings):
//
//	{ "status": "error", "error": "field register_no is invalid" }
//
// Proxy failures use their own fixed envelopes below instead.
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Fixed failure messages. Callers detect failure through these fields;
// the underlying cause is never exposed.
const (
	MsgFetchStudentsFailed = "Failed to fetch students"
	MsgFetcherFailed       = "Failed to execute fetcher script"
	MsgFetchSGPAFailed     = "Failed to fetch SGPA progression"
)

// ProxyError is the failure envelope of the read-only proxies:
//
//	{ "error": "Failed to fetch students" }
type ProxyError struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteRaw relays an already-encoded JSON body byte for byte.
func WriteRaw(w http.ResponseWriter, status int, body json.RawMessage) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// StudentsFailed is the envelope of GET /api/students on any failure.
func StudentsFailed() ProxyError {
	return ProxyError{Error: MsgFetchStudentsFailed}
}

// SGPAFailed is the envelope of GET /api/students/{register_no}/sgpa on any failure.
func SGPAFailed() ProxyError {
	return ProxyError{Error: MsgFetchSGPAFailed}
}

// FetcherFailed is the envelope of POST /api/fetch-results on any failure:
//
//	{ "success": false, "output": "", "error": "Failed to execute fetcher script" }
func FetcherFailed() types.FetcherResult {
	return types.FetcherResult{Success: false, Output: "", Error: MsgFetcherFailed}
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts validator.FieldError values into a single
// human-readable Response, one sentence per failing field joined with ", ".
//
//	{ "status": "error", "error": "field register_no must be alphanumeric" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(field string, errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		name := e.Field()
		if name == "" {
			// Var() validations carry no struct field name.
			name = field
		}

		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", name))
		case "alphanum":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be alphanumeric", name))
		case "min", "max":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be between bounds (%s %s)", name, e.ActualTag(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", name))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
