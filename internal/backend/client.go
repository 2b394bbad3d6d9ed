// Package backend is the HTTP client for the student records backend.
//
// Each method performs exactly one outbound request, bound to the caller's
// context, and hands back the backend's JSON body untouched. The client never
// retries and never caches: whatever the backend says on that one call is
// the answer.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend paths, relative to the configured base URL.
const (
	studentsPath        = "/students"
	runFetcherPath      = "/api/run-fetcher"
	sgpaProgressionPath = "/sgpa_progression/"
)

var (
	// ErrUnreachable means the request never produced a response.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrUnexpectedStatus means the backend answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("backend returned unexpected status")
	// ErrMalformedBody means a 2xx response whose body is not valid JSON.
	ErrMalformedBody = errors.New("backend returned malformed body")
)

// StatusError is returned when the backend answered but the reply was not
// usable. Err is ErrUnexpectedStatus for a non-2xx status and
// ErrMalformedBody for a 2xx reply that is not JSON, so errors.Is keeps
// working against the sentinels.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s %s: %d", e.Err, e.Method, e.Path, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0 when the backend
// never answered.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Response is a successful backend reply.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for baseURL. A zero timeout keeps the
// transport default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListStudents calls GET /students.
func (c *Client) ListStudents(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, studentsPath)
}

// RunFetcher calls POST /api/run-fetcher. Every call starts a new fetcher
// job on the backend.
func (c *Client) RunFetcher(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodPost, runFetcherPath)
}

// SGPAProgression calls GET /sgpa_progression/{registerNo}.
func (c *Client) SGPAProgression(ctx context.Context, registerNo string) (*Response, error) {
	return c.do(ctx, http.MethodGet, sgpaProgressionPath+url.PathEscape(registerNo))
}

func (c *Client) do(ctx context.Context, method, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %v", ErrUnreachable, method, path, err)
	}

	c.logger.Debug("backend call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if !json.Valid(body) {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Err: ErrMalformedBody}
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
