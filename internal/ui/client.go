package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/student-frontend/internal/types"
)

// APIClient calls the front-end's own /api routes, the way a browser page would.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient returns a client for the front-end at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Students fetches GET /api/students.
func (c *APIClient) Students(ctx context.Context) ([]types.Student, error) {
	var students []types.Student
	if err := c.getJSON(ctx, "/api/students", &students); err != nil {
		return nil, err
	}
	return students, nil
}

// SGPAProgression fetches GET /api/students/{register_no}/sgpa.
func (c *APIClient) SGPAProgression(ctx context.Context, registerNo string) ([]types.SGPAPoint, error) {
	var points []types.SGPAPoint
	if err := c.getJSON(ctx, "/api/students/"+url.PathEscape(registerNo)+"/sgpa", &points); err != nil {
		return nil, err
	}
	return points, nil
}

// RunFetcher posts to /api/fetch-results. The proxy always answers with a
// FetcherResult, so a failed run comes back as Success=false with no error.
func (c *APIClient) RunFetcher(ctx context.Context) (types.FetcherResult, error) {
	var result types.FetcherResult

	body, _, err := c.do(ctx, http.MethodPost, "/api/fetch-results")
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("decode fetcher result: %w", err)
	}
	return result, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, out any) error {
	body, status, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
			return errors.New(envelope.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", path, status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *APIClient) do(ctx context.Context, method, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return body, resp.StatusCode, nil
}
