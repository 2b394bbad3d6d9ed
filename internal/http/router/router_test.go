package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-frontend/internal/backend"
	"github.com/aanand-mishra/student-frontend/internal/http/middleware"
	"github.com/aanand-mishra/student-frontend/internal/storage/sqlite"
	"github.com/aanand-mishra/student-frontend/internal/types"
)

const studentsBody = `[{"register_no":"A1","name":"X","cgpa":8.5,"course":"CS","school":"Eng","course_duration":"4y","semesters":"[]"}]`

type fixture struct {
	frontend *httptest.Server
	healthy  atomic.Bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{}
	f.healthy.Store(true)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !f.healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.Method + " " + r.URL.Path {
		case "GET /students":
			_, _ = w.Write([]byte(studentsBody))
		case "POST /api/run-fetcher":
			_, _ = w.Write([]byte(`{"success":true,"output":"done"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	journal, err := sqlite.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := backend.NewClient(upstream.URL, time.Second, log)

	f.frontend = httptest.NewServer(New(client, journal, log))
	t.Cleanup(f.frontend.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, f.frontend.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes_HappyPath(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, body = f.do(t, http.MethodGet, "/api/students")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, studentsBody, body)

	resp, body = f.do(t, http.MethodPost, "/api/fetch-results")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"output":"done"}`, body)
}

func TestRoutes_BackendDown(t *testing.T) {
	f := newFixture(t)
	f.healthy.Store(false)

	resp, body := f.do(t, http.MethodGet, "/api/students")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch students"}`, body)

	resp, body = f.do(t, http.MethodPost, "/api/fetch-results")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"output":"","error":"Failed to execute fetcher script"}`, body)
}

func TestRoutes_HistoryReflectsTriggers(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/api/fetch-results")
	f.healthy.Store(false)
	f.do(t, http.MethodPost, "/api/fetch-results")

	resp, body := f.do(t, http.MethodGet, "/api/fetch-results/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []types.FetcherRun
	require.NoError(t, json.Unmarshal([]byte(body), &runs))
	require.Len(t, runs, 2)
	assert.False(t, runs[0].Succeeded)
	assert.Equal(t, http.StatusInternalServerError, runs[0].BackendStatus)
	assert.True(t, runs[1].Succeeded)
	assert.Equal(t, http.StatusOK, runs[1].BackendStatus)
	assert.NotEmpty(t, runs[1].RequestID)
}

func TestRoutes_MethodMismatch(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/fetch-results")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
