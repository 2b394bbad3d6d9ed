package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-frontend/internal/backend"
	"github.com/aanand-mishra/student-frontend/internal/http/router"
	"github.com/aanand-mishra/student-frontend/internal/storage/sqlite"
	"github.com/aanand-mishra/student-frontend/internal/store"
	"github.com/aanand-mishra/student-frontend/internal/types"
)

type stubAPI struct {
	students []types.Student
	err      error
	result   types.FetcherResult
	points   []types.SGPAPoint
}

func (s *stubAPI) Students(context.Context) ([]types.Student, error) { return s.students, s.err }

func (s *stubAPI) SGPAProgression(context.Context, string) ([]types.SGPAPoint, error) {
	return s.points, s.err
}

func (s *stubAPI) RunFetcher(context.Context) (types.FetcherResult, error) { return s.result, s.err }

func record(st *store.Store) *[]store.State {
	var states []store.State
	st.Subscribe(func(s store.State) { states = append(states, s) })
	return &states
}

func TestSession_Load(t *testing.T) {
	api := &stubAPI{students: []types.Student{{RegisterNo: "A1", Name: "X"}}}
	s := NewSession(store.New(), api)
	states := record(s.Store())

	require.NoError(t, s.Load(context.Background()))

	got := *states
	require.Len(t, got, 5) // initial, loading, clear error, students, not loading
	assert.True(t, got[1].Loading)
	assert.True(t, got[3].Loading)
	assert.Len(t, got[3].Students, 1)
	assert.False(t, got[4].Loading)
	assert.Nil(t, got[4].Error)
}

func TestSession_LoadError(t *testing.T) {
	api := &stubAPI{err: errors.New("Failed to fetch students")}
	s := NewSession(store.New(), api)

	err := s.Load(context.Background())
	require.Error(t, err)

	final := s.Store().Snapshot()
	assert.False(t, final.Loading)
	require.NotNil(t, final.Error)
	assert.Equal(t, "Failed to fetch students", *final.Error)
	assert.Empty(t, final.Students)
}

func TestSession_Select(t *testing.T) {
	api := &stubAPI{students: []types.Student{{RegisterNo: "A1"}, {RegisterNo: "B2"}}}
	s := NewSession(store.New(), api)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Select("B2"))
	assert.Equal(t, "B2", s.Store().Snapshot().SelectedStudent.RegisterNo)

	assert.Error(t, s.Select("ZZ"))
	assert.Equal(t, "B2", s.Store().Snapshot().SelectedStudent.RegisterNo)
	assert.Equal(t, "student ZZ not found", *s.Store().Snapshot().Error)
}

func TestSession_RunFetcherFailure(t *testing.T) {
	api := &stubAPI{result: types.FetcherResult{Success: false, Error: "Failed to execute fetcher script"}}
	s := NewSession(store.New(), api)

	result, err := s.RunFetcher(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Failed to execute fetcher script", *s.Store().Snapshot().Error)
	assert.False(t, s.Store().Snapshot().Loading)
}

// End to end: fake backend → router → APIClient → Session.
func TestSession_AgainstRouter(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/students":
			_, _ = w.Write([]byte(`[{"register_no":"A1","name":"X","cgpa":8.5,"course":"CS","school":"Eng","course_duration":"4y","semesters":"[]"}]`))
		case "/api/run-fetcher":
			_, _ = w.Write([]byte(`{"success":true,"output":"done"}`))
		case "/sgpa_progression/A1":
			_, _ = w.Write([]byte(`[{"semester":1,"year":2023,"month":"DEC","sgpa":8.1}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	journal, err := sqlite.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer journal.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	frontend := httptest.NewServer(router.New(backend.NewClient(upstream.URL, time.Second, log), journal, log))
	defer frontend.Close()

	s := NewSession(store.New(), NewAPIClient(frontend.URL, time.Second))
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Select("A1"))
	assert.InDelta(t, 8.5, *s.Store().Snapshot().SelectedStudent.CGPA, 0.0001)

	points, err := s.SGPAProgression(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 2023, points[0].Year)

	result, err := s.RunFetcher(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.FetcherResult{Success: true, Output: "done"}, result)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s.Store().Snapshot()))
	assert.Contains(t, buf.String(), "A1")
	assert.Contains(t, buf.String(), "8.50")
	assert.Contains(t, buf.String(), "no semesters")
}

func TestAPIClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch students"}`))
	}))
	defer srv.Close()

	_, err := NewAPIClient(srv.URL, time.Second).Students(context.Background())
	assert.EqualError(t, err, "Failed to fetch students")
}

func TestRender_States(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, store.State{Loading: true}))
	assert.Equal(t, "loading...\n", buf.String())

	buf.Reset()
	msg := "boom"
	require.NoError(t, Render(&buf, store.State{Error: &msg}))
	assert.Equal(t, "error: boom\n", buf.String())

	buf.Reset()
	bad := types.Student{RegisterNo: "A1", Name: "X", Semesters: "{"}
	require.NoError(t, Render(&buf, store.State{Students: []types.Student{bad}, SelectedStudent: &bad}))
	assert.Contains(t, buf.String(), "semesters unreadable")
	assert.Contains(t, buf.String(), "-") // nil CGPA
}
