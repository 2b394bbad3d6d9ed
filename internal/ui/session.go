// Package ui drives a terminal view of the student records.
//
// A Session owns a store.Store and mirrors what the browser pages do with
// it: flip the loading flag around a fetch, replace the list, record the
// selection, surface the error message.
package ui

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/student-frontend/internal/store"
	"github.com/aanand-mishra/student-frontend/internal/types"
)

// API is what a Session needs from the front-end.
type API interface {
	Students(ctx context.Context) ([]types.Student, error)
	SGPAProgression(ctx context.Context, registerNo string) ([]types.SGPAPoint, error)
	RunFetcher(ctx context.Context) (types.FetcherResult, error)
}

// Session is one UI session.
type Session struct {
	store *store.Store
	api   API
}

// NewSession binds a store to an API client.
func NewSession(st *store.Store, api API) *Session {
	return &Session{store: st, api: api}
}

// Store returns the session's state container.
func (s *Session) Store() *store.Store {
	return s.store
}

// Load refreshes the student list.
func (s *Session) Load(ctx context.Context) error {
	s.store.SetLoading(true)
	s.store.SetError(nil)
	defer s.store.SetLoading(false)

	students, err := s.api.Students(ctx)
	if err != nil {
		msg := err.Error()
		s.store.SetError(&msg)
		return err
	}

	s.store.SetStudents(students)
	return nil
}

// Select marks the student with registerNo as selected. It only looks in
// the list already loaded.
func (s *Session) Select(registerNo string) error {
	for _, st := range s.store.Snapshot().Students {
		if st.RegisterNo == registerNo {
			s.store.SelectStudent(st)
			return nil
		}
	}

	err := fmt.Errorf("student %s not found", registerNo)
	msg := err.Error()
	s.store.SetError(&msg)
	return err
}

// SGPAProgression fetches the SGPA history of one student.
func (s *Session) SGPAProgression(ctx context.Context, registerNo string) ([]types.SGPAPoint, error) {
	points, err := s.api.SGPAProgression(ctx, registerNo)
	if err != nil {
		msg := err.Error()
		s.store.SetError(&msg)
		return nil, err
	}
	return points, nil
}

// RunFetcher triggers the backend fetcher. A failed run is reported through
// the store's error and the returned result.
func (s *Session) RunFetcher(ctx context.Context) (types.FetcherResult, error) {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	result, err := s.api.RunFetcher(ctx)
	if err != nil {
		msg := err.Error()
		s.store.SetError(&msg)
		return result, err
	}

	if !result.Success {
		msg := result.Error
		s.store.SetError(&msg)
	} else {
		s.store.SetError(nil)
	}
	return result, nil
}
