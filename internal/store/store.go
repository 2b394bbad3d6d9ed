// Package store holds the observable UI state for the student views.
//
// A Store is an explicit object: create one per UI session with New and pass
// it to whatever renders the state. There is no package-level instance.
//
// UPDATE MODEL:
// ─────────────
// Every mutator copies the current State, replaces one field group in the
// copy, swaps the copy in and then calls every subscriber synchronously with
// the new value. Subscribers never see a half-applied update. When several
// goroutines mutate the same Store the last write wins; nothing is merged.
//
// Delivery is serialised: each subscriber sees states in the order they were
// swapped in, and the last state it receives is the one Snapshot returns.
// A subscriber may read the Store (Snapshot) but must not call a mutator or
// Subscribe from inside its callback.
package store

import (
	"slices"
	"sync"

	"github.com/aanand-mishra/student-frontend/internal/types"
)

// State is the full UI state delivered to subscribers.
//
// SelectedStudent and Error are pointers so "nothing selected" and
// "no error" are distinguishable from zero values.
type State struct {
	Students        []types.Student
	SelectedStudent *types.Student
	Loading         bool
	Error           *string
}

// clone returns a State that shares no memory with st.
func (st State) clone() State {
	out := st
	out.Students = slices.Clone(st.Students)
	if st.SelectedStudent != nil {
		sel := *st.SelectedStudent
		out.SelectedStudent = &sel
	}
	if st.Error != nil {
		msg := *st.Error
		out.Error = &msg
	}
	return out
}

// Subscriber receives the full state on subscription and after every change.
type Subscriber func(State)

// Store is the student state container.
type Store struct {
	// notifyMu is held from the swap until every subscriber has returned.
	notifyMu sync.Mutex

	mu     sync.Mutex
	state  State
	subs   map[uint64]Subscriber
	order  []uint64 // subscription order, used for notification order
	nextID uint64
}

// New returns a Store with empty defaults: no students, nothing selected,
// not loading, no error.
func New() *Store {
	return &Store{
		state: State{Students: []types.Student{}},
		subs:  make(map[uint64]Subscriber),
	}
}

// Subscribe registers fn and immediately calls it with the current snapshot.
// The returned function removes the subscription; calling it twice is a no-op.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	current := s.state
	s.mu.Unlock()

	fn(current.clone())

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		s.order = slices.DeleteFunc(s.order, func(v uint64) bool { return v == id })
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetStudents replaces the student list wholesale with a copy of students.
// No merge, no dedupe, no validation.
func (s *Store) SetStudents(students []types.Student) {
	students = slices.Clone(students)

	s.update(func(st State) State {
		st.Students = students
		return st
	})
}

// SelectStudent replaces the selection. The student does not have to be
// present in Students.
func (s *Store) SelectStudent(student types.Student) {
	s.update(func(st State) State {
		st.SelectedStudent = &student
		return st
	})
}

// SetLoading replaces the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st State) State {
		st.Loading = loading
		return st
	})
}

// SetError replaces the error message; nil clears it.
func (s *Store) SetError(msg *string) {
	if msg != nil {
		m := *msg
		msg = &m
	}

	s.update(func(st State) State {
		st.Error = msg
		return st
	})
}

// update applies fn to a copy of the state and swaps the result in, then
// notifies subscribers while still holding notifyMu. The state lock is
// released before the callbacks run so they can call Snapshot.
func (s *Store) update(fn func(State) State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	subs := make([]Subscriber, 0, len(s.order))
	for _, id := range s.order {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(next.clone())
	}
}
