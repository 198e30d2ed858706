package session

import (
	"sync"
)

// Listener receives every state transition, in mutation order.
type Listener func(prev, next State)

// Store holds the session state and broadcasts transitions to subscribers.
//
// Listeners run synchronously on the mutating goroutine after the new state
// is visible through State. A listener may call State but must not call a
// mutator: dispatch is serialized and doing so deadlocks.
type Store struct {
	dispatch sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store in the given initial status. Only Checking and
// Unauthenticated are valid starting points; anything else starts
// Unauthenticated.
func NewStore(initial Status) *Store {
	if initial != Checking {
		initial = Unauthenticated
	}
	return &Store{
		state:     State{Status: initial},
		listeners: make(map[int]Listener),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Status returns the current status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetChecking moves to Checking and clears the user.
func (s *Store) SetChecking() {
	s.apply(State{Status: Checking})
}

// SetAuthenticated moves to Authenticated with a copy of u. Setting the
// user that is already stored is a no-op and notifies nobody.
func (s *Store) SetAuthenticated(u *User) error {
	if u == nil {
		return ErrNilUser
	}
	c := u.clone()
	s.apply(State{Status: Authenticated, User: &c})
	return nil
}

// SetUnauthenticated moves to Unauthenticated and clears the user.
func (s *Store) SetUnauthenticated() {
	s.apply(State{Status: Unauthenticated})
}

func (s *Store) apply(next State) {
	if !next.Valid() {
		return
	}
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	prev := s.state
	if prev.Equal(next) {
		s.mu.Unlock()
		return
	}
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(prev.clone(), next.clone())
	}
}
