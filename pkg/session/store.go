package session

import "sync"

// State is an immutable snapshot of the client-held session.
type State struct {
	User     *User
	Role     string
	Token    string
	Hydrated bool
}

// Store holds the authenticated identity on the client side. Until Hydrated
// reports true the UI cannot tell "no session" apart from "still resolving".
type Store struct {
	mu       sync.RWMutex
	user     *User
	role     string
	token    string
	hydrated bool
}

// NewStore returns an empty, not-yet-hydrated store.
func NewStore() *Store {
	return &Store{}
}

// SetSession replaces the identity, deriving the role from the user record.
func (s *Store) SetSession(user User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.role = user.Role
	s.token = token
}

// ClearSession drops the identity. The hydrated latch is left untouched: an
// application that has hydrated once stays hydrated even after logout.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.role = ""
	s.token = ""
}

// markHydrated flips the one-shot latch. It is never reset.
func (s *Store) markHydrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
}

// Hydrated reports whether the first reconciliation attempt has completed.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Token returns the cached access token, if any.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := State{Role: s.role, Token: s.token, Hydrated: s.hydrated}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}
