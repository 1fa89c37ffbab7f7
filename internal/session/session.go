// Package session holds the per-device auth context the sync core reads:
// current user, current household and the sync mode.
package session

import (
	"sync"

	"github.com/google/uuid"
)

type Mode string

const (
	// ModeCloud mirrors every mutation to the remote store.
	ModeCloud Mode = "cloud"
	// ModeLocalOnly skips all remote operations; every mutation is
	// immediately marked synced locally.
	ModeLocalOnly Mode = "localOnly"
)

// Session is safe for concurrent use. Stores read it, the auth layer writes it.
type Session struct {
	mu           sync.RWMutex
	userID       string
	householdID  uuid.UUID
	hasHousehold bool
	mode         Mode
	onChange     []func()
}

func New(mode Mode) *Session {
	if mode == "" {
		mode = ModeCloud
	}
	return &Session{mode: mode}
}

// OnChange registers a callback invoked after every session change.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	callbacks := make([]func(), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.RUnlock()
	for _, fn := range callbacks {
		fn()
	}
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) SetUserID(id string) {
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
	s.notify()
}

// HouseholdID returns the current household, or false when none is selected.
func (s *Session) HouseholdID() (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.householdID, s.hasHousehold
}

func (s *Session) SetHouseholdID(id uuid.UUID) {
	s.mu.Lock()
	s.householdID = id
	s.hasHousehold = true
	s.mu.Unlock()
	s.notify()
}

func (s *Session) ClearHousehold() {
	s.mu.Lock()
	s.householdID = uuid.Nil
	s.hasHousehold = false
	s.mu.Unlock()
	s.notify()
}

func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	s.notify()
}
