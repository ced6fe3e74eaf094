// Package roster owns the participant list shared by the draw and grouping tools.
package roster

import (
	"sync"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

// Listener is notified with a copy of the roster after every replacement
type Listener func(list []models.Participant)

// Store holds the canonical roster. The only mutation is a full Replace;
// derived state (draw pool, duplicate set) is recomputed by listeners.
type Store struct {
	// replaceMu orders whole replacements, write plus notify, so listeners
	// see rosters in the same order the store does
	replaceMu sync.Mutex
	mu        sync.RWMutex
	list      []models.Participant
	listeners []Listener
}

// NewStore creates an empty roster store
func NewStore() *Store {
	return &Store{}
}

// Current returns a copy of the roster in display order
func (s *Store) Current() []models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.list)
}

// Len returns the number of participants
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Replace swaps in a new roster and notifies listeners in registration order.
// Listeners run after the write lock is released so they may call Current,
// but must not call Replace.
func (s *Store) Replace(list []models.Participant) {
	s.replaceMu.Lock()
	defer s.replaceMu.Unlock()

	s.mu.Lock()
	s.list = clone(list)
	listeners := append([]Listener(nil), s.listeners...)
	snapshot := clone(s.list)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(clone(snapshot))
	}
}

// Subscribe registers fn for future replacements
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func clone(list []models.Participant) []models.Participant {
	out := make([]models.Participant, len(list))
	copy(out, list)
	return out
}
