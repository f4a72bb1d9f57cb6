// Package authstate holds the mirrored sign-in state of the current page
// session and publishes typed change events to subscribers.
package authstate

import (
	"sync"

	"harapan-web/internal/domain"
)

// Listener receives state change events
type Listener func(domain.AuthEvent)

// Store is a single-slot holder for the currently signed-in user.
// Listeners run synchronously, in subscription order, outside the lock.
type Store struct {
	mu        sync.RWMutex
	user      *domain.SessionUser
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// NewStore creates an empty (signed out) store
func NewStore() *Store {
	return &Store{}
}

// Get returns the mirrored user, or nil when signed out
func (s *Store) Get() *domain.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SignedIn reports whether a user is mirrored
func (s *Store) SignedIn() bool {
	return s.Get() != nil
}

// Set replaces the mirrored user and notifies listeners with the matching event
func (s *Store) Set(user *domain.SessionUser) {
	s.mu.Lock()
	s.user = user
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	event := domain.EventFor(user)
	for _, l := range listeners {
		l.fn(event)
	}
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
