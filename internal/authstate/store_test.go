package authstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harapan-web/internal/domain"
)

func TestStore_StartsSignedOut(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Get())
	assert.False(t, s.SignedIn())
}

func TestStore_SetPublishesTypedEvents(t *testing.T) {
	s := NewStore()
	var events []domain.AuthEvent
	s.Subscribe(func(e domain.AuthEvent) { events = append(events, e) })

	user := &domain.SessionUser{UID: "u1", Email: "a@example.com"}
	s.Set(user)
	s.Set(nil)

	require.Len(t, events, 2)
	assert.Equal(t, domain.SignedIn, events[0].Kind)
	assert.Same(t, user, events[0].User)
	assert.Equal(t, domain.SignedOut, events[1].Kind)
	assert.Nil(t, events[1].User)
}

func TestStore_ListenersSeeUpdatedValue(t *testing.T) {
	s := NewStore()
	var seen *domain.SessionUser
	s.Subscribe(func(domain.AuthEvent) { seen = s.Get() })

	user := &domain.SessionUser{UID: "u1"}
	s.Set(user)

	assert.Same(t, user, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore()
	var first, second int
	cancel := s.Subscribe(func(domain.AuthEvent) { first++ })
	s.Subscribe(func(domain.AuthEvent) { second++ })

	s.Set(&domain.SessionUser{UID: "u1"})
	cancel()
	s.Set(nil)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
