package auth

import (
	"sync"

	"github.com/google/uuid"
)

// SessionEvent describes a change to a user's session.
type SessionEvent string

const (
	EventSignedUp       SessionEvent = "signed_up"
	EventSignedIn       SessionEvent = "signed_in"
	EventSignedOut      SessionEvent = "signed_out"
	EventTokenRefreshed SessionEvent = "token_refreshed"
)

// SessionListener receives session change notifications. Listeners run
// synchronously on the request goroutine and must not block.
type SessionListener func(event SessionEvent, userID uuid.UUID)

// SessionBus fans session changes out to subscribers. The auth service
// publishes; modules that react to sign-up/sign-out subscribe at startup.
type SessionBus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]SessionListener
}

func NewSessionBus() *SessionBus {
	return &SessionBus{listeners: make(map[int]SessionListener)}
}

// Subscribe registers a listener and returns an unsubscribe func.
func (b *SessionBus) Subscribe(l SessionListener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *SessionBus) Publish(event SessionEvent, userID uuid.UUID) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.listeners {
		l(event, userID)
	}
}
