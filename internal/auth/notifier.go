package auth

import (
	"log/slog"
	"sync"
)

type Event string

const (
	EventSignedIn    Event = "SIGNED_IN"
	EventSignedUp    Event = "SIGNED_UP"
	EventSignedOut   Event = "SIGNED_OUT"
	EventUserUpdated Event = "USER_UPDATED"
)

// Listener receives auth state changes. userID is empty when unknown.
type Listener func(event Event, userID string)

// Notifier fans auth state changes out to subscribed listeners.
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a func that removes it again.
func (n *Notifier) Subscribe(fn Listener) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) Notify(event Event, userID string) {
	n.mu.RLock()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.RUnlock()

	for _, fn := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("auth listener panicked", "event", event, "panic", r)
				}
			}()
			fn(event, userID)
		}()
	}
}
