package session

import "sync"

// Event is an authentication transition signal. It carries no payload:
// subscribers re-read the session themselves, so a handler can never act on
// stale data smuggled inside the event.
type Event string

const (
	EventLogin  Event = "auth:login"
	EventLogout Event = "auth:logout"
)

// Broadcaster fans authentication transitions out to UI regions that do not
// share a common owner (the prompt/status line, the events view). Delivery
// is synchronous and best-effort; subscribers registered after a publish do
// not see it.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func(Event))}
}

// Subscribe registers handler and returns a function that removes it.
// Unsubscribing twice is harmless.
func (b *Broadcaster) Subscribe(handler func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish invokes every current subscriber with the event. Handlers run on
// the caller's goroutine, so by the time Publish returns every subscriber
// has observed the transition.
func (b *Broadcaster) Publish(event Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}
