package services

import (
	"context"
	"errors"
	"sync"

	"github.com/iysravet/iyscli/internal/client/api"
	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/common"
	"github.com/iysravet/iyscli/internal/logging"
	"github.com/iysravet/iyscli/internal/session"
)

// EventFeed fetches the published event list for a signed-in user and keeps
// the last result. A logout arriving while a fetch is on the wire cancels it,
// and the abandoned fetch leaves both the cached list and the error state
// untouched.
type EventFeed struct {
	client      api.Client
	store       *session.Store
	broadcaster *session.Broadcaster
	log         logging.Logger

	mu     sync.Mutex
	events []models.EventRecord
	err    error
}

func NewEventFeed(client api.Client, store *session.Store, b *session.Broadcaster, log logging.Logger) *EventFeed {
	return &EventFeed{client: client, store: store, broadcaster: b, log: log}
}

// Refresh fetches the event list using the current session's credential.
// Anonymous callers are refused before any request is made.
func (f *EventFeed) Refresh(ctx context.Context) ([]models.EventRecord, error) {
	cur := f.store.Current()
	if !cur.Authenticated {
		return nil, common.ErrUnauthorized
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := f.broadcaster.Subscribe(func(e session.Event) {
		if e == session.EventLogout {
			cancel()
		}
	})
	defer unsubscribe()

	events, err := f.client.Events(ctx, cur.Token)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			f.log.Debug(ctx, "event fetch abandoned")
			return nil, err
		}
		f.err = err
		return nil, err
	}

	f.events = events
	f.err = nil
	return events, nil
}

// Cached returns the last completed fetch's result without touching the
// network.
func (f *EventFeed) Cached() ([]models.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, f.err
}
