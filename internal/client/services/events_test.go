package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/common"
	"github.com/iysravet/iyscli/internal/logging"
	"github.com/iysravet/iyscli/internal/session"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func signedInStore(t *testing.T) (*session.Store, *session.Broadcaster, string) {
	t.Helper()
	store, b := newTestStore(t)
	tok := mintToken(t, "radha@example.com")
	store.SetAuth(context.Background(), tok, "Radha")
	return store, b, tok
}

func TestEventFeed_RefusesAnonymous(t *testing.T) {
	store, b := newTestStore(t)
	called := false
	client := &fakeClient{
		eventsFn: func(context.Context, string) ([]models.EventRecord, error) {
			called = true
			return nil, nil
		},
	}

	feed := NewEventFeed(client, store, b, discardLogger())
	_, err := feed.Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.False(t, called, "anonymous refresh must not reach the transport")
}

func TestEventFeed_RefreshCachesResult(t *testing.T) {
	store, b, tok := signedInStore(t)
	want := []models.EventRecord{
		{ID: "ev-1", Title: "Char Dham", Registration: models.RegistrationWindow{Open: true}},
		{ID: "ev-2", Title: "Vrindavan", Registration: models.RegistrationWindow{Open: false}},
	}

	var gotBearer string
	client := &fakeClient{
		eventsFn: func(_ context.Context, bearer string) ([]models.EventRecord, error) {
			gotBearer = bearer
			return want, nil
		},
	}

	feed := NewEventFeed(client, store, b, discardLogger())
	got, err := feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, tok, gotBearer)

	cached, err := feed.Cached()
	require.NoError(t, err)
	assert.Equal(t, want, cached)
}

func TestEventFeed_FailureRecorded(t *testing.T) {
	store, b, _ := signedInStore(t)
	client := &fakeClient{
		eventsFn: func(context.Context, string) ([]models.EventRecord, error) {
			return nil, common.ErrNetworkFailure
		},
	}

	feed := NewEventFeed(client, store, b, discardLogger())
	_, err := feed.Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrNetworkFailure)

	_, cachedErr := feed.Cached()
	assert.ErrorIs(t, cachedErr, common.ErrNetworkFailure)
}

func TestEventFeed_LogoutAbandonsInFlightFetch(t *testing.T) {
	store, b, _ := signedInStore(t)
	seeded := []models.EventRecord{{ID: "ev-1", Title: "Char Dham"}}

	started := make(chan struct{})
	blocking := false
	client := &fakeClient{}
	client.eventsFn = func(ctx context.Context, _ string) ([]models.EventRecord, error) {
		if !blocking {
			return seeded, nil
		}
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	feed := NewEventFeed(client, store, b, discardLogger())
	_, err := feed.Refresh(context.Background())
	require.NoError(t, err)

	blocking = true
	done := make(chan error, 1)
	go func() {
		_, err := feed.Refresh(context.Background())
		done <- err
	}()
	<-started

	// signing out cancels the in-flight fetch
	store.SetAuth(context.Background(), "", "")

	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not observe the logout")
	}
	require.ErrorIs(t, err, context.Canceled)

	// the abandoned fetch wrote neither events nor an error
	cached, cachedErr := feed.Cached()
	assert.NoError(t, cachedErr)
	assert.Equal(t, seeded, cached)
}
