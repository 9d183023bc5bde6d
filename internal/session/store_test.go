package session

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iysravet/iyscli/internal/client/repositories/creds"
	"github.com/iysravet/iyscli/internal/logging"

	_ "modernc.org/sqlite"
)

var testNow = time.Unix(1_700_000_000, 0)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE creds (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func newTestStore(t *testing.T) (*Store, *sql.DB, *Broadcaster) {
	t.Helper()
	db := setupDB(t)
	b := NewBroadcaster()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewStore(db, b, log)
	s.now = func() time.Time { return testNow }
	return s, db, b
}

func mintToken(t *testing.T, subject string, expiresAt *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: subject}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func persistedValue(t *testing.T, db *sql.DB, key string) string {
	t.Helper()
	v, err := creds.NewSQLiteRepository(db).Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestRestore_ValidToken_UsernameFromSubject(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	exp := testNow.Add(time.Hour)
	tok := mintToken(t, "radha@example.com", &exp)
	require.NoError(t, creds.NewSQLiteRepository(db).Set(ctx, KeyToken, tok))

	s.Restore(ctx)

	cur := s.Current()
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "radha@example.com", cur.Username)
	assert.Equal(t, tok, cur.Token)
}

func TestRestore_NoSubject_FallsBackToPersistedUsername(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()
	repo := creds.NewSQLiteRepository(db)

	exp := testNow.Add(time.Hour)
	require.NoError(t, repo.Set(ctx, KeyToken, mintToken(t, "", &exp)))
	require.NoError(t, repo.Set(ctx, KeyUsername, "saved-name"))

	s.Restore(ctx)

	cur := s.Current()
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "saved-name", cur.Username)
}

func TestRestore_ExpiredToken_AnonymousAndCleared(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()
	repo := creds.NewSQLiteRepository(db)

	exp := testNow.Add(-time.Second)
	require.NoError(t, repo.Set(ctx, KeyToken, mintToken(t, "u", &exp)))
	require.NoError(t, repo.Set(ctx, KeyUsername, "u"))

	s.Restore(ctx)

	assert.Equal(t, Session{}, s.Current())
	assert.Empty(t, persistedValue(t, db, KeyToken))
	assert.Empty(t, persistedValue(t, db, KeyUsername))
}

func TestRestore_NoPersistedToken_Anonymous(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.Restore(context.Background())
	assert.Equal(t, Session{}, s.Current())
}

func TestRestore_OpenEndedToken_IsAccepted(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, creds.NewSQLiteRepository(db).Set(ctx, KeyToken, mintToken(t, "u", nil)))

	s.Restore(ctx)
	assert.True(t, s.Current().Authenticated)
}

func TestSetAuth_PersistsTrimmedTokenAndUsername(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	exp := testNow.Add(time.Hour)
	tok := mintToken(t, "subject@example.com", &exp)

	s.SetAuth(ctx, "  "+tok+"\n", "Display Name")

	cur := s.Current()
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "Display Name", cur.Username)
	assert.Equal(t, tok, cur.Token)

	assert.Equal(t, tok, persistedValue(t, db, KeyToken))
	assert.Equal(t, "Display Name", persistedValue(t, db, KeyUsername))
}

func TestSetAuth_UsernameFallsBackToSubject(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	exp := testNow.Add(time.Hour)
	s.SetAuth(ctx, mintToken(t, "sub@example.com", &exp), "")

	assert.Equal(t, "sub@example.com", s.Current().Username)
	assert.Equal(t, "sub@example.com", persistedValue(t, db, KeyUsername))
}

func TestSetAuth_EmptyToken_IsLogout(t *testing.T) {
	s, db, b := newTestStore(t)
	ctx := context.Background()

	var events []Event
	b.Subscribe(func(e Event) { events = append(events, e) })

	exp := testNow.Add(time.Hour)
	s.SetAuth(ctx, mintToken(t, "u", &exp), "u")
	s.SetAuth(ctx, "", "")

	assert.Equal(t, Session{}, s.Current())
	assert.Empty(t, persistedValue(t, db, KeyToken))
	assert.Empty(t, persistedValue(t, db, KeyUsername))
	assert.Equal(t, []Event{EventLogin, EventLogout}, events)
}

func TestSetAuth_LogoutFromAnonymousStaysAnonymous(t *testing.T) {
	s, _, b := newTestStore(t)

	var events []Event
	b.Subscribe(func(e Event) { events = append(events, e) })

	s.SetAuth(context.Background(), "", "")

	assert.Equal(t, Session{}, s.Current())
	assert.Equal(t, []Event{EventLogout}, events)
}

func TestSetAuth_UnusableToken_ResetsToAnonymous(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	s.SetAuth(ctx, "not-a-token", "user")

	assert.Equal(t, Session{}, s.Current())
	assert.Empty(t, persistedValue(t, db, KeyToken))
}

func TestSetAuth_PersistsBeforePublish(t *testing.T) {
	s, db, b := newTestStore(t)
	ctx := context.Background()

	exp := testNow.Add(time.Hour)
	tok := mintToken(t, "ordered@example.com", &exp)

	// A subscriber re-reading both the snapshot and the persisted value
	// during delivery must observe the new state, never the old one.
	var seenSnapshot Session
	var seenPersisted string
	b.Subscribe(func(e Event) {
		seenSnapshot = s.Current()
		seenPersisted = persistedValue(t, db, KeyToken)
	})

	s.SetAuth(ctx, tok, "")

	assert.True(t, seenSnapshot.Authenticated)
	assert.Equal(t, tok, seenSnapshot.Token)
	assert.Equal(t, tok, seenPersisted)
}
