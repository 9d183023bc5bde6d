// Package session owns the client's authentication state: a single
// process-wide snapshot backed by the local credentials store, plus a
// broadcaster that tells independent UI regions when the state changes.
package session

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/iysravet/iyscli/internal/client/repositories/creds"
	"github.com/iysravet/iyscli/internal/dbx"
	"github.com/iysravet/iyscli/internal/logging"
	"github.com/iysravet/iyscli/internal/session/token"
)

// Persisted credential keys. Both absent means an anonymous session.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// Session is the client's belief about who is signed in. Authenticated
// implies Token is non-empty and currently valid per the token codec.
type Session struct {
	Authenticated bool
	Username      string
	Token         string
}

// Store is the single source of truth for the session. All reads and writes
// of the persisted token and username funnel through it.
type Store struct {
	db          *sql.DB
	broadcaster *Broadcaster
	log         logging.Logger
	now         func() time.Time

	mu  sync.RWMutex
	cur Session
}

func NewStore(db *sql.DB, b *Broadcaster, log logging.Logger) *Store {
	return &Store{db: db, broadcaster: b, log: log, now: time.Now}
}

func (s *Store) repo() creds.Repository {
	return creds.NewSQLiteRepository(s.db)
}

// Current returns a snapshot of the session. It reflects the last completed
// Restore or SetAuth call.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Restore initializes the session from the persisted credentials, once per
// process start. A missing, malformed or expired token yields the anonymous
// state and clears whatever stale values were persisted. Storage failures
// degrade silently to anonymous; an invalid session is equivalent to no
// session, so nothing here is surfaced to the user.
func (s *Store) Restore(ctx context.Context) {
	repo := s.repo()

	tok, err := repo.Get(ctx, KeyToken)
	if err != nil {
		s.log.Warn(ctx, "session restore: reading persisted token failed", "error", err)
		s.setCurrent(Session{})
		return
	}

	if tok == "" {
		s.setCurrent(Session{})
		return
	}

	claims, reason := s.checkToken(ctx, tok)
	if reason != nil {
		s.log.Info(ctx, "discarding persisted session", "reason", reason)
		if err := repo.Clear(ctx); err != nil {
			s.log.Warn(ctx, "clearing stale credentials failed", "error", err)
		}
		s.setCurrent(Session{})
		return
	}

	username := claims.Subject
	if username == "" {
		saved, err := repo.Get(ctx, KeyUsername)
		if err != nil {
			s.log.Warn(ctx, "reading persisted username failed", "error", err)
		}
		username = saved
	}

	s.setCurrent(Session{Authenticated: true, Username: username, Token: tok})
	s.log.Info(ctx, "session restored", "username", username)
}

// SetAuth updates the session after a sign-in or sign-out. A non-empty
// token is trimmed, persisted together with the resolved username, and the
// state flips to authenticated. An empty token means logout: persisted keys
// are removed and the state resets to anonymous.
//
// Persistence completes before the corresponding login/logout event is
// published, so a subscriber that re-reads the session during delivery
// always observes the new state. Storage failures are logged and the
// in-memory state still changes; the next Restore simply starts anonymous.
func (s *Store) SetAuth(ctx context.Context, tok, username string) {
	tok = strings.TrimSpace(tok)

	if tok == "" {
		s.clearAuth(ctx)
		return
	}

	claims, reason := s.checkToken(ctx, tok)
	if reason != nil {
		// Accepting an unusable token would break the invariant that an
		// authenticated session always holds a currently valid token.
		s.log.Warn(ctx, "rejecting unusable token on sign-in", "reason", reason)
		s.clearAuth(ctx)
		return
	}

	if username == "" {
		username = claims.Subject
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := creds.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, tok); err != nil {
			return err
		}
		if username == "" {
			return repo.Delete(ctx, KeyUsername)
		}
		return repo.Set(ctx, KeyUsername, username)
	})
	if err != nil {
		s.log.Warn(ctx, "persisting session failed", "error", err)
	}

	s.setCurrent(Session{Authenticated: true, Username: username, Token: tok})
	s.broadcaster.Publish(EventLogin)
}

func (s *Store) clearAuth(ctx context.Context) {
	if err := s.repo().Clear(ctx); err != nil {
		s.log.Warn(ctx, "removing persisted session failed", "error", err)
	}
	s.setCurrent(Session{})
	s.broadcaster.Publish(EventLogout)
}

// checkToken decodes tok and verifies its expiry against the store clock.
// It returns the decoded claims on success, else the reason the token is
// unusable.
func (s *Store) checkToken(ctx context.Context, tok string) (*token.Claims, error) {
	claims, err := token.Decode(tok)
	if err != nil {
		return nil, err
	}
	if err := token.Check(tok, s.now()); err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		// Open-ended tokens are accepted for compatibility with the
		// service, but never silently.
		s.log.Debug(ctx, "token carries no expiry claim, treating as valid indefinitely")
	}
	return claims, nil
}

func (s *Store) setCurrent(sess Session) {
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
}
