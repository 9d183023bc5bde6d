// Package services contains the application services for the IYS client:
// signing in and out against the remote API, and the login-gated event feed.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/iysravet/iyscli/internal/client/api"
	"github.com/iysravet/iyscli/internal/common"
	"github.com/iysravet/iyscli/internal/session"
)

// AuthService defines the authentication operations for the CLI.
//
// Contract:
//   - SignIn: exchange credentials for a token and hand it to the session
//     store. The password buffer is wiped before returning.
//   - Logout: end the session and clear persisted credentials.
type AuthService interface {
	SignIn(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
}

type authService struct {
	client api.Client
	store  *session.Store
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(client api.Client, store *session.Store) AuthService {
	return &authService{client: client, store: store}
}

// SignIn authenticates against the server and routes the result through the
// session store, which is the only writer of authentication state. When the
// server returns no display username the email stands in for it.
func (a *authService) SignIn(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	token, username, err := a.client.SignIn(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	if strings.TrimSpace(username) == "" {
		username = email
	}

	a.store.SetAuth(ctx, token, username)
	return nil
}

// Logout clears the session. Logging out while already anonymous is a no-op
// apart from the logout notification.
func (a *authService) Logout(ctx context.Context) error {
	a.store.SetAuth(ctx, "", "")
	return nil
}
