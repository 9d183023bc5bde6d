// Package api implements the REST client for the IYS backend. It maps
// transport failures onto the shared sentinel errors so callers can branch
// with errors.Is instead of inspecting HTTP details.
package api

import (
	"context"

	"github.com/iysravet/iyscli/internal/client/models"
)

// Client is the remote surface the rest of the application depends on.
type Client interface {
	// SignIn exchanges credentials for a bearer token and an optional
	// display username.
	SignIn(ctx context.Context, email, password string) (token, username string, err error)

	// Events returns the published event list. The bearer credential is
	// optional; when empty the request is sent unauthenticated.
	Events(ctx context.Context, bearer string) ([]models.EventRecord, error)

	// EventRegDetails returns the registration details object, which may
	// be empty when the organizer has not configured the event yet.
	EventRegDetails(ctx context.Context) (*models.EventDetails, error)

	// SubmitRegistration sends one multipart registration request. With a
	// bearer credential the request carries an authorization header; with
	// none, ambient (cookie) credentials are used instead. Never both.
	SubmitRegistration(ctx context.Context, bearer string, sub models.RegistrationSubmission) (*models.RegistrationAck, error)
}
