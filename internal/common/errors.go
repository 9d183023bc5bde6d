// Package common defines shared constants and sentinel errors used across
// the iyscli client layers. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Token lifecycle errors. An invalid session is equivalent to no
	// session: these never reach the user directly, they only force the
	// anonymous state.
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token expired")

	// Transport-level errors.
	ErrNetworkFailure       = errors.New("server unreachable")
	ErrInvalidResponseShape = errors.New("invalid response format")
	ErrServerRejected       = errors.New("server rejected request")
	ErrUnauthorized         = errors.New("unauthorized")

	// Registration gate verdicts. User-facing and non-fatal; the texts are
	// shown to the user as-is.
	ErrPaymentsNotConfigured     = errors.New("payment options not available, please contact organizer")
	ErrInvalidAmount             = errors.New("please select a valid amount before submitting")
	ErrMissingTransactionRef     = errors.New("please enter the payment transaction ID / UPI reference")
	ErrPaymentChannelUnavailable = errors.New("UPI ID not available, cannot process payment")
	ErrAlreadySubmitted          = errors.New("registration already submitted")
)
