// Package token implements offline inspection of the service's bearer
// tokens: a structural decode of the three-part, URL-safe-base64 form plus
// an expiry check.
//
// No signature verification is performed and no network call is made. The
// client cannot prove a token's authenticity; it only inspects structure and
// expiry so the UI can decide what to show. Authorization is always enforced
// by the server.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iysravet/iyscli/internal/common"
)

// Claims is the decoded token payload. Only the registered claims are
// read by the client; anything else in the payload is ignored.
type Claims struct {
	jwt.RegisteredClaims
}

// Decode parses a bearer token without verifying its signature. It fails
// with common.ErrMalformedToken when the string does not have exactly three
// period-delimited parts, when URL-safe-base64 decoding fails, or when the
// payload is not a JSON object.
func Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedToken, err)
	}
	return claims, nil
}

// Check reports why a token is unusable: common.ErrMalformedToken when it
// does not decode, common.ErrExpiredToken when its expiry has passed, nil
// otherwise.
//
// Expiry is compared in whole epoch seconds with a strict inequality, so a
// token expiring exactly "now" is already invalid. A token without an exp
// claim never expires. That open-ended policy is inherited from the service
// contract; callers should log it rather than trust it silently.
func Check(tokenString string, now time.Time) error {
	claims, err := Decode(tokenString)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if now.Unix() >= claims.ExpiresAt.Unix() {
		return common.ErrExpiredToken
	}
	return nil
}

// Valid is a convenience wrapper around Check.
func Valid(tokenString string, now time.Time) bool {
	return Check(tokenString, now) == nil
}
