// Package token inspects bearer tokens on the client side. Signatures are
// never checked here; the backend remains the authority. The checks only
// decide whether a stored token is worth sending.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirySkew is how close to expiry a token may be before it is treated as expired.
const ExpirySkew = 5 * time.Minute

// ErrNoExpiry is returned for tokens without an exp claim.
var ErrNoExpiry = errors.New("token has no expiration")

var parser = jwt.NewParser()

// Expiration decodes the token payload and returns its exp claim.
func Expiration(raw string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token is expired at now, counting the skew.
// Malformed tokens and tokens without exp are expired.
func IsExpired(raw string, now time.Time) bool {
	exp, err := Expiration(raw)
	if err != nil {
		return true
	}
	return now.Add(ExpirySkew).After(exp)
}

// IsValid reports whether raw is a structurally sound, unexpired token.
func IsValid(raw string, now time.Time) bool {
	if raw == "" {
		return false
	}
	return !IsExpired(raw, now)
}
