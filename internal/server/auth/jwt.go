// Package auth implements issuing and verification of the short-lived signed
// access tokens. Tokens are stateless: validity is established purely from
// the HMAC signature and the expiry claim, never from a server-side lookup.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mlorenc/gotodo/internal/common"
)

// Authority issues and verifies HS256 JWTs carrying the user id in the
// subject claim. It holds no mutable state and is safe for concurrent use.
type Authority struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewAuthority constructs an Authority using the wall clock.
func NewAuthority(secret []byte, validity time.Duration) *Authority {
	return NewAuthorityWithClock(secret, validity, time.Now)
}

// NewAuthorityWithClock constructs an Authority with an injected clock,
// used by tests to step across the expiry boundary.
func NewAuthorityWithClock(secret []byte, validity time.Duration, now func() time.Time) *Authority {
	return &Authority{secret: secret, validity: validity, now: now}
}

// Validity returns the configured token lifetime.
func (a *Authority) Validity() time.Duration {
	return a.validity
}

// Issue creates a signed token for userID expiring after the configured
// lifetime.
func (a *Authority) Issue(userID int64) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.validity)),
	})

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verify validates the signature and expiry of tokenString and returns the
// embedded user id. Every failure mode (bad signature, malformed payload,
// expired) collapses to common.ErrInvalidToken.
func (a *Authority) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return userID, nil
}
