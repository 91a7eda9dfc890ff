// Package shared provides utility functions for generating random secrets.
package shared

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeOpaqueToken generates a random opaque token string from size bytes of
// CSPRNG output, encoded as unpadded base64url (RFC 4648 §5). The encoding is
// URL- and cookie-safe, so the result can travel in a Set-Cookie header as-is.
//
// Example:
//
//	s, err := MakeOpaqueToken(32) // 256 bits of entropy, ~43 characters
//
// It returns an error if the random number generator fails.
func MakeOpaqueToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MakeRandByteArray returns size bytes of CSPRNG output. It panics only if
// the system's secure random source is broken, which is not recoverable.
func MakeRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
