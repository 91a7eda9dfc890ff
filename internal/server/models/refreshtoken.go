package models

import "time"

// RefreshToken is one issued long-lived credential. TokenHash holds the
// argon2id digest of the opaque secret; the plaintext is never persisted.
// A user may hold several live tokens at once.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
