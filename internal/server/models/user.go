// Package models defines the persistent records of the todo service.
package models

import "time"

// User is an identity record. PasswordHash is an argon2id PHC string and
// must never be serialized onto the wire.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
