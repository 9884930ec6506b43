// Package models holds the server-side record types persisted by the
// repositories and serialized in API responses.
package models

import "time"

// User is an account record. PasswordHash is a bcrypt hash; the plaintext
// password never reaches the repository layer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}
