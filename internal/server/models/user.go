// Package models contains plain data records persisted by the server.
package models

import "time"

// User is a registered account. Email is stored normalized (trimmed and
// lowercased) and is unique. PasswordHash is a bcrypt digest; the plaintext
// password is never stored.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
