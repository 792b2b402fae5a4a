package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the privacy-first account record kept in Postgres: a username and
// an Argon2id password hash, nothing else.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}
