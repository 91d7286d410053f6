package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a locally registered DriveBuddy user.
type Account struct {
	// ID is generated once at registration and never changes.
	ID uuid.UUID

	// Email is stored lowercased and is unique within the store.
	Email string

	// PasswordHash is the digest of the password, never the password itself.
	PasswordHash string

	// AddToCalendar is a user preference; registration leaves it false.
	AddToCalendar bool

	CreatedAt time.Time
}
