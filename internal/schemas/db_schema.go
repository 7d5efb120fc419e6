// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
// The Password field only ever holds the bcrypt hash of the credential.
type User struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the user.
	Name      string     `json:"name"`       // Display name of the user.
	Email     string     `json:"email"`      // Email address of the user, unique.
	Password  string     `json:"password"`   // Password hash of the user.
	Photo     string     `json:"photo"`      // Profile photo URL of the user.
	Bio       string     `json:"bio"`        // Short biography of the user.
	Phone     string     `json:"phone"`      // Phone number of the user.
	CreatedAt *time.Time `json:"created_at"` // Timestamp when the user was created.
}

// PasswordResetToken represents a single-use, time-boxed token that authorizes
// a password change for the owning user. The token secret itself is never
// stored, only its digest.
type PasswordResetToken struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the reset token.
	UserID    *uuid.UUID `json:"user_id"`    // Identifier of the user associated with this token.
	TokenHash string     `json:"-"`          // Digest of the token secret.
	CreatedAt *time.Time `json:"created_at"` // Timestamp when the token was created.
	ExpiresAt *time.Time `json:"expires_at"` // Timestamp when the token expires.
}
