package models

import (
	"database/sql"
	"time"
)

// User is the database row shape for the users table. Nullable token columns
// use sql.Null* so that "logged out" and "no pending reset" map to SQL NULL.
type User struct {
	UserID        string    `db:"user_id"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password_hash"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`

	RefreshTokenHash sql.NullString `db:"refresh_token_hash"` // Store hash of the refresh token
	ResetToken       sql.NullString `db:"reset_token"`
	ResetTokenExpiry sql.NullTime   `db:"reset_token_expiry"`
}
