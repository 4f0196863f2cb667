package domain

import "time"

// User represents an account holder in the domain.
//
// IsActive starts false and flips to true exactly once, on successful email
// verification. RefreshToken holds the SHA-256 digest of the single active
// refresh token, or empty when the user is logged out. ResetToken and
// ResetTokenExpiry are set and cleared together by the password-reset flow.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`

	RefreshTokenHash string     `json:"-"`
	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
