package repositories

import (
	"context"
	"time"

	"github.com/authkit/user_auth_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a specific user by their email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByRefreshTokenHash retrieves the user whose stored refresh token
	// digest matches exactly, if any.
	FindUserByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicateEmail when the
	// email is already taken; the uniqueness check and the insert are a single
	// atomic statement on the store side.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken overwrites the user's stored refresh token digest.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string) error

	// RotateRefreshToken atomically replaces oldHash with newHash. It only
	// succeeds if the stored digest still equals oldHash, so concurrent
	// refreshes with the same token can win at most once. Returns the updated
	// user, or apperrors.ErrInvalidRefreshToken when no row matched.
	RotateRefreshToken(ctx context.Context, oldHash string, newHash string) (*domain.User, error)

	// ClearRefreshToken sets the user's refresh token to NULL.
	ClearRefreshToken(ctx context.Context, userID string) error

	// MarkUserVerified sets is_active true and clears any stored refresh token.
	MarkUserVerified(ctx context.Context, userID string) error

	// SetResetToken stores a reset token and its expiry together.
	SetResetToken(ctx context.Context, userID string, resetToken string, expiry time.Time) error

	// UpdatePasswordAndClearResetToken replaces the password hash and clears the
	// reset token and its expiry in one statement, guarded on the reset token
	// still matching. Returns apperrors.ErrInvalidToken when no row matched.
	UpdatePasswordAndClearResetToken(ctx context.Context, userID string, resetToken string, newPasswordHash string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
