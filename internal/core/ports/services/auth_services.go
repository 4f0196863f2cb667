package services

import (
	"context"

	"github.com/authkit/user_auth_app/internal/dto"
)

// AuthSvcFacade defines the credential, token-issuance, and user-state
// transition operations. All token validity decisions re-read the store; no
// user state is cached between calls.
type AuthSvcFacade interface {
	// Register creates an inactive user and issues a verification token.
	// Returns apperrors.ErrDuplicateEmail when the email is taken.
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)

	// Login verifies credentials and issues a fresh access/refresh pair.
	// Returns apperrors.ErrInvalidCredentials or apperrors.ErrNotVerified.
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)

	// Refresh rotates the refresh token and issues a new access token.
	// Returns apperrors.ErrInvalidRefreshToken when the token matches no user.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)

	// VerifyEmail activates the account named by the token's subject.
	// Idempotent once verified. Returns apperrors.ErrInvalidToken or
	// apperrors.ErrNotFound.
	VerifyEmail(ctx context.Context, token string) (string, error)

	// ForgotPassword issues a reset token for existing accounts; the returned
	// message is identical whether or not the account exists.
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword sets a new password if the token is valid, matches the
	// stored one, and the stored expiry has not passed. Returns
	// apperrors.ErrInvalidToken or apperrors.ErrTokenExpired.
	ResetPassword(ctx context.Context, token string, newPassword string) (string, error)

	// Logout invalidates the user's refresh token. Unconditional success.
	Logout(ctx context.Context, userID string) error
}
