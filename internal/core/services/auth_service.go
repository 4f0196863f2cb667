package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/authkit/user_auth_app/internal/apperrors"
	"github.com/authkit/user_auth_app/internal/core/domain"
	portsrepo "github.com/authkit/user_auth_app/internal/core/ports/repositories"
	portssvc "github.com/authkit/user_auth_app/internal/core/ports/services"
	"github.com/authkit/user_auth_app/internal/dto"
	"github.com/authkit/user_auth_app/internal/platform/config"
	"github.com/authkit/user_auth_app/internal/utils"
	"github.com/google/uuid"
)

const tokenTypeBearer = "bearer"

// genericResetMessage is returned by ForgotPassword for existing and
// non-existing accounts alike, so the response never reveals which it was.
const genericResetMessage = "If an account exists, a reset link has been sent"

// authService implements the AuthSvcFacade. It owns every credential check and
// user-state transition; the HTTP layer only parses payloads and maps errors.
type authService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
	notifier portssvc.NotifierSvcFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, notifier portssvc.NotifierSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Register stores a new inactive user and issues a 1-hour verification token.
// The duplicate-email check is the store's unique index, so concurrent
// registrations of the same email cannot both succeed.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Email:         req.Email,
		PasswordHash:  passwordHash,
		IsActive:      false,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verificationToken, err := utils.GenerateJWT(user.Email, s.cfg.JWTSecret, s.cfg.VerificationTokenDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	// Best-effort notification; a delivery failure must not fail registration.
	link := fmt.Sprintf("%s/auth/verify?token=%s", s.cfg.PublicBaseURL, verificationToken)
	if err := s.notifier.SendVerificationLink(ctx, user.Email, link); err != nil {
		slog.WarnContext(ctx, "Failed to send verification link", slog.String("email", user.Email), slog.String("error", err.Error()))
	}

	return &dto.RegisterResponse{
		UserID:            user.UserID,
		Email:             user.Email,
		IsActive:          user.IsActive,
		VerificationToken: verificationToken,
	}, nil
}

// Login verifies credentials and issues a fresh token pair. An unknown email
// and a wrong password both return ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrNotVerified
	}

	accessToken, err := utils.GenerateJWT(user.Email, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Overwrites any prior value: a single active refresh token per user.
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// Refresh rotates the refresh token. The rotation is a single compare-and-set
// against the stored digest, so the old token is invalid the moment a new one
// is issued and a concurrent refresh with the same token loses.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	newRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user, err := s.userRepo.RotateRefreshToken(ctx, utils.HashRefreshToken(refreshToken), utils.HashRefreshToken(newRefreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRefreshToken) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	accessToken, err := utils.GenerateJWT(user.Email, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// VerifyEmail activates the account named by the token subject. Verifying an
// already-active account is a no-op success.
func (s *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsActive {
		return "User already verified", nil
	}

	// Activation also clears the refresh token, forcing a fresh login.
	if err := s.userRepo.MarkUserVerified(ctx, user.UserID); err != nil {
		return "", fmt.Errorf("failed to mark user verified: %w", err)
	}

	return "Email verified successfully", nil
}

// ForgotPassword issues a 30-minute reset token. The token string and an
// explicit expiry timestamp are stored together; ResetPassword checks both the
// token's embedded expiry and the stored one.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// No mutation and the same message as the success path.
			return genericResetMessage, nil
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	resetToken, err := utils.GenerateJWT(user.Email, s.cfg.JWTSecret, s.cfg.ResetTokenDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(s.cfg.ResetTokenDuration)
	if err := s.userRepo.SetResetToken(ctx, user.UserID, resetToken, expiry); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", s.cfg.PublicBaseURL, resetToken)
	if err := s.notifier.SendPasswordResetLink(ctx, user.Email, link); err != nil {
		slog.WarnContext(ctx, "Failed to send password reset link", slog.String("email", user.Email), slog.String("error", err.Error()))
	}

	return genericResetMessage, nil
}

// ResetPassword consumes a reset token. The stored token must match the
// provided one exactly and the stored expiry must not have passed; the update
// clears both token fields so the token is single-use.
func (s *authService) ResetPassword(ctx context.Context, token string, newPassword string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.ResetToken == "" || user.ResetToken != token {
		return "", apperrors.ErrInvalidToken
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return "", apperrors.ErrTokenExpired
	}

	newPasswordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordAndClearResetToken(ctx, user.UserID, token, newPasswordHash); err != nil {
		if errors.Is(err, apperrors.ErrInvalidToken) {
			return "", apperrors.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	return "Password reset successful", nil
}

// Logout clears the caller's refresh token. Logging out an already
// logged-out (or vanished) user still succeeds.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
