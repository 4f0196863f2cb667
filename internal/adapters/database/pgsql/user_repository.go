package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/authkit/user_auth_app/internal/apperrors"
	"github.com/authkit/user_auth_app/internal/core/domain"
	portsrepo "github.com/authkit/user_auth_app/internal/core/ports/repositories"
	"github.com/authkit/user_auth_app/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure UserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

const userColumns = `user_id, email, password_hash, is_active, created_at, last_updated_at, refresh_token_hash, reset_token, reset_token_expiry`

func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:        d.UserID,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sqlNullString(d.RefreshTokenHash)
	}
	if d.ResetToken != "" {
		m.ResetToken = sqlNullString(d.ResetToken)
	}
	if d.ResetTokenExpiry != nil {
		m.ResetTokenExpiry.Valid = true
		m.ResetTokenExpiry.Time = *d.ResetTokenExpiry
	}
	return m
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:        m.UserID,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.ResetToken.Valid {
		d.ResetToken = m.ResetToken.String
	}
	if m.ResetTokenExpiry.Valid {
		expiry := m.ResetTokenExpiry.Time
		d.ResetTokenExpiry = &expiry
	}
	return d
}

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.IsActive,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&m.RefreshTokenHash,
		&m.ResetToken,
		&m.ResetTokenExpiry,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveUser inserts a new user. The uniqueness check and the insert are one
// statement; a unique violation on the email index surfaces as ErrDuplicateEmail.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	modelUser := toModelUser(user)
	query := `
        INSERT INTO users (user_id, email, password_hash, is_active, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.db.Exec(ctx, query,
		modelUser.UserID,
		modelUser.Email,
		modelUser.PasswordHash,
		modelUser.IsActive,
		modelUser.CreatedAt,
		modelUser.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	domainUser := toDomainUser(*modelUser)
	return &domainUser, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	domainUser := toDomainUser(*modelUser)
	return &domainUser, nil
}

func (r *UserRepository) FindUserByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token_hash = $1;`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, refreshTokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by refresh token: %w", err)
	}
	domainUser := toDomainUser(*modelUser)
	return &domainUser, nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string) error {
	query := `
        UPDATE users
        SET refresh_token_hash = $1, last_updated_at = $2
        WHERE user_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, refreshTokenHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RotateRefreshToken is a compare-and-set: the update only matches while the
// stored digest still equals oldHash, so concurrent rotations of the same
// token succeed at most once.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, oldHash string, newHash string) (*domain.User, error) {
	query := `
        UPDATE users
        SET refresh_token_hash = $2, last_updated_at = $3
        WHERE refresh_token_hash = $1
        RETURNING ` + userColumns + `;`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, oldHash, newHash, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	domainUser := toDomainUser(*modelUser)
	return &domainUser, nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET refresh_token_hash = NULL, last_updated_at = $1
        WHERE user_id = $2;
    `
	cmdTag, err := r.db.Exec(ctx, query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkUserVerified activates the account and drops any stored refresh token so
// the user has to log in again after verification.
func (r *UserRepository) MarkUserVerified(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET is_active = TRUE, refresh_token_hash = NULL, last_updated_at = $1
        WHERE user_id = $2;
    `
	cmdTag, err := r.db.Exec(ctx, query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetResetToken stores the reset token and its expiry in one statement; the
// pair is never half-written.
func (r *UserRepository) SetResetToken(ctx context.Context, userID string, resetToken string, expiry time.Time) error {
	query := `
        UPDATE users
        SET reset_token = $1, reset_token_expiry = $2, last_updated_at = $3
        WHERE user_id = $4;
    `
	cmdTag, err := r.db.Exec(ctx, query, resetToken, expiry, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePasswordAndClearResetToken is guarded on the stored reset token still
// matching, which invalidates the token the moment it is consumed.
func (r *UserRepository) UpdatePasswordAndClearResetToken(ctx context.Context, userID string, resetToken string, newPasswordHash string) error {
	query := `
        UPDATE users
        SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL, last_updated_at = $2
        WHERE user_id = $3 AND reset_token = $4;
    `
	cmdTag, err := r.db.Exec(ctx, query, newPasswordHash, time.Now(), userID, resetToken)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidToken
	}
	return nil
}
