package dto

import (
	"github.com/authkit/user_auth_app/internal/core/domain"
)

// UserResponse is the public view of a user record.
type UserResponse struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// ProfileResponse is the reduced view served by the profile endpoint.
type ProfileResponse struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// ToUserResponse converts a domain.User to its public representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
}

// ToProfileResponse converts a domain.User to its profile representation.
func ToProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		UserID: user.UserID,
		Email:  user.Email,
	}
}
