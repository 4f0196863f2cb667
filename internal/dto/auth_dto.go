package dto

// RegisterRequest carries the payload for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterResponse is returned on successful registration. The verification
// token is included alongside the notification channel so clients (and tests)
// can complete verification without an email inbox.
type RegisterResponse struct {
	UserID            string `json:"id"`
	Email             string `json:"email"`
	IsActive          bool   `json:"is_active"`
	VerificationToken string `json:"verification_token"`
}

// LoginRequest carries OAuth2-password-style form credentials; username is the
// account email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse is the pair issued by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password-reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// MessageResponse wraps the message-shaped successes.
type MessageResponse struct {
	Message string `json:"message"`
}
