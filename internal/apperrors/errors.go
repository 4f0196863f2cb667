package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicateEmail indicates an attempt to register an email that already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrInvalidCredentials indicates a failed login. The same error covers an
// unknown email and a wrong password so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotVerified indicates a login attempt against an account that has not
// completed email verification.
var ErrNotVerified = errors.New("email not verified")

// ErrInvalidToken indicates a signed token that failed decoding, signature
// validation, expiry, or claim checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrInvalidRefreshToken indicates a refresh token that matches no user.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ErrTokenExpired indicates a reset token whose stored expiry has passed.
var ErrTokenExpired = errors.New("token expired")
