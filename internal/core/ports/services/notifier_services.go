package services

import "context"

// NotifierSvcFacade delivers verification and reset links to users. Delivery is
// best-effort; callers must not fail their own operation when it errors.
type NotifierSvcFacade interface {
	// SendVerificationLink notifies the user of their email-verification link.
	SendVerificationLink(ctx context.Context, email string, link string) error

	// SendPasswordResetLink notifies the user of their password-reset link.
	SendPasswordResetLink(ctx context.Context, email string, link string) error
}
