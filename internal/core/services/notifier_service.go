package services

import (
	"context"
	"log/slog"

	portssvc "github.com/authkit/user_auth_app/internal/core/ports/services"
)

// logNotifier writes verification and reset links to the application log.
// It stands in for a real mail sender; the links carry the full token so a
// developer can follow them directly.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs links instead of emailing them.
func NewLogNotifier(logger *slog.Logger) portssvc.NotifierSvcFacade {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendVerificationLink(ctx context.Context, email string, link string) error {
	n.logger.InfoContext(ctx, "Verification link", slog.String("email", email), slog.String("link", link))
	return nil
}

func (n *logNotifier) SendPasswordResetLink(ctx context.Context, email string, link string) error {
	n.logger.InfoContext(ctx, "Password reset link", slog.String("email", email), slog.String("link", link))
	return nil
}
