package services

import (
	"log/slog"

	portsrepo "github.com/authkit/user_auth_app/internal/core/ports/repositories"
	portssvc "github.com/authkit/user_auth_app/internal/core/ports/services"
	"github.com/authkit/user_auth_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	notifier := NewLogNotifier(logger)

	container.User = NewUserService(userRepo)
	container.Auth = NewAuthService(cfg, userRepo, notifier)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AuthSvcFacade = (*authService)(nil)
	_ portssvc.UserSvcFacade = (*userService)(nil)
)
