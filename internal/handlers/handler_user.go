package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/authkit/user_auth_app/internal/apperrors"
	"github.com/authkit/user_auth_app/internal/core/domain"
	portssvc "github.com/authkit/user_auth_app/internal/core/ports/services"
	"github.com/authkit/user_auth_app/internal/dto"
	"github.com/authkit/user_auth_app/internal/middleware"
	"github.com/authkit/user_auth_app/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to the authenticated user.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers the authenticated user routes.
func registerUserRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := r.Group("/users", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		users.GET("/me", h.getMe)
	}

	r.GET("/profile", middleware.AuthMiddleware(cfg.JWTSecret), h.getProfile)
}

// resolveCurrentUser loads the user record for the authenticated subject. On
// failure it writes the 401 response and returns ok=false.
func resolveCurrentUser(c *gin.Context, userService portssvc.UserSvcFacade) (*domain.User, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	subject, ok := middleware.GetSubjectFromContext(c)
	if !ok {
		logger.Error("Subject not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	user, err := userService.GetUserByEmail(c.Request.Context(), subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return nil, false
		}
		logger.Error("Failed to resolve current user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve user"})
		return nil, false
	}

	return user, true
}

// getMe godoc
// @Summary Get the current user
// @Description Returns the authenticated user's record.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.userService)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// getProfile godoc
// @Summary Get the current user's profile
// @Description Returns the reduced profile view of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *userHandler) getProfile(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.userService)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(user))
}
