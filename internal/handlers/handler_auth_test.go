package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/authkit/user_auth_app/internal/apperrors"
	"github.com/authkit/user_auth_app/internal/core/domain"
	portssvc "github.com/authkit/user_auth_app/internal/core/ports/services"
	"github.com/authkit/user_auth_app/internal/dto"
	"github.com/authkit/user_auth_app/internal/handlers"
	"github.com/authkit/user_auth_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegisterResponse), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}
func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, token string, newPassword string) (string, error) {
	args := m.Called(ctx, token, newPassword)
	return args.String(0), args.Error(1)
}
func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockAuthService *MockAuthService
	mockUserService *MockUserService
	jwtSecret       string
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAuthService = new(MockAuthService)
	suite.mockUserService = new(MockUserService)

	cfg := &config.Config{
		JWTSecret: suite.jwtSecret,
		// Keeps the swagger routes out of the test router.
		IsProduction: true,
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Auth: suite.mockAuthService,
		User: suite.mockUserService,
	})
}

// generateTestToken creates a signed access token for the given subject email.
func (suite *AuthHandlerTestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "uaa-test",
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AuthHandlerTestSuite) postJSON(path string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func (suite *AuthHandlerTestSuite) messageBody(w *httptest.ResponseRecorder) string {
	var resp dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

// --- Register ---

func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	expected := &dto.RegisterResponse{
		UserID:            uuid.NewString(),
		Email:             "a@x.com",
		IsActive:          false,
		VerificationToken: "token-123",
	}
	suite.mockAuthService.On("Register", mock.Anything, dto.RegisterRequest{Email: "a@x.com", Password: "password123"}).
		Return(expected, nil).Once()

	w := suite.postJSON("/auth/register", `{"email":"a@x.com","password":"password123"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RegisterResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(*expected, resp)
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.mockAuthService.On("Register", mock.Anything, mock.AnythingOfType("dto.RegisterRequest")).
		Return(nil, apperrors.ErrDuplicateEmail).Once()

	w := suite.postJSON("/auth/register", `{"email":"a@x.com","password":"password123"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Email already registered", suite.errorBody(w))
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegister_InvalidPayload() {
	w := suite.postJSON("/auth/register", `{"email":"not-an-email","password":"short"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

// --- Login ---

func (suite *AuthHandlerTestSuite) postLoginForm(username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	expected := &dto.TokenResponse{AccessToken: "at", RefreshToken: "rt", TokenType: "bearer"}
	suite.mockAuthService.On("Login", mock.Anything, "a@x.com", "password123").Return(expected, nil).Once()

	w := suite.postLoginForm("a@x.com", "password123")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TokenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(*expected, resp)
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockAuthService.On("Login", mock.Anything, "a@x.com", "wrong").
		Return(nil, apperrors.ErrInvalidCredentials).Once()

	w := suite.postLoginForm("a@x.com", "wrong")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid credentials", suite.errorBody(w))
}

func (suite *AuthHandlerTestSuite) TestLogin_NotVerified() {
	suite.mockAuthService.On("Login", mock.Anything, "a@x.com", "password123").
		Return(nil, apperrors.ErrNotVerified).Once()

	w := suite.postLoginForm("a@x.com", "password123")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Please verify your email first", suite.errorBody(w))
}

// --- Refresh ---

func (suite *AuthHandlerTestSuite) TestRefresh_Success() {
	expected := &dto.TokenResponse{AccessToken: "at2", RefreshToken: "rt2", TokenType: "bearer"}
	suite.mockAuthService.On("Refresh", mock.Anything, "rt1").Return(expected, nil).Once()

	w := suite.postJSON("/auth/refresh", `{"refresh_token":"rt1"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TokenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(*expected, resp)
}

func (suite *AuthHandlerTestSuite) TestRefresh_InvalidToken() {
	suite.mockAuthService.On("Refresh", mock.Anything, "stale").
		Return(nil, apperrors.ErrInvalidRefreshToken).Once()

	w := suite.postJSON("/auth/refresh", `{"refresh_token":"stale"}`)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid refresh token", suite.errorBody(w))
}

// --- Verify ---

func (suite *AuthHandlerTestSuite) TestVerifyEmail_Success() {
	suite.mockAuthService.On("VerifyEmail", mock.Anything, "tok").
		Return("Email verified successfully", nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/auth/verify?token=tok", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Email verified successfully", suite.messageBody(w))
}

func (suite *AuthHandlerTestSuite) TestVerifyEmail_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/auth/verify", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "VerifyEmail", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestVerifyEmail_InvalidToken() {
	suite.mockAuthService.On("VerifyEmail", mock.Anything, "bad").
		Return("", apperrors.ErrInvalidToken).Once()

	req, _ := http.NewRequest(http.MethodGet, "/auth/verify?token=bad", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid or expired token", suite.errorBody(w))
}

func (suite *AuthHandlerTestSuite) TestVerifyEmail_UserNotFound() {
	suite.mockAuthService.On("VerifyEmail", mock.Anything, "ghost").
		Return("", apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/auth/verify?token=ghost", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("User not found", suite.errorBody(w))
}

// --- Forgot / Reset password ---

func (suite *AuthHandlerTestSuite) TestForgotPassword_Success() {
	suite.mockAuthService.On("ForgotPassword", mock.Anything, "a@x.com").
		Return("If an account exists, a reset link has been sent", nil).Once()

	w := suite.postJSON("/auth/forgot-password", `{"email":"a@x.com"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("If an account exists, a reset link has been sent", suite.messageBody(w))
}

func (suite *AuthHandlerTestSuite) TestResetPassword_Success() {
	suite.mockAuthService.On("ResetPassword", mock.Anything, "tok", "newpassword456").
		Return("Password reset successful", nil).Once()

	w := suite.postJSON("/auth/reset-password", `{"token":"tok","new_password":"newpassword456"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Password reset successful", suite.messageBody(w))
}

func (suite *AuthHandlerTestSuite) TestResetPassword_InvalidToken() {
	suite.mockAuthService.On("ResetPassword", mock.Anything, "bad", "newpassword456").
		Return("", apperrors.ErrInvalidToken).Once()

	w := suite.postJSON("/auth/reset-password", `{"token":"bad","new_password":"newpassword456"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid token", suite.errorBody(w))
}

func (suite *AuthHandlerTestSuite) TestResetPassword_ExpiredToken() {
	suite.mockAuthService.On("ResetPassword", mock.Anything, "old", "newpassword456").
		Return("", apperrors.ErrTokenExpired).Once()

	w := suite.postJSON("/auth/reset-password", `{"token":"old","new_password":"newpassword456"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Token expired", suite.errorBody(w))
}

// --- Logout ---

func (suite *AuthHandlerTestSuite) TestLogout_Success() {
	user := &domain.User{UserID: uuid.NewString(), Email: "a@x.com", IsActive: true}
	suite.mockUserService.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	suite.mockAuthService.On("Logout", mock.Anything, user.UserID).Return(nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(user.Email))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Successfully logged out", suite.messageBody(w))
	suite.mockAuthService.AssertExpectations(suite.T())
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogout_MissingToken() {
	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Logout", mock.Anything, mock.Anything)
}

// --- Authenticated user routes ---

func (suite *AuthHandlerTestSuite) getWithToken(path, subject string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(subject))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestGetMe_Success() {
	user := &domain.User{UserID: uuid.NewString(), Email: "a@x.com", IsActive: true}
	suite.mockUserService.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

	w := suite.getWithToken("/users/me", user.Email)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(user.UserID, resp.UserID)
	suite.Equal(user.Email, resp.Email)
	suite.True(resp.IsActive)
}

func (suite *AuthHandlerTestSuite) TestGetMe_UnknownSubject() {
	suite.mockUserService.On("GetUserByEmail", mock.Anything, "ghost@x.com").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.getWithToken("/users/me", "ghost@x.com")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestGetMe_ExpiredToken() {
	claims := jwt.RegisteredClaims{
		Subject:   "a@x.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "GetUserByEmail", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestGetProfile_Success() {
	user := &domain.User{UserID: uuid.NewString(), Email: "a@x.com", IsActive: true}
	suite.mockUserService.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

	w := suite.getWithToken("/profile", user.Email)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ProfileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(user.UserID, resp.UserID)
	suite.Equal(user.Email, resp.Email)
}

// --- Run Test Suite ---
func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
