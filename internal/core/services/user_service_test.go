package services_test

import (
	"context"
	"testing"

	"github.com/authkit/user_auth_app/internal/apperrors"
	"github.com/authkit/user_auth_app/internal/core/domain"
	portssvc "github.com/authkit/user_auth_app/internal/core/ports/services"
	"github.com/authkit/user_auth_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	ctx := context.Background()
	expected := &domain.User{UserID: uuid.NewString(), Email: "a@x.com", IsActive: true}

	suite.mockUserRepo.On("FindUserByID", ctx, expected.UserID).Return(expected, nil).Once()

	user, err := suite.service.GetUserByID(ctx, expected.UserID)

	suite.Require().NoError(err)
	suite.Equal(expected, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByEmail_Success() {
	ctx := context.Background()
	expected := &domain.User{UserID: uuid.NewString(), Email: "a@x.com", IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, expected.Email).Return(expected, nil).Once()

	user, err := suite.service.GetUserByEmail(ctx, expected.Email)

	suite.Require().NoError(err)
	suite.Equal(expected, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByEmail_RepoError() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "a@x.com").Return(nil, assert.AnError).Once()

	user, err := suite.service.GetUserByEmail(ctx, "a@x.com")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
