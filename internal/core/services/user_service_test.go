package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/core/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TestCreateUserHashesPassword() {
	var saved domain.User
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).
		Return(nil).Once()

	req := dto.CreateUserRequest{Username: "jordan@firm.example", Password: "s3cret-pass", Name: "Jordan"}
	user, err := suite.service.CreateUser(suite.ctx, req)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "jordan@firm.example", user.Username)
	assert.NotEmpty(suite.T(), user.UserID)
	assert.NotEqual(suite.T(), "s3cret-pass", saved.PasswordHash)
	assert.True(suite.T(), utils.CheckPasswordHash("s3cret-pass", saved.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUserDuplicateUsername() {
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{Username: "taken", Password: "pw123456", Name: "Dup"})

	suite.Require().Error(err)
	assert.Nil(suite.T(), user)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 409, appErr.Code)
}

func (suite *UserServiceTestSuite) TestAuthenticateUserSuccess() {
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "jordan").
		Return(&domain.User{UserID: "user-1", Username: "jordan", PasswordHash: hash}, nil).Once()

	user, err := suite.service.AuthenticateUser(suite.ctx, "jordan", "correct-horse")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "user-1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUserWrongPassword() {
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "jordan").
		Return(&domain.User{UserID: "user-1", Username: "jordan", PasswordHash: hash}, nil).Once()

	user, err := suite.service.AuthenticateUser(suite.ctx, "jordan", "wrong-horse")

	suite.Require().Error(err)
	assert.Nil(suite.T(), user)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrUnauthorized))
}

func (suite *UserServiceTestSuite) TestAuthenticateUserUnknownUsername() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "ghost").
		Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(suite.ctx, "ghost", "whatever")

	suite.Require().Error(err)
	assert.Nil(suite.T(), user)
	// Unknown user and wrong password are indistinguishable to the caller.
	assert.True(suite.T(), errors.Is(err, apperrors.ErrUnauthorized))
}

func (suite *UserServiceTestSuite) TestUpdateUserForbiddenForOthers() {
	user, err := suite.service.UpdateUser(suite.ctx, "user-1", dto.UpdateUserRequest{}, "user-2")

	suite.Require().Error(err)
	assert.Nil(suite.T(), user)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUserForbiddenForOthers() {
	err := suite.service.DeleteUser(suite.ctx, "user-1", "user-2")

	suite.Require().Error(err)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUserExisting() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "jordan@firm.example").
		Return(&domain.User{UserID: "user-1", Username: "jordan@firm.example"}, nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{
		ID: "google-sub", Email: "jordan@firm.example", VerifiedEmail: true, Name: "Jordan",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "user-1", user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUserFirstSignIn() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "new@firm.example").
		Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).
		Return(nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{
		ID: "google-sub", Email: "new@firm.example", VerifiedEmail: true, Name: "Newcomer",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "new@firm.example", user.Username)
	assert.Equal(suite.T(), "Newcomer", user.Name)
	assert.NotEmpty(suite.T(), saved.PasswordHash)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUserMissingEmail() {
	user, err := suite.service.GetOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{ID: "google-sub"})

	suite.Require().Error(err)
	assert.Nil(suite.T(), user)
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	assert.Equal(suite.T(), 400, appErr.Code)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
