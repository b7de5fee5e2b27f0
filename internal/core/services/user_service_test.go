package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/core/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/SscSPs/timesheet_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	repo    *MockUserRepository
	service portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.repo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.repo, services.WithClock(fixedClock))
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestRegisterUser_FirstUserBecomesAdmin() {
	ctx := context.Background()
	suite.repo.On("FindUserByEmail", ctx, "ada@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.repo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleUser && u.Email == "ada@example.com" && u.PasswordHash != "s3cret-pass"
	})).Return(domain.RoleAdmin, nil).Once()

	user, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{
		Name: "Ada", Email: "Ada@Example.com", Password: "s3cret-pass",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.True(utils.CheckPasswordHash("s3cret-pass", user.PasswordHash))
	suite.Equal(user.UserID, user.CreatedBy)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	suite.repo.On("FindUserByEmail", mock.Anything, "ada@example.com").Return(&domain.User{UserID: "u1"}, nil).Once()

	_, err := suite.service.RegisterUser(context.Background(), dto.RegisterUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass",
	})

	requireAppError(suite.T(), err, http.StatusConflict, "Email already registered")
	suite.repo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u1", Email: "ada@example.com", PasswordHash: hash, Role: domain.RoleUser}
	suite.repo.On("FindUserByEmail", mock.Anything, "ada@example.com").Return(stored, nil)
	suite.repo.On("FindUserByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	user, err := suite.service.AuthenticateUser(context.Background(), "ADA@example.com", "correct-horse")
	suite.Require().NoError(err)
	suite.Equal("u1", user.UserID)

	_, err = suite.service.AuthenticateUser(context.Background(), "ada@example.com", "wrong")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.AuthenticateUser(context.Background(), "nobody@example.com", "correct-horse")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestUpdateUser_RoleChangeRequiresAdmin() {
	role := string(domain.RoleAdmin)

	_, err := suite.service.UpdateUser(context.Background(), ownerID, dto.UpdateUserRequest{Role: &role}, asOwner)

	requireAppError(suite.T(), err, http.StatusForbidden, "Only admins can change roles")
}

func (suite *UserServiceTestSuite) TestUpdateUser_OtherUserForbidden() {
	name := "Mallory"

	_, err := suite.service.UpdateUser(context.Background(), otherID, dto.UpdateUserRequest{Name: &name}, asOwner)

	requireAppError(suite.T(), err, http.StatusForbidden, "Forbidden")
}

func (suite *UserServiceTestSuite) TestUpdateUser_AdminPromotesManager() {
	role := string(domain.RoleManager)
	suite.repo.On("FindUserByID", mock.Anything, ownerID).Return(&domain.User{UserID: ownerID, Role: domain.RoleUser}, nil).Once()
	suite.repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleManager && u.LastUpdatedBy == asAdmin.UserID
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(context.Background(), ownerID, dto.UpdateUserRequest{Role: &role}, asAdmin)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleManager, user.Role)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser() {
	suite.repo.On("MarkUserDeleted", mock.Anything, ownerID, testNow, asAdmin.UserID).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteUser(context.Background(), ownerID, asAdmin))

	err := suite.service.DeleteUser(context.Background(), ownerID, asManager)
	requireAppError(suite.T(), err, http.StatusForbidden, "Forbidden")

	err = suite.service.DeleteUser(context.Background(), asAdmin.UserID, asAdmin)
	requireAppError(suite.T(), err, http.StatusBadRequest, "Admins cannot delete themselves")
	suite.repo.AssertExpectations(suite.T())
}
