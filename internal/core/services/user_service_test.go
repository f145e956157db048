package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, time.Second)
}

func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: "user-1", Email: "cook@example.com", Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByID", mock.Anything, "user-1").Return(user, nil).Once()

	got, err := suite.service.GetUserByID(ctx, "user-1")
	suite.Require().NoError(err)
	suite.Equal("cook@example.com", got.Email)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.GetUserByID(ctx, "missing")
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestListUsers() {
	ctx := context.Background()
	users := []domain.User{
		{UserID: "user-1", Role: domain.RoleUser},
		{UserID: "user-2", Role: domain.RoleAdmin},
	}

	suite.mockUserRepo.On("FindUsers", mock.Anything, 20, 0).Return(users, nil).Once()

	got, err := suite.service.ListUsers(ctx, 20, 0)
	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func (suite *UserServiceTestSuite) TestUpdateUserRole_Success() {
	ctx := context.Background()
	updated := &domain.User{UserID: "user-1", Role: domain.RoleAdmin}

	suite.mockUserRepo.On("UpdateUserRole", mock.Anything, "user-1", domain.RoleAdmin, "admin-1", mock.Anything).
		Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, "user-1").Return(updated, nil).Once()

	got, err := suite.service.UpdateUserRole(ctx, "user-1", "admin", "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, got.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUserRole_RejectsUnknownRole() {
	ctx := context.Background()

	// No repository expectations: an invalid role never reaches the store.
	got, err := suite.service.UpdateUserRole(ctx, "user-1", "superuser", "admin-1")

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUserRole_TargetNotFound() {
	ctx := context.Background()

	suite.mockUserRepo.On("UpdateUserRole", mock.Anything, "missing", domain.RoleUser, "admin-1", mock.Anything).
		Return(apperrors.ErrNotFound).Once()

	got, err := suite.service.UpdateUserRole(ctx, "missing", "user", "admin-1")
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestDeleteUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("DeleteUser", mock.Anything, "user-1").Return(nil).Once()

	err := suite.service.DeleteUser(ctx, "user-1")
	suite.NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
