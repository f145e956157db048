package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LinkServiceTestSuite struct {
	suite.Suite
	mockUserRepo     *MockUserRepository
	mockProviderRepo *MockProviderAccountRepository
	service          portssvc.ProviderLinkSvcFacade
}

func (suite *LinkServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockProviderRepo = new(MockProviderAccountRepository)
	suite.service = services.NewLinkService(suite.mockUserRepo, suite.mockProviderRepo, time.Second)
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_FirstContactCreatesUserAtomically() {
	ctx := context.Background()
	email := "fresh@example.com"
	profile := domain.ExternalProfile{Name: "Fresh Cook", Email: email, Image: "https://img.example.com/p.png", EmailVerified: true}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUserWithProvider", mock.Anything,
		mock.MatchedBy(func(user domain.User) bool {
			return user.Email == email && user.Name == "Fresh Cook" &&
				user.Role == domain.RoleUser && user.EmailVerifiedAt != nil
		}),
		mock.MatchedBy(func(account domain.ProviderAccount) bool {
			return account.Provider == domain.ProviderGoogle &&
				account.ProviderAccountID == "google-sub-1" &&
				account.PasswordHash == nil
		}),
	).Return(nil).Once()

	identity, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGoogle, "google-sub-1", profile)

	suite.Require().NoError(err)
	suite.Require().NotNil(identity)
	suite.Equal(email, identity.Email)
	suite.Equal("Fresh Cook", identity.Name)
	suite.NotEmpty(identity.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_UnverifiedEmailNotStamped() {
	ctx := context.Background()
	email := "unverified@example.com"
	profile := domain.ExternalProfile{Name: "Someone", Email: email}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUserWithProvider", mock.Anything,
		mock.MatchedBy(func(user domain.User) bool {
			return user.EmailVerifiedAt == nil
		}),
		mock.Anything,
	).Return(nil).Once()

	_, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGitHub, "gh-7", profile)
	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_LostCreationRaceResolvesWinner() {
	ctx := context.Background()
	email := "racer@example.com"
	winner := &domain.User{UserID: "user-9", Email: email, Name: "Winner", Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("CreateUserWithProvider", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(winner, nil).Once()

	identity, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGoogle, "google-sub-2", domain.ExternalProfile{Email: email})

	suite.Require().NoError(err)
	suite.Require().NotNil(identity)
	suite.Equal("user-9", identity.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_AddsProviderToExistingUser() {
	ctx := context.Background()
	email := "cook@example.com"
	user := &domain.User{UserID: "user-10", Email: email, Name: "Cook", Role: domain.RoleUser, Image: "already-set"}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(user, nil).Once()
	suite.mockProviderRepo.On("FindByUserAndProvider", mock.Anything, "user-10", domain.ProviderGitHub).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProviderRepo.On("CreateProviderAccount", mock.Anything,
		mock.MatchedBy(func(account domain.ProviderAccount) bool {
			return account.UserID == "user-10" && account.Provider == domain.ProviderGitHub &&
				account.ProviderAccountID == "gh-42"
		}),
	).Return(nil).Once()

	identity, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGitHub, "gh-42", domain.ExternalProfile{Email: email})

	suite.Require().NoError(err)
	suite.Equal("user-10", identity.UserID)
	suite.mockProviderRepo.AssertExpectations(suite.T())
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_ExistingLinkIsIdempotent() {
	ctx := context.Background()
	email := "cook@example.com"
	user := &domain.User{UserID: "user-11", Email: email, Role: domain.RoleUser, Image: "already-set"}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(user, nil).Once()
	suite.mockProviderRepo.On("FindByUserAndProvider", mock.Anything, "user-11", domain.ProviderGoogle).
		Return(&domain.ProviderAccount{UserID: "user-11", Provider: domain.ProviderGoogle}, nil).Once()

	identity, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGoogle, "google-sub-3", domain.ExternalProfile{Email: email})

	// No CreateProviderAccount expectation: a second callback must not write.
	suite.Require().NoError(err)
	suite.Equal("user-11", identity.UserID)
	suite.mockProviderRepo.AssertExpectations(suite.T())
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_LostLinkRaceIsSuccess() {
	ctx := context.Background()
	email := "cook@example.com"
	user := &domain.User{UserID: "user-12", Email: email, Role: domain.RoleUser, Image: "already-set"}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(user, nil).Once()
	suite.mockProviderRepo.On("FindByUserAndProvider", mock.Anything, "user-12", domain.ProviderGoogle).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProviderRepo.On("CreateProviderAccount", mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	identity, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGoogle, "google-sub-4", domain.ExternalProfile{Email: email})

	suite.Require().NoError(err)
	suite.Equal("user-12", identity.UserID)
}

func (suite *LinkServiceTestSuite) TestLinkOrCreate_ImageBackfillFailureIsTolerated() {
	ctx := context.Background()
	email := "no.image@example.com"
	user := &domain.User{UserID: "user-13", Email: email, Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, email).Return(user, nil).Once()
	suite.mockProviderRepo.On("FindByUserAndProvider", mock.Anything, "user-13", domain.ProviderGoogle).
		Return(&domain.ProviderAccount{UserID: "user-13", Provider: domain.ProviderGoogle}, nil).Once()
	suite.mockUserRepo.On("UpdateUserImage", mock.Anything, "user-13", "https://img.example.com/new.png", "user-13", mock.Anything).
		Return(assert.AnError).Once()

	identity, err := suite.service.LinkOrCreate(ctx, email, domain.ProviderGoogle, "google-sub-5",
		domain.ExternalProfile{Email: email, Image: "https://img.example.com/new.png"})

	// Backfill is best effort; the link itself succeeded.
	suite.Require().NoError(err)
	suite.Equal("user-13", identity.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestLinkServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LinkServiceTestSuite))
}
