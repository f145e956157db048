package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/core/services"
	"github.com/recipeshelf/backend/internal/dto"
	"github.com/recipeshelf/backend/internal/handlers"
	"github.com/recipeshelf/backend/internal/middleware"
	"github.com/recipeshelf/backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CredentialAuthService ---

type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) Authorize(ctx context.Context, email string, password string, isNewAccount bool) (*domain.Identity, error) {
	args := m.Called(ctx, email, password, isNewAccount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

var _ portssvc.CredentialAuthSvcFacade = (*MockCredentialService)(nil)

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
func (m *MockUserService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) UpdateUserRole(ctx context.Context, userID string, role string, updaterUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, role, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock SessionService ---

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) IssueSession(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *MockSessionService) Materialize(ctx context.Context, tokenString string) (*domain.Session, string, error) {
	args := m.Called(ctx, tokenString)
	var session *domain.Session
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.Session)
	}
	return session, args.String(1), args.Error(2)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Test Suite ---

type AuthHandlerTestSuite struct {
	suite.Suite
	mockCredentials *MockCredentialService
	mockUsers       *MockUserService
	mockSessions    *MockSessionService
	router          *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockCredentials = new(MockCredentialService)
	suite.mockUsers = new(MockUserService)
	suite.mockSessions = new(MockSessionService)

	container := &portssvc.ServiceContainer{
		Credential: suite.mockCredentials,
		User:       suite.mockUsers,
		Session:    suite.mockSessions,
		Authz:      services.NewAuthorizationService(),
	}

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryDuration: time.Hour}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *AuthHandlerTestSuite) postJSON(path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestSignup_Success() {
	identity := &domain.Identity{UserID: "user-1", Name: "cook", Email: "cook@example.com"}
	user := &domain.User{UserID: "user-1", Email: "cook@example.com", Name: "cook", Role: domain.RoleUser}

	suite.mockCredentials.On("Authorize", mock.Anything, "cook@example.com", "password123", true).
		Return(identity, nil).Once()
	suite.mockUsers.On("GetUserByID", mock.Anything, "user-1").Return(user, nil).Once()
	suite.mockSessions.On("IssueSession", mock.Anything, user).Return("signed-token", nil).Once()

	w := suite.postJSON("/api/v1/auth/signup", `{"email":"cook@example.com","password":"password123"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed-token", resp.Token)
	suite.Equal("cook@example.com", resp.User.Email)
	suite.mockCredentials.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestSignup_WeakPasswordRejectedAtBinding() {
	// Too short, no digit: fails the strongpw binding before any service call.
	w := suite.postJSON("/api/v1/auth/signup", `{"email":"cook@example.com","password":"short"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCredentials.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestSignup_ConflictWithCredentials() {
	suite.mockCredentials.On("Authorize", mock.Anything, "taken@example.com", "password123", true).
		Return(nil, apperrors.ErrEmailExistsWithCredentials).Once()

	w := suite.postJSON("/api/v1/auth/signup", `{"email":"taken@example.com","password":"password123"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "log in instead")
}

func (suite *AuthHandlerTestSuite) TestSignup_ConflictWithProviderNamesProvider() {
	suite.mockCredentials.On("Authorize", mock.Anything, "oauth@example.com", "password123", true).
		Return(nil, &apperrors.EmailExistsWithProviderError{Provider: domain.ProviderGoogle}).Once()

	w := suite.postJSON("/api/v1/auth/signup", `{"email":"oauth@example.com","password":"password123"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "google")
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	identity := &domain.Identity{UserID: "user-1", Name: "Cook", Email: "cook@example.com"}
	user := &domain.User{UserID: "user-1", Email: "cook@example.com", Name: "Cook", Role: domain.RoleUser}

	suite.mockCredentials.On("Authorize", mock.Anything, "cook@example.com", "password123", false).
		Return(identity, nil).Once()
	suite.mockUsers.On("GetUserByID", mock.Anything, "user-1").Return(user, nil).Once()
	suite.mockSessions.On("IssueSession", mock.Anything, user).Return("signed-token", nil).Once()

	w := suite.postJSON("/api/v1/auth/login", `{"email":"cook@example.com","password":"password123"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed-token", resp.Token)
}

func (suite *AuthHandlerTestSuite) TestLogin_FailuresAreIndistinguishable() {
	// Unknown email materializes as (nil, nil); wrong password as a
	// classified error. Both must produce byte-identical responses.
	suite.mockCredentials.On("Authorize", mock.Anything, "nobody@example.com", "password123", false).
		Return(nil, nil).Once()
	suite.mockCredentials.On("Authorize", mock.Anything, "cook@example.com", "wrongpass1", false).
		Return(nil, apperrors.ErrInvalidPassword).Once()

	unknownEmail := suite.postJSON("/api/v1/auth/login", `{"email":"nobody@example.com","password":"password123"}`)
	wrongPassword := suite.postJSON("/api/v1/auth/login", `{"email":"cook@example.com","password":"wrongpass1"}`)

	suite.Equal(http.StatusUnauthorized, unknownEmail.Code)
	suite.Equal(http.StatusUnauthorized, wrongPassword.Code)
	suite.Equal(unknownEmail.Body.String(), wrongPassword.Body.String())
}

func (suite *AuthHandlerTestSuite) TestProtectedRoute_RequiresSession() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestProtectedRoute_MaterializedSessionAndRefreshHeader() {
	session := &domain.Session{UserID: "user-1", Email: "cook@example.com", Name: "Cook", Role: domain.RoleUser, LastVerifiedAt: time.Now()}
	suite.mockSessions.On("Materialize", mock.Anything, "valid-token").
		Return(session, "re-minted-token", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("re-minted-token", w.Header().Get(middleware.RefreshedTokenHeader))

	var resp dto.SessionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("user-1", resp.UserID)
}

func (suite *AuthHandlerTestSuite) TestProtectedRoute_RevokedTokenDenied() {
	suite.mockSessions.On("Materialize", mock.Anything, "revoked-token").
		Return(nil, "", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
