package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/recipeshelf/backend/internal/apperrors"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/dto"
	"github.com/recipeshelf/backend/internal/middleware"
	"github.com/recipeshelf/backend/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles the password signup and login endpoints.
type AuthHandler struct {
	credentialService portssvc.CredentialAuthSvcFacade
	userService       portssvc.UserSvcFacade
	sessionService    portssvc.SessionSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cs portssvc.CredentialAuthSvcFacade, us portssvc.UserSvcFacade, ss portssvc.SessionSvcFacade) *AuthHandler {
	return &AuthHandler{
		credentialService: cs,
		userService:       us,
		sessionService:    ss,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Credential, services.User, services.Session)

	// Rate limit the credential endpoints: 5 requests per minute per IP.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/signup", limitMiddleware, h.Signup)
	}

	registerGoogleOAuthRoutes(rg, cfg, services)
}

// Signup creates a password-backed account and returns a session token.
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for signup request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	identity, err := h.credentialService.Authorize(ctx, req.Email, req.Password, true)
	if err != nil {
		h.respondSignupError(c, err)
		return
	}
	if identity == nil {
		logger.Error("Signup produced neither identity nor error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register"})
		return
	}

	h.issueSessionResponse(c, identity.UserID, http.StatusCreated)
}

// Login verifies a password credential and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	identity, err := h.credentialService.Authorize(ctx, req.Email, req.Password, false)
	if err != nil {
		// Every classified login failure collapses into the same response so
		// the error itself discloses nothing about the account.
		var providerErr *apperrors.EmailExistsWithProviderError
		switch {
		case errors.Is(err, apperrors.ErrInvalidPassword),
			errors.Is(err, apperrors.ErrNoPasswordSet),
			errors.As(err, &providerErr):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		default:
			logger.Error("Login failed in credential service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		}
		return
	}
	if identity == nil {
		// Unknown email: indistinguishable from a wrong password.
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	h.issueSessionResponse(c, identity.UserID, http.StatusOK)
}

// respondSignupError maps classified signup outcomes onto HTTP responses.
// Signup deliberately discloses conflicts: the caller just typed this email.
func (h *AuthHandler) respondSignupError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var providerErr *apperrors.EmailExistsWithProviderError
	switch {
	case errors.Is(err, apperrors.ErrEmailExistsWithCredentials):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "An account with this email already exists. Please log in instead."})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: providerErr.Error()})
	case errors.Is(err, apperrors.ErrNoPasswordSet):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "This account has no password set. Please sign in with your linked provider."})
	default:
		logger.Error("Signup failed in credential service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register"})
	}
}

// issueSessionResponse loads the full user record, mints a session token and
// writes the auth response.
func (h *AuthHandler) issueSessionResponse(c *gin.Context, userID string, status int) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load user after authentication", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to complete authentication"})
		return
	}

	token, err := h.sessionService.IssueSession(ctx, user)
	if err != nil {
		logger.Error("Failed to issue session token", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(status, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}
