package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/dto"
	"github.com/recipeshelf/backend/internal/middleware"
	"github.com/recipeshelf/backend/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler handles the Google sign-in flow: handing out the login
// URL and exchanging the authorization code the frontend brings back.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthSvcFacade
	linkService        portssvc.ProviderLinkSvcFacade
	userService        portssvc.UserSvcFacade
	sessionService     portssvc.SessionSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthSvcFacade,
	linkService portssvc.ProviderLinkSvcFacade,
	userService portssvc.UserSvcFacade,
	sessionService portssvc.SessionSvcFacade,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		linkService:        linkService,
		userService:        userService,
		sessionService:     sessionService,
	}
}

// registerGoogleOAuthRoutes sets up the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, _ *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services.GoogleOAuth, services.Link, services.User, services.Session)

	google := rg.Group("/api/v1/auth/google")
	{
		google.GET("/login-url", h.LoginURLGoogle)
		google.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}

// LoginURLGoogle returns the Google consent-screen URL together with a fresh
// CSRF state string. The frontend stores the state and echoes it through the
// OAuth round trip.
func (h *GoogleOAuthHandler) LoginURLGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.Error("Failed to generate OAuth state string", slog.String("error", err.Error()))
		appErr := apperrors.NewInternalServerError("Failed to start Google login.")
		c.JSON(appErr.Code, appErr)
		return
	}

	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(ctx, state),
		State: state,
	})
}

// ExchangeCodeGoogle handles the POST request from the frontend containing
// the authorization code from Google. It exchanges the code for Google
// tokens, validates the ID token, links or creates the user, and returns an
// application session token.
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for exchange code request", slog.String("error", err.Error()))
		appErr := apperrors.NewBadRequestError("Invalid request payload: " + err.Error())
		c.JSON(appErr.Code, appErr)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		c.JSON(appErr.Code, appErr)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		appErr := apperrors.NewInternalServerError("Failed to retrieve ID token from Google.")
		c.JSON(appErr.Code, appErr)
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		appErr := apperrors.NewUnauthorizedError("Invalid Google ID token.")
		c.JSON(appErr.Code, appErr)
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	providerAccountID := payload.Subject

	if email == "" || providerAccountID == "" {
		logger.Error("Essential claims (email or sub) missing from Google ID token payload")
		appErr := apperrors.NewInternalServerError("Essential user information missing from Google token.")
		c.JSON(appErr.Code, appErr)
		return
	}

	identity, err := h.linkService.LinkOrCreate(ctx, email, domain.ProviderGoogle, providerAccountID, domain.ExternalProfile{
		Name:          name,
		Email:         email,
		Image:         picture,
		EmailVerified: emailVerified,
	})
	if err != nil {
		logger.Error("Failed to link or create user for Google identity", slog.String("error", err.Error()), slog.String("google_user_id", providerAccountID))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, appErr)
		} else {
			defaultErr := apperrors.NewInternalServerError("Failed to process user authentication.")
			c.JSON(defaultErr.Code, defaultErr)
		}
		return
	}
	logger.Info("User processed successfully via Google OAuth", slog.String("user_id", identity.UserID), slog.String("email", identity.Email))

	user, err := h.userService.GetUserByID(ctx, identity.UserID)
	if err != nil {
		logger.Error("Failed to load user after Google link", slog.String("user_id", identity.UserID), slog.String("error", err.Error()))
		appErr := apperrors.NewInternalServerError("Failed to complete authentication.")
		c.JSON(appErr.Code, appErr)
		return
	}

	token, err := h.sessionService.IssueSession(ctx, user)
	if err != nil {
		logger.Error("Failed to issue session token", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		appErr := apperrors.NewInternalServerError("Failed to generate access token.")
		c.JSON(appErr.Code, appErr)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}
