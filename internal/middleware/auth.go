package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
)

// RefreshedTokenHeader carries a re-minted session token back to the client
// when throttled revalidation refreshed the embedded identity or role.
const RefreshedTokenHeader = "X-Refreshed-Token"

// SessionMiddleware creates a Gin middleware handler that materializes the
// bearer session token once per request and enforces RequireAuth. The
// materialized session is stored in the request context for handlers.
func SessionMiddleware(sessions portssvc.SessionSvcFacade, authz portssvc.AuthorizationSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		session, refreshedToken, err := sessions.Materialize(c.Request.Context(), parts[1])
		if err != nil {
			// Store failure during revalidation: deny, never fail open.
			logger.Error("Session materialization failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied, please sign in"})
			return
		}
		if refreshedToken != "" {
			c.Header(RefreshedTokenHeader, refreshedToken)
		}

		if _, err := authz.RequireAuth(session); err != nil {
			logger.Warn("No usable session for request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied, please sign in"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), sessionKey, session)
		ctx = context.WithValue(ctx, userIDKey, session.UserID)

		enrichedLogger := logger.With(slog.String("user_id", session.UserID))
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
