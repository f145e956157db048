package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/recipeshelf/backend/internal/core/domain"
)

// Context keys set by the session middleware. Using a custom type prevents
// collisions.
const (
	userIDKey  = contextKey("userID")
	sessionKey = contextKey("session")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	val := c.Request.Context().Value(userIDKey)
	if val == nil {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}

// GetSessionFromContext retrieves the materialized session from the Gin
// context. A missing session means the route was not behind the session
// middleware, or materialization produced no session.
func GetSessionFromContext(c *gin.Context) (*domain.Session, bool) {
	val := c.Request.Context().Value(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}
