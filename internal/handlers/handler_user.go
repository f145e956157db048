package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/dto"
	"github.com/recipeshelf/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService  portssvc.UserSvcFacade
	authzService portssvc.AuthorizationSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade, az portssvc.AuthorizationSvcFacade) *userHandler {
	return &userHandler{
		userService:  us,
		authzService: az,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, authzService portssvc.AuthorizationSvcFacade) {
	h := newUserHandler(userService, authzService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.me)                 // Own session
		users.GET("", h.listUsers)             // Admin only
		users.GET("/:id", h.getUser)           // Own or admin
		users.PUT("/:id/role", h.updateRole)   // Admin only
		users.DELETE("/:id", h.deleteUser)     // Own or admin
	}
}

// me returns the caller's materialized session.
func (h *userHandler) me(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		logger.Error("Session not found in context on protected route")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{
		UserID:         session.UserID,
		Email:          session.Email,
		Name:           session.Name,
		Role:           string(session.Role),
		LastVerifiedAt: session.LastVerifiedAt,
	})
}

// getUser returns a single user. Callers may fetch themselves; admins may
// fetch anyone.
func (h *userHandler) getUser(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	targetUserID := c.Param("id")

	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if session.UserID != targetUserID && !h.authzService.IsAdmin(session) {
		logger.Warn("User forbidden to access another user's details", slog.String("target_id", targetUserID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	user, err := h.userService.GetUserByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		} else {
			logger.Error("Failed to get user from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listUsers returns a page of users. Admin only.
func (h *userHandler) listUsers(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	session, _ := middleware.GetSessionFromContext(c)
	if _, err := h.authzService.RequireRole(session, domain.RoleAdmin); err != nil {
		logger.Warn("Non-admin attempted to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.userService.ListUsers(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}

	resp := dto.ListUsersResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, dto.ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updateRole changes a user's role. Admin only.
func (h *userHandler) updateRole(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	targetUserID := c.Param("id")

	session, _ := middleware.GetSessionFromContext(c)
	if _, err := h.authzService.RequireRole(session, domain.RoleAdmin); err != nil {
		logger.Warn("Non-admin attempted role change", slog.String("target_id", targetUserID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateUserRole(ctx, targetUserID, req.Role, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		default:
			logger.Error("Failed to update user role", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update role"})
		}
		return
	}

	logger.Info("User role updated", slog.String("target_id", targetUserID), slog.String("role", string(user.Role)))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deleteUser removes a user and all linked provider accounts. Users may
// delete themselves; admins may delete anyone.
func (h *userHandler) deleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	targetUserID := c.Param("id")

	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if session.UserID != targetUserID && !h.authzService.IsAdmin(session) {
		logger.Warn("User forbidden to delete another user", slog.String("target_id", targetUserID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	if err := h.userService.DeleteUser(ctx, targetUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		} else {
			logger.Error("Failed to delete user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete user"})
		}
		return
	}

	logger.Info("User deleted", slog.String("target_id", targetUserID))
	c.Status(http.StatusNoContent)
}
