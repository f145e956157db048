package dto

import (
	"time"

	"github.com/recipeshelf/backend/internal/core/domain"
)

// UserResponse is the client-facing shape of a user record.
type UserResponse struct {
	UserID          string     `json:"userID"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	Image           string     `json:"image,omitempty"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ToUserResponse maps a domain user onto its response shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:          u.UserID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            string(u.Role),
		Image:           u.Image,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
	}
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// UpdateUserRoleRequest is the payload for the admin role-change endpoint.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SessionResponse is the client-facing shape of the caller's own session.
type SessionResponse struct {
	UserID         string    `json:"userID"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	LastVerifiedAt time.Time `json:"lastVerifiedAt"`
}
