package services

import (
	"context"

	"github.com/recipeshelf/backend/internal/core/domain"
)

// UserSvcFacade defines user management operations exposed to handlers.
type UserSvcFacade interface {
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// UpdateUserRole changes a user's role. The role must be a member of the
	// enumerated set; anything else fails validation.
	UpdateUserRole(ctx context.Context, userID string, role string, updaterUserID string) (*domain.User, error)

	// DeleteUser removes a user and, with it, every linked provider account.
	DeleteUser(ctx context.Context, userID string) error
}
