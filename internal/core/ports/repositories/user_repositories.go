package repositories

import (
	"context"
	"time"

	"github.com/recipeshelf/backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a specific user by email (case-sensitive,
	// as stored).
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// CreateUserWithProvider persists a new user together with their first
	// provider account in one transaction. A crash between the two inserts
	// must leave neither row. Returns apperrors.ErrDuplicate when either
	// uniqueness constraint is violated.
	CreateUserWithProvider(ctx context.Context, user domain.User, account domain.ProviderAccount) error

	// UpdateUserRole replaces the stored role for a user.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role, updatedBy string, updatedAt time.Time) error

	// UpdateUserImage replaces the stored profile image for a user.
	UpdateUserImage(ctx context.Context, userID string, image string, updatedBy string, updatedAt time.Time) error
}

// UserLifecycleManager defines operations for managing user lifecycle.
type UserLifecycleManager interface {
	// DeleteUser removes the user row. Provider accounts are removed in the
	// same statement via the store's cascading foreign key.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
