package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portsrepo "github.com/recipeshelf/backend/internal/core/ports/repositories"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
)

// userService implements user management on top of the user repository.
type userService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	storeTimeout time.Duration
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, storeTimeout time.Duration) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, storeTimeout: storeTimeout}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) UpdateUserRole(ctx context.Context, userID string, role string, updaterUserID string) (*domain.User, error) {
	parsed := domain.ParseRole(role)
	if !parsed.Valid() {
		return nil, fmt.Errorf("%w: role must be one of [user admin], got %q", apperrors.ErrValidation, role)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	now := time.Now()
	if err := s.userRepo.UpdateUserRole(ctx, userID, parsed, updaterUserID, now); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	s.LogInfo(ctx, "user role updated",
		slog.String("user_id", userID),
		slog.String("role", string(parsed)),
		slog.String("updated_by", updaterUserID))

	// Role changes reach live sessions on their next revalidation; there is
	// nothing to invalidate here.
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.LogInfo(ctx, "user deleted", slog.String("user_id", userID))
	return nil
}
