package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portsrepo "github.com/recipeshelf/backend/internal/core/ports/repositories"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
)

// linkService implements the provider account linker: it associates an
// externally verified identity with a canonical user record, creating the
// user on first contact. Linking is additive; a user accumulates providers
// over time and existing links are never replaced.
type linkService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	providerRepo portsrepo.ProviderAccountRepositoryFacade
	storeTimeout time.Duration
}

// NewLinkService creates a new provider account linker.
func NewLinkService(
	userRepo portsrepo.UserRepositoryFacade,
	providerRepo portsrepo.ProviderAccountRepositoryFacade,
	storeTimeout time.Duration,
) portssvc.ProviderLinkSvcFacade {
	return &linkService{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		storeTimeout: storeTimeout,
	}
}

func (s *linkService) LinkOrCreate(ctx context.Context, email string, provider string, providerAccountID string, profile domain.ExternalProfile) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.createWithProvider(ctx, email, provider, providerAccountID, profile)
		}
		s.LogError(ctx, err, "user lookup failed during provider link", slog.String("provider", provider))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	identity := &domain.Identity{UserID: user.UserID, Name: user.Name, Email: user.Email}

	_, err = s.providerRepo.FindByUserAndProvider(ctx, user.UserID, provider)
	switch {
	case err == nil:
		// Already linked: idempotent no-op.
	case errors.Is(err, apperrors.ErrNotFound):
		now := time.Now()
		account := domain.ProviderAccount{
			AccountID:         uuid.NewString(),
			UserID:            user.UserID,
			Provider:          provider,
			ProviderAccountID: providerAccountID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     user.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: user.UserID,
			},
		}
		if createErr := s.providerRepo.CreateProviderAccount(ctx, account); createErr != nil {
			if !errors.Is(createErr, apperrors.ErrDuplicate) {
				s.LogError(ctx, createErr, "provider account creation failed",
					slog.String("user_id", user.UserID), slog.String("provider", provider))
				return nil, fmt.Errorf("failed to link provider: %w", createErr)
			}
			// A concurrent callback for the same (userID, provider) won the
			// insert; the link exists, which is all we wanted.
			s.LogDebug(ctx, "provider link already created concurrently",
				slog.String("user_id", user.UserID), slog.String("provider", provider))
		} else {
			s.LogInfo(ctx, "linked provider to existing user",
				slog.String("user_id", user.UserID), slog.String("provider", provider))
		}
	default:
		s.LogError(ctx, err, "provider lookup failed during link", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to look up provider link: %w", err)
	}

	s.backfillImage(ctx, user, profile)

	return identity, nil
}

// createWithProvider handles first contact: user row and provider-account
// row come into existence in one transaction, or not at all.
func (s *linkService) createWithProvider(ctx context.Context, email string, provider string, providerAccountID string, profile domain.ExternalProfile) (*domain.Identity, error) {
	now := time.Now()
	newUserID := uuid.NewString()

	name := profile.Name
	if name == "" {
		name = nameFromEmail(email)
	}
	var verifiedAt *time.Time
	if profile.EmailVerified {
		verifiedAt = &now
	}

	user := domain.User{
		UserID:          newUserID,
		Email:           email,
		Name:            name,
		Role:            domain.RoleUser,
		Image:           profile.Image,
		EmailVerifiedAt: verifiedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}
	account := domain.ProviderAccount{
		AccountID:         uuid.NewString(),
		UserID:            newUserID,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
		AuditFields:       user.AuditFields,
	}

	if err := s.userRepo.CreateUserWithProvider(ctx, user, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent callback created the same user; resolve it and
			// report success.
			existing, findErr := s.userRepo.FindUserByEmail(ctx, email)
			if findErr == nil {
				return &domain.Identity{UserID: existing.UserID, Name: existing.Name, Email: existing.Email}, nil
			}
		}
		s.LogError(ctx, err, "atomic user+provider creation failed", slog.String("provider", provider))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "user created from external identity",
		slog.String("user_id", newUserID), slog.String("provider", provider))
	return &domain.Identity{UserID: user.UserID, Name: user.Name, Email: user.Email}, nil
}

// backfillImage copies the external profile image onto a user record that
// has none. Best effort: a failure here never fails the link.
func (s *linkService) backfillImage(ctx context.Context, user *domain.User, profile domain.ExternalProfile) {
	if user.Image != "" || profile.Image == "" {
		return
	}
	if err := s.userRepo.UpdateUserImage(ctx, user.UserID, profile.Image, user.UserID, time.Now()); err != nil {
		s.LogWarn(ctx, "profile image backfill failed",
			slog.String("user_id", user.UserID), slog.String("error", err.Error()))
	}
}
