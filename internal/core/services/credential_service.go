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

// timingEqualizationHash is a throwaway bcrypt hash compared against on the
// unknown-email login path, so "no such account" and "wrong password" cost
// the same amount of work.
const timingEqualizationHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// credentialService implements the credential authenticator: password
// login and signup resolving to a canonical identity or a classified
// outcome.
type credentialService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	providerRepo portsrepo.ProviderAccountRepositoryFacade
	passwords    portssvc.PasswordSvcFacade
	storeTimeout time.Duration
}

// NewCredentialService creates a new credential authenticator.
func NewCredentialService(
	userRepo portsrepo.UserRepositoryFacade,
	providerRepo portsrepo.ProviderAccountRepositoryFacade,
	passwords portssvc.PasswordSvcFacade,
	storeTimeout time.Duration,
) portssvc.CredentialAuthSvcFacade {
	return &credentialService{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		passwords:    passwords,
		storeTimeout: storeTimeout,
	}
}

func (s *credentialService) Authorize(ctx context.Context, email string, password string, isNewAccount bool) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "user lookup failed during authorize")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if isNewAccount {
		return s.signUp(ctx, user, email, password)
	}
	return s.signIn(ctx, user, email, password)
}

// signUp creates a local identity, or explains which existing sign-in
// method the caller should use instead. Unlike the login path, this path is
// intentionally specific about why an email cannot be registered.
func (s *credentialService) signUp(ctx context.Context, existing *domain.User, email string, password string) (*domain.Identity, error) {
	if existing != nil {
		accounts, err := s.providerRepo.ListByUser(ctx, existing.UserID)
		if err != nil {
			s.LogError(ctx, err, "provider listing failed during signup", slog.String("user_id", existing.UserID))
			return nil, fmt.Errorf("failed to list linked providers: %w", err)
		}
		for _, acct := range accounts {
			if acct.Provider == domain.ProviderCredentials {
				return nil, apperrors.ErrEmailExistsWithCredentials
			}
		}
		if len(accounts) > 0 {
			return nil, &apperrors.EmailExistsWithProviderError{Provider: accounts[0].Provider}
		}
		// A user row with zero provider accounts cannot authenticate at all.
		s.LogWarn(ctx, "user has no linked providers", slog.String("user_id", existing.UserID))
		return nil, apperrors.ErrNoPasswordSet
	}

	hash, err := s.passwords.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID: newUserID,
		Email:  email,
		Name:   nameFromEmail(email),
		Role:   domain.RoleUser,
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
		Provider:          domain.ProviderCredentials,
		ProviderAccountID: newUserID,
		PasswordHash:      &hash,
		AuditFields:       user.AuditFields,
	}

	if err := s.userRepo.CreateUserWithProvider(ctx, user, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a signup race for the same email.
			return nil, apperrors.ErrEmailExistsWithCredentials
		}
		s.LogError(ctx, err, "atomic user+provider creation failed", slog.String("email", email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "user registered with password", slog.String("user_id", newUserID))
	return &domain.Identity{UserID: user.UserID, Name: user.Name, Email: user.Email}, nil
}

// signIn verifies a password against the stored credentials account. An
// unknown email yields (nil, nil): the login path never confirms whether an
// email is registered.
func (s *credentialService) signIn(ctx context.Context, user *domain.User, email string, password string) (*domain.Identity, error) {
	if user == nil {
		// Burn the same hashing work a real comparison would, then stay
		// non-committal.
		_, _ = s.passwords.Compare(ctx, password, timingEqualizationHash)
		return nil, nil
	}

	credentials, err := s.providerRepo.FindByUserAndProvider(ctx, user.UserID, domain.ProviderCredentials)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "credentials lookup failed during login", slog.String("user_id", user.UserID))
			return nil, fmt.Errorf("failed to look up credentials: %w", err)
		}
		accounts, listErr := s.providerRepo.ListByUser(ctx, user.UserID)
		if listErr != nil {
			s.LogError(ctx, listErr, "provider listing failed during login", slog.String("user_id", user.UserID))
			return nil, fmt.Errorf("failed to list linked providers: %w", listErr)
		}
		if len(accounts) > 0 {
			return nil, &apperrors.EmailExistsWithProviderError{Provider: accounts[0].Provider}
		}
		return nil, apperrors.ErrNoPasswordSet
	}

	if !credentials.HasPassword() {
		return nil, apperrors.ErrNoPasswordSet
	}

	match, err := s.passwords.Compare(ctx, password, *credentials.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !match {
		return nil, apperrors.ErrInvalidPassword
	}

	return &domain.Identity{UserID: user.UserID, Name: user.Name, Email: user.Email}, nil
}

// nameFromEmail derives a display name for password signups, which carry no
// profile. The local part of the email is the convention the product uses.
func nameFromEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
