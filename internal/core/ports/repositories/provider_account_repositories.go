package repositories

import (
	"context"

	"github.com/recipeshelf/backend/internal/core/domain"
)

// ProviderAccountReader defines read operations for provider-account data.
type ProviderAccountReader interface {
	// FindByUserAndProvider retrieves the account linking a user to one
	// provider, if any.
	FindByUserAndProvider(ctx context.Context, userID string, provider string) (*domain.ProviderAccount, error)

	// FindByProviderAccountID retrieves the account for an external identity.
	FindByProviderAccountID(ctx context.Context, provider string, providerAccountID string) (*domain.ProviderAccount, error)

	// ListByUser retrieves every provider account linked to a user.
	ListByUser(ctx context.Context, userID string) ([]domain.ProviderAccount, error)
}

// ProviderAccountWriter defines write operations for provider-account data.
type ProviderAccountWriter interface {
	// CreateProviderAccount persists a new provider account. Returns
	// apperrors.ErrDuplicate when the (userID, provider) or
	// (provider, providerAccountID) uniqueness constraint is violated, so
	// callers can treat a lost linking race as a no-op.
	CreateProviderAccount(ctx context.Context, account domain.ProviderAccount) error
}

// ProviderAccountRepositoryFacade combines all provider-account repository
// interfaces.
type ProviderAccountRepositoryFacade interface {
	ProviderAccountReader
	ProviderAccountWriter
}
