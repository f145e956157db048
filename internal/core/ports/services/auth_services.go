package services

import (
	"context"

	"github.com/recipeshelf/backend/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// CredentialAuthSvcFacade defines the interface of the credential
// authenticator, the local password login/signup path.
type CredentialAuthSvcFacade interface {
	// Authorize verifies (isNewAccount=false) or creates (isNewAccount=true)
	// a local identity. On the login path an unknown email yields
	// (nil, nil) — a deliberately non-committal "no match" — while the
	// signup path fails with one of the classified apperrors outcomes:
	// ErrEmailExistsWithCredentials, EmailExistsWithProviderError,
	// ErrNoPasswordSet or ErrInvalidPassword.
	Authorize(ctx context.Context, email string, password string, isNewAccount bool) (*domain.Identity, error)
}

// ProviderLinkSvcFacade defines the interface of the provider account
// linker, invoked after an external identity provider has verified the
// caller out-of-band.
type ProviderLinkSvcFacade interface {
	// LinkOrCreate associates an externally verified identity with the
	// canonical user record for the given email, creating the user on first
	// contact. Linking is additive and idempotent; a duplicate-key race with
	// a concurrent callback counts as success.
	LinkOrCreate(ctx context.Context, email string, provider string, providerAccountID string, profile domain.ExternalProfile) (*domain.Identity, error)
}

// PasswordSvcFacade is the opaque password service: one-way hashing plus
// constant-time comparison, with CPU-bound work bounded off the dispatch
// path.
type PasswordSvcFacade interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Compare(ctx context.Context, plaintext string, hash string) (bool, error)
}

// GoogleOAuthSvcFacade defines the upstream Google operations the exchange
// handler needs. Protocol details stay behind this interface.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a
	// CSRF token for the OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google
	// login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and
	// returns its verified payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
