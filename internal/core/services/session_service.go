package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portsrepo "github.com/recipeshelf/backend/internal/core/ports/repositories"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/platform/config"
	"github.com/recipeshelf/backend/internal/utils"
)

// revokedCacheSize bounds the in-process set of revoked token IDs. Entries
// only ever shrink token validity; evicting one merely forces the next use
// of that token back through store revalidation, where the missing user is
// rediscovered.
const revokedCacheSize = 4096

// sessionService implements the session token manager. Tokens are stateless
// JWTs; validity against the mutable user record is reconciled by throttled
// revalidation, and revocation is monotonic via a jti cache.
type sessionService struct {
	BaseService
	userRepo        portsrepo.UserReader
	secret          string
	issuer          string
	tokenTTL        time.Duration
	revalidateAfter time.Duration
	storeTimeout    time.Duration
	revoked         *lru.Cache[string, time.Time]
	now             func() time.Time
}

// NewSessionService creates a new session token manager.
func NewSessionService(cfg *config.Config, userRepo portsrepo.UserReader) portssvc.SessionSvcFacade {
	revoked, _ := lru.New[string, time.Time](revokedCacheSize)
	return &sessionService{
		userRepo:        userRepo,
		secret:          cfg.JWTSecret,
		issuer:          cfg.JWTIssuer,
		tokenTTL:        cfg.JWTExpiryDuration,
		revalidateAfter: cfg.SessionRevalidationInterval,
		storeTimeout:    cfg.StoreTimeout,
		revoked:         revoked,
		now:             time.Now,
	}
}

func (s *sessionService) IssueSession(ctx context.Context, user *domain.User) (string, error) {
	claims := utils.NewSessionClaims(user, s.issuer, s.tokenTTL, s.now())
	token, err := utils.GenerateSessionToken(claims, s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Materialize turns a raw token into a usable session, running the embedded
// identity through throttled revalidation against the backing store. Any
// token that cannot be fully verified materializes to no session at all,
// never to a partially populated one.
func (s *sessionService) Materialize(ctx context.Context, tokenString string) (*domain.Session, string, error) {
	if tokenString == "" {
		return nil, "", nil
	}

	claims, err := utils.ParseSessionToken(tokenString, s.secret)
	if err != nil {
		s.LogDebug(ctx, "session token rejected", slog.String("error", err.Error()))
		return nil, "", nil
	}

	if _, isRevoked := s.revoked.Get(claims.ID); isRevoked {
		return nil, "", nil
	}

	now := s.now()
	lastVerified := time.Unix(claims.LastVerifiedAt, 0)

	needsResolve := claims.Subject == ""
	needsRevalidate := now.Sub(lastVerified) > s.revalidateAfter

	if !needsResolve && !needsRevalidate {
		return sessionFromClaims(claims), "", nil
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var user *domain.User
	if needsResolve {
		// Token minted before the user lookup completed: resolve by email.
		user, err = s.userRepo.FindUserByEmail(sctx, claims.Email)
	} else {
		user, err = s.userRepo.FindUserByID(sctx, claims.Subject)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Owner deleted. Revoking by token ID is terminal: even a
			// recreated same-email user never revives this token.
			s.revoked.Add(claims.ID, now)
			s.LogInfo(ctx, "session owner no longer exists, token revoked",
				slog.String("token_id", claims.ID))
			return nil, "", nil
		}
		s.LogError(ctx, err, "session revalidation store failure")
		return nil, "", fmt.Errorf("session revalidation failed: %w", err)
	}

	// Refresh the embedded snapshot; this is how role changes propagate
	// into long-lived tokens without a central revocation list.
	claims.Subject = user.UserID
	claims.Email = user.Email
	claims.Name = user.Name
	claims.Role = string(user.Role)
	claims.LastVerifiedAt = now.Unix()

	refreshed, err := utils.GenerateSessionToken(claims, s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to re-sign session token: %w", err)
	}

	return sessionFromClaims(claims), refreshed, nil
}

func sessionFromClaims(claims *utils.SessionClaims) *domain.Session {
	return &domain.Session{
		UserID:         claims.Subject,
		Email:          claims.Email,
		Name:           claims.Name,
		Role:           domain.ParseRole(claims.Role),
		LastVerifiedAt: time.Unix(claims.LastVerifiedAt, 0),
	}
}
