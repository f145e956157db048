package services

import (
	"context"
	"fmt"
	"runtime"

	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// passwordService implements PasswordSvcFacade using bcrypt. Hashing is
// CPU-bound, so a weighted semaphore caps how many comparisons/hashes run at
// once; concurrent login attempts queue here instead of starving the
// request dispatch path.
type passwordService struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordService creates a bcrypt-backed password service. A cost outside
// the bcrypt-supported range falls back to the default cost; maxConcurrent<=0
// falls back to GOMAXPROCS.
func NewPasswordService(cost int, maxConcurrent int64) portssvc.PasswordSvcFacade {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = int64(runtime.GOMAXPROCS(0))
	}
	return &passwordService{
		cost: cost,
		sem:  semaphore.NewWeighted(maxConcurrent),
	}
}

func (s *passwordService) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("password hashing canceled: %w", err)
	}
	defer s.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *passwordService) Compare(ctx context.Context, plaintext string, hash string) (bool, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("password comparison canceled: %w", err)
	}
	defer s.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil, nil
}
