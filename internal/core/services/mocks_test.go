package services_test

import (
	"context"
	"time"

	"github.com/recipeshelf/backend/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository (based on UserRepositoryFacade) ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CreateUserWithProvider(ctx context.Context, user domain.User, account domain.ProviderAccount) error {
	args := m.Called(ctx, user, account)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserRole(ctx context.Context, userID string, role domain.Role, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, role, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserImage(ctx context.Context, userID string, image string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, image, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock ProviderAccountRepository (based on ProviderAccountRepositoryFacade) ---

type MockProviderAccountRepository struct {
	mock.Mock
}

func (m *MockProviderAccountRepository) FindByUserAndProvider(ctx context.Context, userID string, provider string) (*domain.ProviderAccount, error) {
	args := m.Called(ctx, userID, provider)
	var account *domain.ProviderAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.ProviderAccount)
	}
	return account, args.Error(1)
}

func (m *MockProviderAccountRepository) FindByProviderAccountID(ctx context.Context, provider string, providerAccountID string) (*domain.ProviderAccount, error) {
	args := m.Called(ctx, provider, providerAccountID)
	var account *domain.ProviderAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.ProviderAccount)
	}
	return account, args.Error(1)
}

func (m *MockProviderAccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.ProviderAccount, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.ProviderAccount
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.ProviderAccount)
	}
	return accounts, args.Error(1)
}

func (m *MockProviderAccountRepository) CreateProviderAccount(ctx context.Context, account domain.ProviderAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
