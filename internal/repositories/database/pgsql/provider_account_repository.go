package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portsrepo "github.com/recipeshelf/backend/internal/core/ports/repositories"
	"github.com/recipeshelf/backend/internal/models"
)

type PgxProviderAccountRepository struct {
	BaseRepository
}

func newPgxProviderAccountRepository(db *pgxpool.Pool) portsrepo.ProviderAccountRepositoryFacade {
	return &PgxProviderAccountRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ProviderAccountRepositoryFacade = (*PgxProviderAccountRepository)(nil)

func toDomainProviderAccount(m models.ProviderAccount) domain.ProviderAccount {
	return domain.ProviderAccount{
		AccountID:         m.AccountID,
		UserID:            m.UserID,
		Provider:          m.Provider,
		ProviderAccountID: m.ProviderAccountID,
		PasswordHash:      m.PasswordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const providerAccountColumns = `account_id, user_id, provider, provider_account_id, password_hash, created_at, created_by, last_updated_at, last_updated_by`

func scanProviderAccount(row pgx.Row) (*models.ProviderAccount, error) {
	var m models.ProviderAccount
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Provider,
		&m.ProviderAccountID,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxProviderAccountRepository) FindByUserAndProvider(ctx context.Context, userID string, provider string) (*domain.ProviderAccount, error) {
	query := `SELECT ` + providerAccountColumns + ` FROM provider_accounts WHERE user_id = $1 AND provider = $2;`
	m, err := scanProviderAccount(r.Pool.QueryRow(ctx, query, userID, provider))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find provider account: %w", err)
	}
	acct := toDomainProviderAccount(*m)
	return &acct, nil
}

func (r *PgxProviderAccountRepository) FindByProviderAccountID(ctx context.Context, provider string, providerAccountID string) (*domain.ProviderAccount, error) {
	query := `SELECT ` + providerAccountColumns + ` FROM provider_accounts WHERE provider = $1 AND provider_account_id = $2;`
	m, err := scanProviderAccount(r.Pool.QueryRow(ctx, query, provider, providerAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find provider account by external ID: %w", err)
	}
	acct := toDomainProviderAccount(*m)
	return &acct, nil
}

func (r *PgxProviderAccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.ProviderAccount, error) {
	query := `SELECT ` + providerAccountColumns + ` FROM provider_accounts WHERE user_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.ProviderAccount{}
	for rows.Next() {
		m, err := scanProviderAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider account row: %w", err)
		}
		accounts = append(accounts, toDomainProviderAccount(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating provider account rows: %w", rows.Err())
	}

	return accounts, nil
}

func (r *PgxProviderAccountRepository) CreateProviderAccount(ctx context.Context, account domain.ProviderAccount) error {
	return insertProviderAccount(ctx, r.Pool, account)
}

// execer is satisfied by both the pool and a transaction, so the same insert
// serves standalone linking and the atomic user+provider creation path.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertProviderAccount(ctx context.Context, db execer, account domain.ProviderAccount) error {
	query := `
        INSERT INTO provider_accounts (account_id, user_id, provider, provider_account_id, password_hash, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := db.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Provider,
		account.ProviderAccountID,
		account.PasswordHash,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert provider account: %w", err)
	}
	return nil
}
