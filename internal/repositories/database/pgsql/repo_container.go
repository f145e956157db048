package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/recipeshelf/backend/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs every pgsql-backed repository once, at
// boot, around a shared connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:            newPgxUserRepository(dbPool),
		ProviderAccountRepo: newPgxProviderAccountRepository(dbPool),
	}
}
